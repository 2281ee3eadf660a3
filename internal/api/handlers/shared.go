package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/response"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T, rejecting unknown fields and
// trailing data.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return v, fmt.Errorf("invalid JSON: unexpected data after object")
	}

	return v, nil
}

// respondServiceError maps a service error to an HTTP status:
//   - missing portfolio, position or bond: 404
//   - duplicate position: 409
//   - validation failures: 400
//   - bond in a currency without a rate: 422
//   - unusable exchange data: 502
//   - rate table not loaded yet: 503
//   - anything else: 500 with fallback as the message
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *validation.Error

	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrBondNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), "")

	case errors.Is(err, apperrors.ErrDuplicateEntry):
		response.RespondError(w, http.StatusConflict, "bond already in portfolio", err.Error())

	case errors.As(err, &verr),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidSecID),
		errors.Is(err, apperrors.ErrNegativeAmount):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())

	case errors.Is(err, apperrors.ErrUnknownCurrency):
		response.RespondError(w, http.StatusUnprocessableEntity, "currency rate unavailable", err.Error())

	case errors.Is(err, apperrors.ErrData):
		response.RespondError(w, http.StatusBadGateway, "exchange returned unusable data", err.Error())

	case errors.Is(err, apperrors.ErrRatesNotLoaded):
		response.RespondError(w, http.StatusServiceUnavailable, err.Error(), "")

	default:
		response.RespondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
