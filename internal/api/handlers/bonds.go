package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/response"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/validation"
)

// BondHandler handles HTTP requests for exchange bond lookups.
type BondHandler struct {
	marketService *service.MarketService
}

// NewBondHandler creates a new BondHandler with the provided service dependency.
func NewBondHandler(marketService *service.MarketService) *BondHandler {
	return &BondHandler{
		marketService: marketService,
	}
}

// Bonds handles GET requests for normalized bonds by SECID.
//
// Endpoint: GET /api/bonds?secid=A,B[&schedule=true]
// Response: 200 OK with array of model.BondResponse
// Error: 400 Bad Request if secid is missing or malformed
// Error: 502 Bad Gateway if the exchange matched none of the securities
func (h *BondHandler) Bonds(w http.ResponseWriter, r *http.Request) {
	secIDs, err := request.ParseSecIDs(r.URL.Query().Get("secid"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid secid parameter", err.Error())
		return
	}
	if err := validation.ValidateSecIDs(secIDs); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid secid parameter", err.Error())
		return
	}

	withSchedule := false
	if raw := r.URL.Query().Get("schedule"); raw != "" {
		withSchedule, err = strconv.ParseBool(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid schedule parameter", err.Error())
			return
		}
	}

	var bonds []model.Bond
	if withSchedule {
		bonds, err = h.marketService.BondsWithSchedules(r.Context(), secIDs)
	} else {
		bonds, err = h.marketService.Bonds(r.Context(), secIDs)
	}
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveBonds.Error())
		return
	}

	result := make([]model.BondResponse, len(bonds))
	for i, b := range bonds {
		result[i] = model.NewBondResponse(b)
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Schedule handles GET requests for one bond's coupon and amortization schedule.
//
// Endpoint: GET /api/bonds/{secid}/schedule
// Response: 200 OK with model.CouponSchedule
// Error: 400 Bad Request if secid is malformed (validated by middleware)
// Error: 502 Bad Gateway if the exchange lists no coupons for the bond
func (h *BondHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	secID := strings.ToUpper(chi.URLParam(r, "secid"))

	schedule, err := h.marketService.Schedule(r.Context(), secID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveBonds.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, schedule)
}
