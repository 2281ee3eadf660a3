package handlers

import (
	"net/http"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/response"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
)

// CurrencyHandler serves the cached central bank rate table.
type CurrencyHandler struct {
	currencyService *service.CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService *service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		currencyService: currencyService,
	}
}

// Rates handles GET requests for the current rate table.
//
// Endpoint: GET /api/currencies
// Response: 200 OK with model.RateSnapshot
// Error: 503 Service Unavailable until the first refresh succeeds
func (h *CurrencyHandler) Rates(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := h.currencyService.Snapshot()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveRates.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}
