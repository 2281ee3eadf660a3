package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/response"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios handles GET requests to list all portfolios.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of model.Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio handles POST requests to create a portfolio, optionally
// seeded with bonds.
//
// Endpoint: POST /api/portfolio
// Request: request.CreatePortfolioRequest
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request if the body is invalid
// Error: 409 Conflict if a bond is listed twice
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create portfolio")
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// Portfolio handles GET requests for a single portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with model.Portfolio
// Error: 400 Bad Request if portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE requests for a portfolio and its positions.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeletePortfolio(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete portfolio")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// PortfolioBonds handles GET requests for the held bonds with live exchange
// data. With schedule=true each bond also carries its cash-flow schedule.
//
// Endpoint: GET /api/portfolio/{uuid}/bonds[?schedule=true]
// Response: 200 OK with array of model.BondResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 502 Bad Gateway if the exchange returned unusable data
func (h *PortfolioHandler) PortfolioBonds(w http.ResponseWriter, r *http.Request) {
	withSchedule := false
	if raw := r.URL.Query().Get("schedule"); raw != "" {
		var err error
		if withSchedule, err = strconv.ParseBool(raw); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid schedule parameter", err.Error())
			return
		}
	}

	bonds, err := h.portfolioService.PortfolioBonds(r.Context(), chi.URLParam(r, "uuid"), withSchedule)
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

// AddPosition handles POST requests to add a bond to a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/bonds
// Request: request.PositionRequest
// Response: 201 Created with model.Position
// Error: 400 Bad Request if the body is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if the portfolio already holds the bond
func (h *PortfolioHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.PositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePosition(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	position, err := h.portfolioService.AddPosition(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to add bond")
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// UpdatePosition handles PUT requests to change quantity and purchase price.
//
// Endpoint: PUT /api/portfolio/{uuid}/bonds/{secid}
// Request: request.UpdatePositionRequest
// Response: 200 OK with model.Position
// Error: 404 Not Found if the portfolio does not hold the bond
func (h *PortfolioHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePosition(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	position, err := h.portfolioService.UpdatePosition(r.Context(), chi.URLParam(r, "uuid"), chi.URLParam(r, "secid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to update bond")
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// RemovePosition handles DELETE requests to remove a bond from a portfolio.
//
// Endpoint: DELETE /api/portfolio/{uuid}/bonds/{secid}
// Response: 204 No Content
// Error: 404 Not Found if the portfolio does not hold the bond
func (h *PortfolioHandler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.RemovePosition(r.Context(), chi.URLParam(r, "uuid"), chi.URLParam(r, "secid")); err != nil {
		respondServiceError(w, err, "failed to remove bond")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// PortfolioSummary handles GET requests for the portfolio's live totals.
//
// Endpoint: GET /api/portfolio/{uuid}/summary
// Response: 200 OK with model.PortfolioSummary
// Error: 404 Not Found if the portfolio does not exist
// Error: 422 Unprocessable Entity if a bond's currency has no rate
// Error: 502 Bad Gateway if the exchange returned unusable data
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Calendar handles GET requests for coupon and amortization totals per
// currency over a day, a month or an explicit range. Without parameters the
// current month is used.
//
// Endpoint: GET /api/portfolio/{uuid}/calendar?date=YYYY-MM-DD | ?month=YYYY-MM | ?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with model.CashFlowCalendar
// Error: 400 Bad Request if the range parameters are invalid
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, end, err := request.ParseCalendarRange(q.Get("date"), q.Get("month"), q.Get("start"), q.Get("end"), time.Now())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid calendar range", err.Error())
		return
	}

	calendar, err := h.portfolioService.GetCashFlowCalendar(r.Context(), chi.URLParam(r, "uuid"), start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetCalendar.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, calendar)
}
