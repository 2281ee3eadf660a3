package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/validation"
)

// TestRespondServiceError tests the error to status mapping.
// This is an internal test (package handlers, not handlers_test) because
// respondServiceError is unexported.
func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"portfolio not found", fmt.Errorf("load: %w", apperrors.ErrPortfolioNotFound), http.StatusNotFound},
		{"position not found", apperrors.ErrPositionNotFound, http.StatusNotFound},
		{"duplicate", fmt.Errorf("failed to add X: %w", apperrors.ErrDuplicateEntry), http.StatusConflict},
		{"validation", &validation.Error{Fields: map[string]string{"name": "name is required"}}, http.StatusBadRequest},
		{"date range", apperrors.ErrInvalidDateRange, http.StatusBadRequest},
		{"unknown currency", &apperrors.UnknownCurrencyError{Currency: "CHF", SecID: "X"}, http.StatusUnprocessableEntity},
		{"data error", apperrors.NewDataError("", apperrors.ErrNoSecuritiesData), http.StatusBadGateway},
		{"rates not loaded", apperrors.ErrRatesNotLoaded, http.StatusServiceUnavailable},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			respondServiceError(w, tt.err, "fallback message")

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ladder"}`))

		got, err := parseJSON[payload](req)

		if err != nil {
			t.Fatalf("parseJSON() returned unexpected error: %v", err)
		}
		if got.Name != "Ladder" {
			t.Errorf("Expected name Ladder, got %q", got.Name)
		}
	})

	for name, body := range map[string]string{
		"unknown field": `{"name":"x","extra":1}`,
		"trailing data": `{"name":"x"} {"name":"y"}`,
		"malformed":     `{"name":`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

			if _, err := parseJSON[payload](req); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
