package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/testutil"
)

func TestCurrencyHandler_Rates(t *testing.T) {
	t.Run("returns 503 before the first refresh", func(t *testing.T) {
		handler := NewCurrencyHandler(testutil.NewTestCurrencyService(t, testutil.NewMockRatesClient()))

		w := httptest.NewRecorder()
		handler.Rates(w, httptest.NewRequest(http.MethodGet, "/api/currencies", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns the cached table", func(t *testing.T) {
		svc := testutil.NewTestCurrencyService(t, testutil.NewMockRatesClient())
		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		handler := NewCurrencyHandler(svc)

		w := httptest.NewRecorder()
		handler.Rates(w, httptest.NewRequest(http.MethodGet, "/api/currencies", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var snapshot model.RateSnapshot
		if err := json.NewDecoder(w.Body).Decode(&snapshot); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if snapshot.Rates["USD"].Rate != 90 {
			t.Errorf("Expected USD 90, got %v", snapshot.Rates["USD"])
		}
	})
}
