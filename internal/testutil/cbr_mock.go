package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// MockRatesClient is a mock implementation of cbr.Client for testing.
type MockRatesClient struct {
	mu sync.Mutex

	// MockSnapshot is returned from FetchRates
	MockSnapshot model.RateSnapshot
	// MockError is returned from FetchRates when set
	MockError error

	fetches int
}

// NewMockRatesClient creates a mock rate feed publishing USD at 90 and EUR at 100 rubles.
func NewMockRatesClient() *MockRatesClient {
	return &MockRatesClient{
		MockSnapshot: model.RateSnapshot{
			Date: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Rates: model.CurrencyRates{
				"USD": {Rate: 90, Name: "Доллар США"},
				"EUR": {Rate: 100, Name: "Евро"},
			},
			FetchedAt: time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC),
		},
	}
}

// WithRates replaces the published rate table.
func (m *MockRatesClient) WithRates(rates model.CurrencyRates) *MockRatesClient {
	m.MockSnapshot.Rates = rates
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockRatesClient) WithError(err error) *MockRatesClient {
	m.MockError = err
	return m
}

// FetchRates returns the configured snapshot or error.
func (m *MockRatesClient) FetchRates(_ context.Context) (model.RateSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches++
	if m.MockError != nil {
		return model.RateSnapshot{}, m.MockError
	}
	return m.MockSnapshot, nil
}

// Fetches returns how many times FetchRates was called.
func (m *MockRatesClient) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}
