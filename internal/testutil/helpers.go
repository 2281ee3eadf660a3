package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/cbr"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/moex"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/repository"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
)

// NewTestMarketService creates a MarketService backed by the given exchange client.
func NewTestMarketService(t *testing.T, client moex.Client) *service.MarketService {
	t.Helper()
	return service.NewMarketService(client, 2, logging.Discard())
}

// NewTestCurrencyService creates a CurrencyService backed by the given rate client.
// No rates are loaded until Refresh is called.
func NewTestCurrencyService(t *testing.T, client cbr.Client) *service.CurrencyService {
	t.Helper()
	return service.NewCurrencyService(client, logging.Discard())
}

// NewTestPortfolioService wires a PortfolioService against db and the given
// mocks with the default accrued interest policy. The currency service is
// returned so tests can control when rates are loaded.
func NewTestPortfolioService(t *testing.T, db *sql.DB, exchange moex.Client, rates cbr.Client) (*service.PortfolioService, *service.CurrencyService) {
	t.Helper()

	currencyService := NewTestCurrencyService(t, rates)

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		NewTestMarketService(t, exchange),
		currencyService,
		service.NewAggregator(nil),
		logging.Discard(),
	), currencyService
}

// NewTestSystemService creates a SystemService with no feature switches.
func NewTestSystemService(t *testing.T, db *sql.DB, rates cbr.Client) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, NewTestCurrencyService(t, rates), nil)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSecID generates an exchange security code for testing.
//
// Example usage:
//
//	secID := testutil.MakeSecID("SU")
//	// Returns: "SU1A2B3C4D5E"
func MakeSecID(prefix string) string {
	if prefix == "" {
		prefix = "RU"
	}
	return prefix + randomAlphanumeric(10)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
