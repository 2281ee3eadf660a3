package apperrors

import (
	"errors"
	"fmt"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrPositionNotFound indicates that the portfolio does not hold the given bond.
	ErrPositionNotFound = errors.New("bond position not found")

	// ErrBondNotFound indicates that the exchange returned no record for a SECID.
	ErrBondNotFound = errors.New("bond not found")

	// ErrRatesNotLoaded indicates that no currency rate table has been fetched yet.
	ErrRatesNotLoaded = errors.New("currency rates not loaded")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidSecID indicates that a SECID parameter is empty or malformed.
	ErrInvalidSecID = errors.New("invalid SECID")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrNegativeAmount indicates that a quantity or price has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrievePortfolios  = errors.New("failed to retrieve portfolios")
	ErrFailedToGetPortfolioSummary = errors.New("failed to get portfolio summary")
	ErrFailedToGetCalendar         = errors.New("failed to get coupon calendar")
	ErrFailedToRetrieveBonds       = errors.New("failed to retrieve bonds")
	ErrFailedToRetrieveRates       = errors.New("failed to retrieve currency rates")
)

// ErrNoSecuritiesData is the reason carried by a DataError when the exchange
// query matched zero securities.
var ErrNoSecuritiesData = errors.New("no securities data")

// ErrNoCoupons is the reason carried by a DataError when a bondization
// payload lists no coupons.
var ErrNoCoupons = errors.New("no coupons data")

// ErrMalformedSchedule is the reason carried by a DataError when a bond's
// parallel date/value sequences differ in length.
var ErrMalformedSchedule = errors.New("malformed cash-flow schedule")

// DataError reports exchange data that cannot be turned into bond records.
// It is unrecoverable for the current request; callers surface it and do not retry.
//
// errors.Is matches both the DataError type (via ErrData) and the wrapped reason.
type DataError struct {
	SecID  string // optional, the security the data belongs to
	Reason error
}

// ErrData is a marker used with errors.Is to test for any DataError.
var ErrData = errors.New("exchange data error")

func (e *DataError) Error() string {
	if e.SecID != "" {
		return fmt.Sprintf("%s: %s: %v", ErrData, e.SecID, e.Reason)
	}
	return fmt.Sprintf("%s: %v", ErrData, e.Reason)
}

func (e *DataError) Unwrap() []error {
	return []error{ErrData, e.Reason}
}

// NewDataError builds a DataError for the given reason.
func NewDataError(secID string, reason error) *DataError {
	return &DataError{SecID: secID, Reason: reason}
}

// UnknownCurrencyError reports a bond whose face currency is missing from the rate table.
type UnknownCurrencyError struct {
	Currency string
	SecID    string
}

// ErrUnknownCurrency is a marker used with errors.Is to test for any UnknownCurrencyError.
var ErrUnknownCurrency = errors.New("unknown currency")

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("%s %q for bond %s", ErrUnknownCurrency, e.Currency, e.SecID)
}

func (e *UnknownCurrencyError) Is(target error) bool {
	return target == ErrUnknownCurrency
}
