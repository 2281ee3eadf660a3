package service

import (
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// DateFilter selects cash-flow dates for SumCashFlowsByCurrency.
type DateFilter func(date time.Time) bool

// OnDay matches dates on the same calendar day as day, compared in UTC.
func OnDay(day time.Time) DateFilter {
	y, m, d := day.UTC().Date()
	return func(date time.Time) bool {
		dy, dm, dd := date.UTC().Date()
		return dy == y && dm == m && dd == d
	}
}

// InMonth matches dates in the given year and month, compared in UTC.
func InMonth(year int, month time.Month) DateFilter {
	return func(date time.Time) bool {
		dy, dm, _ := date.UTC().Date()
		return dy == year && dm == month
	}
}

// Between matches dates from start through end inclusive at day granularity.
func Between(start, end time.Time) DateFilter {
	from := truncateDay(start)
	to := truncateDay(end)
	return func(date time.Time) bool {
		day := truncateDay(date)
		return !day.Before(from) && !day.After(to)
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatTotals renders per-currency totals for display, ordered by currency
// code and joined with " + ". SUR is shown as RUB. Codes unknown to the money
// library fall back to "<amount> <code>". Returns "" for no totals.
func FormatTotals(totals model.CurrencyTotals) string {
	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, formatAmount(totals[code], code))
	}
	return strings.Join(parts, " + ")
}

func formatAmount(amount float64, code string) string {
	if code == "SUR" {
		code = "RUB"
	}

	currency := money.GetCurrency(code)
	if currency == nil {
		return formatFixed(amount) + " " + code
	}

	factor := decimal.New(1, int32(currency.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, code).Display()
}
