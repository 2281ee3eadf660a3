package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Position is a bond held in a portfolio. Quantity may be stored as 0; it
// counts as 1 in every computation. PurchasePrice is percent of face value and
// nil when unknown.
type Position struct {
	PortfolioID   string   `json:"portfolioId"`
	SecID         string   `json:"secid"`
	Quantity      int      `json:"quantity"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
}

// PortfolioSummary holds the derived totals of a portfolio in rubles.
// Values are decimal strings and are recomputed on every request.
type PortfolioSummary struct {
	TotalPurchasePrice  string `json:"totalPurchasePrice"`
	TotalCurrentPrice   string `json:"totalCurrentPrice"`
	AverageCurrentYield string `json:"averageCurrentYield"`
}

// CashFlowCalendar is the per-currency total of coupon and amortization
// payments for a date range.
type CashFlowCalendar struct {
	Start     string         `json:"start"` // YYYY-MM-DD
	End       string         `json:"end"`   // YYYY-MM-DD
	Totals    CurrencyTotals `json:"totals"`
	Formatted string         `json:"formatted"` // e.g. "750,00 ₽ + $1,100.00"
}
