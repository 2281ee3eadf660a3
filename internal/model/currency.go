package model

import "time"

// CurrencyRate is the multiplier converting one unit of a currency to rubles.
type CurrencyRate struct {
	Rate float64 `json:"rate"`
	Name string  `json:"name"`
}

// CurrencyRates maps a three-letter currency code to its ruble rate.
// A nil CurrencyRates means the rate table has not been loaded yet.
type CurrencyRates map[string]CurrencyRate

// CurrencyTotals maps a currency code to an accumulated amount in that currency.
type CurrencyTotals map[string]float64

// RateSnapshot is a rate table together with the date the central bank published it for.
type RateSnapshot struct {
	Date      time.Time     `json:"date"`
	Rates     CurrencyRates `json:"rates"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

// IsRuble reports whether code denotes the ruble. SUR is the legacy code the
// exchange still uses for ruble-denominated bonds.
func IsRuble(code string) bool {
	return code == "RUB" || code == "SUR"
}
