// Package yield implements the current-yield formula shared by bond
// normalization, portfolio aggregation and the bond table display.
//
//	annualCoupon  = C * (365 / D)          D defaults to 365 when <= 0
//	priceAbsolute = (P / 100) * F
//	yield         = annualCoupon / priceAbsolute * 100, or 0 when priceAbsolute <= 0
//
// Callers choose what price to use for an unpriced bond by passing a Fallback
// explicitly; there is no default.
package yield

import "math"

// DaysInYear is the day count used to annualize coupon payments.
const DaysInYear = 365

// RoundingPrecision is the multiplier used by Round for two decimal places.
const RoundingPrecision = 100.0

// Fallback selects the price used when a bond has neither a last trade nor a previous close.
type Fallback int

const (
	// FallbackZero treats an unpriced bond as priced at 0, which makes its yield 0.
	// Used for normalization and aggregate reporting.
	FallbackZero Fallback = iota
	// FallbackPar treats an unpriced bond as priced at 100% of face value.
	// Used for display estimates.
	FallbackPar
)

func (f Fallback) String() string {
	switch f {
	case FallbackZero:
		return "zero"
	case FallbackPar:
		return "par"
	default:
		return "unknown"
	}
}

// Inputs are the bond fields the formula reads.
type Inputs struct {
	FaceValue       float64
	Last            *float64 // Last traded price, percent of face value
	PrevPrice       *float64 // Previous close, percent of face value
	CouponValue     float64  // Payment per period
	CouponFrequency float64  // Days between payments
}

// PricePercent returns LAST if it is set and non-zero, else PREVPRICE if set
// and non-zero, else 0.
func PricePercent(last, prev *float64) float64 {
	if last != nil && *last != 0 {
		return *last
	}
	if prev != nil && *prev != 0 {
		return *prev
	}
	return 0
}

// ResolvePrice applies the fallback policy on top of PricePercent.
func ResolvePrice(last, prev *float64, fallback Fallback) float64 {
	p := PricePercent(last, prev)
	if p == 0 && fallback == FallbackPar {
		return 100
	}
	return p
}

// AnnualCoupon annualizes a per-period coupon payment.
func AnnualCoupon(couponValue, frequencyDays float64) float64 {
	if frequencyDays <= 0 {
		frequencyDays = DaysInYear
	}
	return couponValue * (DaysInYear / frequencyDays)
}

// Of returns the unrounded current yield in percent for an annual coupon and
// an absolute price expressed in the same currency.
func Of(annualCoupon, priceAbsolute float64) float64 {
	if priceAbsolute <= 0 {
		return 0
	}
	return (annualCoupon / priceAbsolute) * 100
}

// Current computes the current yield in percent, rounded to two decimals.
func Current(in Inputs, fallback Fallback) float64 {
	price := ResolvePrice(in.Last, in.PrevPrice, fallback)
	priceAbsolute := (price / 100) * in.FaceValue
	return Round(Of(AnnualCoupon(in.CouponValue, in.CouponFrequency), priceAbsolute))
}

// Round rounds half away from zero to two decimal places.
func Round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}
