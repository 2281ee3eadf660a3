package service

import (
	"github.com/shopspring/decimal"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/yield"
)

// AccruedInterestPolicy returns one bond's accrued interest contribution to
// the portfolio's current value.
type AccruedInterestPolicy func(bond model.Bond, quantity int, conversionRate float64) float64

// AccruedInterestUnconverted adds ACCRUEDINT * quantity without currency
// conversion. This matches the exchange reporting accrued interest in rubles.
func AccruedInterestUnconverted(bond model.Bond, quantity int, _ float64) float64 {
	return bond.AccruedInt * float64(quantity)
}

// AccruedInterestConverted adds ACCRUEDINT * quantity converted like every
// other monetary term, for feeds that report it in the face currency.
func AccruedInterestConverted(bond model.Bond, quantity int, conversionRate float64) float64 {
	return bond.AccruedInt * float64(quantity) * conversionRate
}

// Aggregator computes portfolio-level figures from normalized bonds.
// It holds no state besides its policy and is safe for concurrent use.
type Aggregator struct {
	accruedInterest AccruedInterestPolicy
}

// NewAggregator creates an Aggregator. A nil policy selects AccruedInterestUnconverted.
func NewAggregator(policy AccruedInterestPolicy) *Aggregator {
	if policy == nil {
		policy = AccruedInterestUnconverted
	}
	return &Aggregator{accruedInterest: policy}
}

// Summarize computes total purchase value, total current value and the
// quantity-weighted average current yield of bonds, all in rubles.
//
// Special cases, kept distinct on purpose:
//   - rates == nil (not loaded yet): {"0", "0", "0"}
//   - no bonds: {"0.00", "0.00", "0"}
//
// Quantity 0 counts as 1, a missing purchase price counts as 100% of face.
// The current price is LAST || PREVPRICE || 0; only bonds with a positive
// current price contribute to the average yield.
//
// Returns an *apperrors.UnknownCurrencyError when a non-ruble bond's currency
// is missing from rates.
func (a *Aggregator) Summarize(bonds []model.Bond, rates model.CurrencyRates) (model.PortfolioSummary, error) {
	if rates == nil {
		return model.PortfolioSummary{
			TotalPurchasePrice:  "0",
			TotalCurrentPrice:   "0",
			AverageCurrentYield: "0",
		}, nil
	}
	if len(bonds) == 0 {
		return model.PortfolioSummary{
			TotalPurchasePrice:  "0.00",
			TotalCurrentPrice:   "0.00",
			AverageCurrentYield: "0",
		}, nil
	}

	var totalPurchase, totalCurrent, weightedYield, weight float64

	for _, bond := range bonds {
		quantity := bond.EffectiveQuantity()
		q := float64(quantity)

		conversionRate, err := ConversionRate(bond, rates)
		if err != nil {
			return model.PortfolioSummary{}, err
		}

		totalPurchase += (bond.PurchasePricePercent() / 100) * bond.FaceValue * q * conversionRate

		currentPrice := yield.PricePercent(bond.Last, bond.PrevPrice)
		totalCurrent += (currentPrice / 100) * bond.FaceValue * q * conversionRate
		totalCurrent += a.accruedInterest(bond, quantity, conversionRate)

		if currentPrice > 0 {
			annualCoupon := yield.AnnualCoupon(bond.CouponValue*conversionRate, bond.CouponFrequency)
			priceAbsolute := (currentPrice / 100) * bond.FaceValue * conversionRate
			weightedYield += yield.Of(annualCoupon, priceAbsolute) * q
			weight += q
		}
	}

	averageYield := "0"
	if weight > 0 {
		averageYield = formatFixed(weightedYield / weight)
	}

	return model.PortfolioSummary{
		TotalPurchasePrice:  formatFixed(totalPurchase),
		TotalCurrentPrice:   formatFixed(totalCurrent),
		AverageCurrentYield: averageYield,
	}, nil
}

// ConversionRate returns the multiplier converting one unit of the bond's
// face currency to rubles: 1 for RUB and SUR, rates[currency].Rate otherwise.
func ConversionRate(bond model.Bond, rates model.CurrencyRates) (float64, error) {
	if model.IsRuble(bond.FaceUnit) {
		return 1, nil
	}
	rate, ok := rates[bond.FaceUnit]
	if !ok {
		return 0, &apperrors.UnknownCurrencyError{Currency: bond.FaceUnit, SecID: bond.SecID}
	}
	return rate.Rate, nil
}

// SumCashFlowsByCurrency totals coupon and amortization payments whose date
// satisfies filter, multiplied by each bond's quantity (0 counts as 1) and
// bucketed by face currency. Amounts are not converted between currencies.
//
// Bonds without a schedule are skipped. The result is never nil.
func SumCashFlowsByCurrency(bonds []model.Bond, filter DateFilter) model.CurrencyTotals {
	totals := make(model.CurrencyTotals)

	for _, bond := range bonds {
		q := float64(bond.EffectiveQuantity())

		for i, date := range bond.CouponDates {
			if i >= len(bond.CouponValues) {
				break
			}
			if filter(date) {
				totals[bond.FaceUnit] += bond.CouponValues[i] * q
			}
		}

		for j, date := range bond.AmortizationDates {
			if j >= len(bond.AmortizationValues) {
				break
			}
			if filter(date) {
				totals[bond.FaceUnit] += bond.AmortizationValues[j].Value * q
			}
		}
	}

	return totals
}

// formatFixed renders v rounded half away from zero with exactly two decimals.
func formatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
