package model

import (
	"time"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/yield"
)

// BondType classifies a security by its issuer, derived from the exchange SECTYPE code.
type BondType string

const (
	BondTypeOFZ        BondType = "ofz_bond"
	BondTypeCorporate  BondType = "corporate_bond"
	BondTypeSubfederal BondType = "subfederal_bond"
	BondTypeUnknown    BondType = "unknown"
)

// BondTypeFromSecType maps the raw exchange SECTYPE code to a BondType.
//
//	"3"           -> ofz_bond (government)
//	"6", "7", "8" -> corporate_bond
//	"4", "C"      -> subfederal_bond (municipal)
//	anything else -> unknown
func BondTypeFromSecType(secType string) BondType {
	switch secType {
	case "3":
		return BondTypeOFZ
	case "6", "7", "8":
		return BondTypeCorporate
	case "4", "C":
		return BondTypeSubfederal
	default:
		return BondTypeUnknown
	}
}

// Amortization is a single partial repayment of face value.
type Amortization struct {
	Value        float64 `json:"value"`        // Absolute amount in the bond's face currency
	ValuePercent string  `json:"valuePercent"` // Percent of face value as reported by the exchange
}

// Bond is the canonical per-security record assembled from the exchange
// securities, market data and yield tables.
//
// Market fields are pointers: nil means the exchange had no live value, which
// is different from a reported zero. CurrentPrice and CurrentYield are derived
// from the other fields and are only set through Recompute.
type Bond struct {
	// Identity
	SecID     string `json:"SECID"`
	ISIN      string `json:"ISIN"`
	ShortName string `json:"SHORTNAME"`
	Name      string `json:"NAME"`

	// Static terms
	FaceValue       float64 `json:"FACEVALUE"`
	FaceUnit        string  `json:"FACEUNIT"`
	CouponPercent   float64 `json:"COUPONPERCENT"`
	CouponValue     float64 `json:"COUPONVALUE"`
	CouponFrequency float64 `json:"COUPONFREQUENCY"` // Days between payments, 0 when unknown
	MatDate         string  `json:"MATDATE"`
	NextCoupon      string  `json:"NEXTCOUPON"`
	AccruedInt      float64 `json:"ACCRUEDINT"`
	SecType         string  `json:"SECTYPE"`

	// Market data
	Last            *float64 `json:"LAST,omitempty"`
	PrevPrice       *float64 `json:"PREVPRICE,omitempty"`
	Duration        *float64 `json:"DURATION,omitempty"`
	EffectiveYield  *float64 `json:"EFFECTIVEYIELD,omitempty"`
	DurationWAPrice *float64 `json:"DURATIONWAPRICE,omitempty"`

	// Derived
	Type         BondType `json:"TYPE"`
	CurrentPrice float64  `json:"CURRENTPRICE"`
	CurrentYield float64  `json:"CURRENTYIELD"`

	// Portfolio context, only set for bonds held in a portfolio
	Quantity      int      `json:"quantity,omitempty"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`

	// Cash-flow schedule, index aligned pairs
	CouponDates        []time.Time    `json:"COUPONDATES,omitempty"`
	CouponValues       []float64      `json:"COUPONVALUES,omitempty"`
	AmortizationDates  []time.Time    `json:"AMORTIZATIONDATES,omitempty"`
	AmortizationValues []Amortization `json:"AMORTIZATIONVALUES,omitempty"`
}

// Recompute derives Type, CurrentPrice and CurrentYield from the bond's other fields.
// CurrentYield uses the zero fallback, so an unpriced bond yields 0.
func (b *Bond) Recompute() {
	b.Type = BondTypeFromSecType(b.SecType)
	b.CurrentPrice = yield.PricePercent(b.Last, b.PrevPrice)
	b.CurrentYield = yield.Current(b.YieldInputs(), yield.FallbackZero)
}

// YieldInputs collects the fields the current-yield formula reads.
func (b Bond) YieldInputs() yield.Inputs {
	return yield.Inputs{
		FaceValue:       b.FaceValue,
		Last:            b.Last,
		PrevPrice:       b.PrevPrice,
		CouponValue:     b.CouponValue,
		CouponFrequency: b.CouponFrequency,
	}
}

// EffectiveQuantity returns the quantity used in computations: zero counts as one.
func (b Bond) EffectiveQuantity() int {
	if b.Quantity <= 0 {
		return 1
	}
	return b.Quantity
}

// PurchasePricePercent returns the purchase price as percent of face value, 100 when unknown.
func (b Bond) PurchasePricePercent() float64 {
	if b.PurchasePrice == nil {
		return 100
	}
	return *b.PurchasePrice
}

// HasSchedule reports whether a coupon schedule has been attached.
func (b Bond) HasSchedule() bool {
	return len(b.CouponDates) > 0
}

// CouponSchedule is the parsed bondization payload of a single security.
// Dates and values are index aligned and keep the exchange's ordering.
type CouponSchedule struct {
	SecID              string         `json:"secid"`
	CouponDates        []time.Time    `json:"couponDates"`
	CouponValues       []float64      `json:"couponValues"`
	AmortizationDates  []time.Time    `json:"amortizationDates"`
	AmortizationValues []Amortization `json:"amortizationValues"`
}

// ApplySchedule copies the schedule's cash-flow sequences onto the bond.
func (b *Bond) ApplySchedule(s CouponSchedule) {
	b.CouponDates = s.CouponDates
	b.CouponValues = s.CouponValues
	b.AmortizationDates = s.AmortizationDates
	b.AmortizationValues = s.AmortizationValues
}

// ScheduleAligned reports whether every date sequence has the same length as its value sequence.
func (b Bond) ScheduleAligned() bool {
	return len(b.CouponDates) == len(b.CouponValues) &&
		len(b.AmortizationDates) == len(b.AmortizationValues)
}

// BondResponse is a bond as served by the bond lookup endpoint. DisplayYield
// is the current yield with the par fallback, so an untraded bond shows its
// coupon rate on face value instead of 0.
type BondResponse struct {
	Bond
	DisplayYield float64 `json:"displayYield"`
}

// NewBondResponse wraps b with its display yield.
func NewBondResponse(b Bond) BondResponse {
	return BondResponse{
		Bond:         b,
		DisplayYield: yield.Current(b.YieldInputs(), yield.FallbackPar),
	}
}
