package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/repository"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// WithCreatedAt sets the creation time.
func (b *PortfolioBuilder) WithCreatedAt(createdAt time.Time) *PortfolioBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build inserts the portfolio into the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p := model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}

	if err := repository.NewPortfolioRepository(db).InsertPortfolio(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return p
}

// CreatePortfolio is a convenience function to quickly create a portfolio with a name.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// PositionBuilder provides a fluent interface for adding bonds to test portfolios.
//
// Example usage:
//
//	testutil.NewPosition(portfolio.ID, "SU26238RMFS4").
//	    WithQuantity(10).
//	    WithPurchasePrice(98.5).
//	    Build(t, db)
type PositionBuilder struct {
	PortfolioID   string
	SecID         string
	Quantity      int
	PurchasePrice *float64
}

// NewPosition creates a PositionBuilder holding one bond with unknown purchase price.
func NewPosition(portfolioID, secID string) *PositionBuilder {
	return &PositionBuilder{
		PortfolioID: portfolioID,
		SecID:       secID,
		Quantity:    1,
	}
}

// WithQuantity sets the number of bonds held.
func (b *PositionBuilder) WithQuantity(q int) *PositionBuilder {
	b.Quantity = q
	return b
}

// WithPurchasePrice sets the purchase price in percent of face value.
func (b *PositionBuilder) WithPurchasePrice(pct float64) *PositionBuilder {
	b.PurchasePrice = Float(pct)
	return b
}

// Build inserts the position into the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	pos := model.Position{
		PortfolioID:   b.PortfolioID,
		SecID:         b.SecID,
		Quantity:      b.Quantity,
		PurchasePrice: b.PurchasePrice,
	}

	if err := repository.NewPortfolioRepository(db).InsertPosition(context.Background(), pos); err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return pos
}

// BondBuilder provides a fluent interface for creating normalized bonds
// without going through the exchange client.
//
// Example usage:
//
//	bond := testutil.NewBond().
//	    WithLast(110).
//	    WithCoupon(50, 180).
//	    WithQuantity(10).
//	    Build()
type BondBuilder struct {
	bond model.Bond
}

// NewBond creates a BondBuilder for a ruble OFZ with face value 1000 and a
// 50 ruble coupon every 182 days, without a market price.
func NewBond() *BondBuilder {
	return &BondBuilder{bond: model.Bond{
		SecID:           MakeSecID("SU"),
		FaceValue:       1000,
		FaceUnit:        "SUR",
		CouponValue:     50,
		CouponFrequency: 182,
		SecType:         "3",
	}}
}

// WithSecID sets the exchange identifier.
func (b *BondBuilder) WithSecID(secID string) *BondBuilder {
	b.bond.SecID = secID
	return b
}

// WithFaceValue sets the face value and its currency.
func (b *BondBuilder) WithFaceValue(value float64, unit string) *BondBuilder {
	b.bond.FaceValue = value
	b.bond.FaceUnit = unit
	return b
}

// WithLast sets the last trade price in percent of face value.
func (b *BondBuilder) WithLast(pct float64) *BondBuilder {
	b.bond.Last = Float(pct)
	return b
}

// WithPrevPrice sets the previous session price in percent of face value.
func (b *BondBuilder) WithPrevPrice(pct float64) *BondBuilder {
	b.bond.PrevPrice = Float(pct)
	return b
}

// WithCoupon sets the coupon amount and the days between coupons.
func (b *BondBuilder) WithCoupon(value, periodDays float64) *BondBuilder {
	b.bond.CouponValue = value
	b.bond.CouponFrequency = periodDays
	return b
}

// WithAccruedInt sets the accrued interest per bond.
func (b *BondBuilder) WithAccruedInt(v float64) *BondBuilder {
	b.bond.AccruedInt = v
	return b
}

// WithSecType sets the exchange security type code.
func (b *BondBuilder) WithSecType(secType string) *BondBuilder {
	b.bond.SecType = secType
	return b
}

// WithQuantity sets the number of bonds held.
func (b *BondBuilder) WithQuantity(q int) *BondBuilder {
	b.bond.Quantity = q
	return b
}

// WithPurchasePrice sets the purchase price in percent of face value.
func (b *BondBuilder) WithPurchasePrice(pct float64) *BondBuilder {
	b.bond.PurchasePrice = Float(pct)
	return b
}

// WithCoupons appends coupon payments. Dates are YYYY-MM-DD.
func (b *BondBuilder) WithCoupons(payments ...Payment) *BondBuilder {
	for _, p := range payments {
		b.bond.CouponDates = append(b.bond.CouponDates, MustDate(p.Date))
		b.bond.CouponValues = append(b.bond.CouponValues, p.Value)
	}
	return b
}

// WithAmortizations appends principal repayments. Dates are YYYY-MM-DD.
func (b *BondBuilder) WithAmortizations(payments ...Payment) *BondBuilder {
	for _, p := range payments {
		b.bond.AmortizationDates = append(b.bond.AmortizationDates, MustDate(p.Date))
		b.bond.AmortizationValues = append(b.bond.AmortizationValues, model.Amortization{Value: p.Value})
	}
	return b
}

// Build derives TYPE, CURRENTPRICE and CURRENTYIELD and returns the bond.
func (b *BondBuilder) Build() model.Bond {
	bond := b.bond
	bond.Recompute()
	return bond
}

// Payment is a dated cash flow used by BondBuilder and the exchange mock.
type Payment struct {
	Date  string // YYYY-MM-DD
	Value float64
}

// MustDate parses a YYYY-MM-DD date in UTC and panics on malformed input.
func MustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
