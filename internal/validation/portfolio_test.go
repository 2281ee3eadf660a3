package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
)

func price(v float64) *float64 { return &v }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	return verr.Fields
}

func TestValidateSecID(t *testing.T) {
	for _, id := range []string{"SU26238RMFS4", "RU000A105TJ2", "XS0191754729", "A"} {
		assert.NoError(t, ValidateSecID(id), id)
	}
	for _, id := range []string{"", "su26238rmfs4", "SU 26238", "-SU", strings.Repeat("A", 52)} {
		assert.ErrorIs(t, ValidateSecID(id), ErrInvalidSecID, id)
	}
}

func TestValidateSecIDs(t *testing.T) {
	assert.ErrorIs(t, ValidateSecIDs(nil), ErrEmptySlice)
	assert.NoError(t, ValidateSecIDs([]string{"SU26238RMFS4", "RU000A105TJ2"}))
	assert.ErrorIs(t, ValidateSecIDs([]string{"SU26238RMFS4", "bad id"}), ErrInvalidSecID)
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("3f2b8a6e-6d9c-4a55-9b8e-1f0c2d3e4a5b"))
	assert.ErrorIs(t, ValidateUUID("not-a-uuid"), ErrInvalidUUID)
}

func TestValidateCreatePortfolio(t *testing.T) {
	t.Run("valid with bonds", func(t *testing.T) {
		err := ValidateCreatePortfolio(request.CreatePortfolioRequest{
			Name: "Ladder 2027",
			Bonds: []request.PositionRequest{
				{SecID: "SU26238RMFS4", Quantity: 10, PurchasePrice: price(98.5)},
				{SecID: "ru000a105tj2", Quantity: 0},
			},
		})

		assert.NoError(t, err)
	})

	t.Run("name required", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreatePortfolio(request.CreatePortfolioRequest{Name: "  "}))

		assert.Contains(t, fields, "name")
	})

	t.Run("long description", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreatePortfolio(request.CreatePortfolioRequest{
			Name:        "x",
			Description: strings.Repeat("d", 501),
		}))

		assert.Contains(t, fields, "description")
	})

	t.Run("bond errors are indexed", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreatePortfolio(request.CreatePortfolioRequest{
			Name: "x",
			Bonds: []request.PositionRequest{
				{SecID: "SU26238RMFS4", Quantity: -1},
				{SecID: "su26238rmfs4"},
				{SecID: "", PurchasePrice: price(-5)},
			},
		}))

		assert.Contains(t, fields, "bonds[0].quantity")
		assert.Contains(t, fields, "bonds[1].secid")
		assert.Contains(t, fields, "bonds[2].secid")
		assert.Contains(t, fields, "bonds[2].purchasePrice")
	})
}

func TestValidatePosition(t *testing.T) {
	assert.NoError(t, ValidatePosition(request.PositionRequest{SecID: "SU26238RMFS4", Quantity: 3}))

	fields := fieldErrors(t, ValidatePosition(request.PositionRequest{SecID: "SU26238RMFS4", PurchasePrice: price(1500)}))
	assert.Contains(t, fields["purchasePrice"], "percent of face value")
}

func TestValidateUpdatePosition(t *testing.T) {
	assert.NoError(t, ValidateUpdatePosition(request.UpdatePositionRequest{Quantity: 0}))

	fields := fieldErrors(t, ValidateUpdatePosition(request.UpdatePositionRequest{Quantity: -2}))
	assert.Equal(t, "quantity cannot be negative", fields["quantity"])
}
