package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/repository"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/testutil"
)

func TestPortfolioRepository_Portfolios(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)

	t.Run("empty table returns empty slice", func(t *testing.T) {
		portfolios, err := repo.GetPortfolios(ctx)

		require.NoError(t, err)
		assert.NotNil(t, portfolios)
		assert.Empty(t, portfolios)
	})

	t.Run("insert and read back", func(t *testing.T) {
		created := time.Date(2024, 3, 15, 10, 30, 0, 123000000, time.UTC)
		p := model.Portfolio{ID: testutil.MakeID(), Name: "Ladder", Description: "OFZ", CreatedAt: created}

		require.NoError(t, repo.InsertPortfolio(ctx, p))

		got, err := repo.GetPortfolioOnID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Description, got.Description)
		assert.True(t, created.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, created)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetPortfolioOnID(ctx, testutil.MakeID())

		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})

	t.Run("ordered by creation time", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		later := testutil.NewPortfolio().WithName("later").WithCreatedAt(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)).Build(t, db)
		earlier := testutil.NewPortfolio().WithName("earlier").WithCreatedAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Build(t, db)

		portfolios, err := repo.GetPortfolios(ctx)

		require.NoError(t, err)
		require.Len(t, portfolios, 2)
		assert.Equal(t, earlier.ID, portfolios[0].ID)
		assert.Equal(t, later.ID, portfolios[1].ID)
	})
}

func TestPortfolioRepository_DeletePortfolio(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)

	p := testutil.NewPortfolio().Build(t, db)
	testutil.NewPosition(p.ID, "SU26238RMFS4").Build(t, db)

	require.NoError(t, repo.DeletePortfolio(ctx, p.ID))

	var remaining int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM portfolio_bond").Scan(&remaining))
	assert.Zero(t, remaining, "positions are removed with their portfolio")

	assert.ErrorIs(t, repo.DeletePortfolio(ctx, p.ID), apperrors.ErrPortfolioNotFound)
}

func TestPortfolioRepository_Positions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	p := testutil.NewPortfolio().Build(t, db)

	t.Run("insert keeps nil purchase price", func(t *testing.T) {
		require.NoError(t, repo.InsertPosition(ctx, model.Position{PortfolioID: p.ID, SecID: "SU26238RMFS4", Quantity: 0}))
		require.NoError(t, repo.InsertPosition(ctx, model.Position{PortfolioID: p.ID, SecID: "RU000A105TJ2", Quantity: 3, PurchasePrice: testutil.Float(99.5)}))

		positions, err := repo.GetPositions(ctx, p.ID)

		require.NoError(t, err)
		require.Len(t, positions, 2)
		assert.Equal(t, "RU000A105TJ2", positions[0].SecID, "ordered by SECID")
		require.NotNil(t, positions[0].PurchasePrice)
		assert.Equal(t, 99.5, *positions[0].PurchasePrice)
		assert.Nil(t, positions[1].PurchasePrice)
		assert.Zero(t, positions[1].Quantity)
	})

	t.Run("duplicate insert", func(t *testing.T) {
		err := repo.InsertPosition(ctx, model.Position{PortfolioID: p.ID, SecID: "SU26238RMFS4", Quantity: 1})

		assert.True(t, errors.Is(err, apperrors.ErrDuplicateEntry), "got %v", err)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, repo.UpdatePosition(ctx, model.Position{PortfolioID: p.ID, SecID: "SU26238RMFS4", Quantity: 8, PurchasePrice: testutil.Float(101)}))

		positions, err := repo.GetPositions(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, positions[1].Quantity)
		assert.Equal(t, 101.0, *positions[1].PurchasePrice)

		err = repo.UpdatePosition(ctx, model.Position{PortfolioID: p.ID, SecID: "XS0191754729", Quantity: 1})
		assert.ErrorIs(t, err, apperrors.ErrPositionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeletePosition(ctx, p.ID, "SU26238RMFS4"))
		assert.ErrorIs(t, repo.DeletePosition(ctx, p.ID, "SU26238RMFS4"), apperrors.ErrPositionNotFound)
	})

	t.Run("negative quantity violates the check constraint", func(t *testing.T) {
		err := repo.InsertPosition(ctx, model.Position{PortfolioID: p.ID, SecID: "SU26240RMFS0", Quantity: -1})

		assert.Error(t, err)
	})

	t.Run("position needs an existing portfolio", func(t *testing.T) {
		err := repo.InsertPosition(ctx, model.Position{PortfolioID: testutil.MakeID(), SecID: "SU26238RMFS4"})

		assert.Error(t, err)
	})
}

func TestPortfolioRepository_WithTx(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	p := model.Portfolio{ID: testutil.MakeID(), Name: "rolled back", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.WithTx(tx).InsertPortfolio(ctx, p))
	require.NoError(t, tx.Rollback())

	_, err = repo.GetPortfolioOnID(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2024-03-15T10:30:00Z", "2024-03-15 10:30:00", "2024-03-15"} {
		_, err := repository.ParseTime(s)
		assert.NoError(t, err, s)
	}

	_, err := repository.ParseTime("15.03.2024")
	assert.Error(t, err)
}
