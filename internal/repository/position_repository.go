package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// GetPositions retrieves the bonds held in a portfolio ordered by SECID.
// Returns an empty slice for a portfolio without positions.
func (r *PortfolioRepository) GetPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	query := `
        SELECT portfolio_id, secid, quantity, purchase_price
        FROM portfolio_bond
        WHERE portfolio_id = ?
        ORDER BY secid
    `

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_bond table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var pos model.Position
		var price sql.NullFloat64

		if err := rows.Scan(&pos.PortfolioID, &pos.SecID, &pos.Quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_bond results: %w", err)
		}
		pos.PurchasePrice = floatPtr(price)

		positions = append(positions, pos)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_bond table: %w", err)
	}

	return positions, nil
}

// InsertPosition adds a bond to a portfolio.
// Returns apperrors.ErrDuplicateEntry when the portfolio already holds the SECID.
func (r *PortfolioRepository) InsertPosition(ctx context.Context, pos model.Position) error {
	query := `
        INSERT INTO portfolio_bond (portfolio_id, secid, quantity, purchase_price)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (portfolio_id, secid) DO NOTHING
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		pos.PortfolioID,
		pos.SecID,
		pos.Quantity,
		nullFloat(pos.PurchasePrice),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio_bond: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrDuplicateEntry
	}

	return nil
}

// UpdatePosition replaces quantity and purchase price of a held bond.
// Returns apperrors.ErrPositionNotFound when the portfolio does not hold the SECID.
func (r *PortfolioRepository) UpdatePosition(ctx context.Context, pos model.Position) error {
	query := `
        UPDATE portfolio_bond
        SET quantity = ?, purchase_price = ?
        WHERE portfolio_id = ? AND secid = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		pos.Quantity,
		nullFloat(pos.PurchasePrice),
		pos.PortfolioID,
		pos.SecID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio_bond: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// DeletePosition removes a bond from a portfolio.
// Returns apperrors.ErrPositionNotFound when the portfolio does not hold the SECID.
func (r *PortfolioRepository) DeletePosition(ctx context.Context, portfolioID, secID string) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`DELETE FROM portfolio_bond WHERE portfolio_id = ? AND secid = ?`,
		portfolioID, secID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio_bond: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}
