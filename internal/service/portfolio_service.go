package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
// It stores positions through the repository and combines them with live
// exchange data and currency rates to compute summaries and cash-flow calendars.
// Derived figures are never stored.
type PortfolioService struct {
	db              *sql.DB
	portfolioRepo   *repository.PortfolioRepository
	marketService   *MarketService
	currencyService *CurrencyService
	aggregator      *Aggregator
	log             *logrus.Entry
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
// All parameters except logger are required.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	marketService *MarketService,
	currencyService *CurrencyService,
	aggregator *Aggregator,
	logger logrus.FieldLogger,
) *PortfolioService {
	return &PortfolioService{
		db:              db,
		portfolioRepo:   portfolioRepo,
		marketService:   marketService,
		currencyService: currencyService,
		aggregator:      aggregator,
		log:             logging.WithComponent(logger, "portfolio"),
	}
}

// GetAllPortfolios retrieves all portfolios.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx)
}

// GetPortfolio retrieves a single portfolio.
// Returns apperrors.ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio stores a new portfolio together with its initial bonds in
// one transaction. The request must already be validated.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (model.Portfolio, error) {
	portfolio := model.Portfolio{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	repo := s.portfolioRepo.WithTx(tx)

	if err := repo.InsertPortfolio(ctx, portfolio); err != nil {
		return model.Portfolio{}, err
	}

	for _, bond := range req.Bonds {
		if err := repo.InsertPosition(ctx, newPosition(portfolio.ID, bond)); err != nil {
			return model.Portfolio{}, fmt.Errorf("failed to add %s: %w", bond.SecID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.WithFields(logging.Fields{
		"portfolio_id": portfolio.ID,
		"bonds":        len(req.Bonds),
	}).Info("portfolio created")

	return portfolio, nil
}

// DeletePortfolio removes a portfolio and its positions.
// Returns apperrors.ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID); err != nil {
		return err
	}

	s.log.WithField("portfolio_id", portfolioID).Info("portfolio deleted")
	return nil
}

// GetPositions retrieves the stored positions of a portfolio.
// Returns apperrors.ErrPortfolioNotFound if the portfolio does not exist.
func (s *PortfolioService) GetPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.portfolioRepo.GetPositions(ctx, portfolioID)
}

// AddPosition adds a bond to a portfolio. The SECID is stored upper-cased.
// Returns apperrors.ErrPortfolioNotFound or apperrors.ErrDuplicateEntry.
func (s *PortfolioService) AddPosition(ctx context.Context, portfolioID string, req request.PositionRequest) (model.Position, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return model.Position{}, err
	}

	position := newPosition(portfolioID, req)
	if err := s.portfolioRepo.InsertPosition(ctx, position); err != nil {
		return model.Position{}, err
	}

	return position, nil
}

// UpdatePosition replaces quantity and purchase price of a held bond.
// Returns apperrors.ErrPositionNotFound if the portfolio does not hold it.
func (s *PortfolioService) UpdatePosition(ctx context.Context, portfolioID, secID string, req request.UpdatePositionRequest) (model.Position, error) {
	position := model.Position{
		PortfolioID:   portfolioID,
		SecID:         normalizeSecID(secID),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	}

	if err := s.portfolioRepo.UpdatePosition(ctx, position); err != nil {
		return model.Position{}, err
	}

	return position, nil
}

// RemovePosition removes a bond from a portfolio.
// Returns apperrors.ErrPositionNotFound if the portfolio does not hold it.
func (s *PortfolioService) RemovePosition(ctx context.Context, portfolioID, secID string) error {
	return s.portfolioRepo.DeletePosition(ctx, portfolioID, normalizeSecID(secID))
}

// PortfolioBonds loads the portfolio's positions and returns the matching
// exchange records, in SECID order, with Quantity and PurchasePrice set from
// the positions. withSchedules also attaches coupon and amortization schedules.
//
// Positions the exchange no longer lists are left out and logged.
func (s *PortfolioService) PortfolioBonds(ctx context.Context, portfolioID string, withSchedules bool) ([]model.Bond, error) {
	positions, err := s.GetPositions(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []model.Bond{}, nil
	}

	secIDs := make([]string, len(positions))
	for i, p := range positions {
		secIDs[i] = p.SecID
	}

	var bonds []model.Bond
	if withSchedules {
		bonds, err = s.marketService.BondsWithSchedules(ctx, secIDs)
	} else {
		bonds, err = s.marketService.Bonds(ctx, secIDs)
	}
	if err != nil {
		return nil, err
	}

	bySecID := make(map[string]model.Bond, len(bonds))
	for _, b := range bonds {
		bySecID[b.SecID] = b
	}

	held := make([]model.Bond, 0, len(positions))
	for _, p := range positions {
		bond, ok := bySecID[p.SecID]
		if !ok {
			s.log.WithFields(logging.Fields{
				"portfolio_id": portfolioID,
				"secid":        p.SecID,
			}).Warn("position not listed on the exchange, skipped")
			continue
		}
		bond.Quantity = p.Quantity
		bond.PurchasePrice = p.PurchasePrice
		held = append(held, bond)
	}

	return held, nil
}

// GetPortfolioSummary computes the portfolio's ruble totals and average
// current yield from live prices and the cached currency rates.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, portfolioID string) (model.PortfolioSummary, error) {
	bonds, err := s.PortfolioBonds(ctx, portfolioID, false)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	return s.aggregator.Summarize(bonds, s.currencyService.Rates())
}

// GetCashFlowCalendar totals coupon and amortization payments of the
// portfolio from start through end inclusive, per face currency.
func (s *PortfolioService) GetCashFlowCalendar(ctx context.Context, portfolioID string, start, end time.Time) (model.CashFlowCalendar, error) {
	bonds, err := s.PortfolioBonds(ctx, portfolioID, true)
	if err != nil {
		return model.CashFlowCalendar{}, err
	}

	totals := SumCashFlowsByCurrency(bonds, Between(start, end))

	return model.CashFlowCalendar{
		Start:     start.UTC().Format("2006-01-02"),
		End:       end.UTC().Format("2006-01-02"),
		Totals:    totals,
		Formatted: FormatTotals(totals),
	}, nil
}

func newPosition(portfolioID string, req request.PositionRequest) model.Position {
	return model.Position{
		PortfolioID:   portfolioID,
		SecID:         normalizeSecID(req.SecID),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	}
}

func normalizeSecID(secID string) string {
	return strings.ToUpper(strings.TrimSpace(secID))
}
