package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/moex"
)

// defaultScheduleWorkers bounds concurrent bondization requests when the
// caller does not configure a limit.
const defaultScheduleWorkers = 4

// MarketService fetches bonds from the exchange and turns the raw tables into
// normalized model.Bond records, optionally with their coupon schedules.
type MarketService struct {
	client  moex.Client
	workers int
	log     *logrus.Entry
}

// NewMarketService creates a new MarketService.
//
// Parameters:
//   - client: exchange client, usually *moex.ISSClient
//   - workers: maximum concurrent schedule requests, defaultScheduleWorkers when <= 0
//   - logger: structured logger, may be nil
func NewMarketService(client moex.Client, workers int, logger logrus.FieldLogger) *MarketService {
	if workers <= 0 {
		workers = defaultScheduleWorkers
	}
	return &MarketService{
		client:  client,
		workers: workers,
		log:     logging.WithComponent(logger, "market"),
	}
}

// Bonds fetches and normalizes the given securities in one exchange request.
// Duplicate SECIDs are requested once, and when the exchange lists a security
// on several boards only its first row is kept. Securities the exchange does
// not know are absent from the result.
//
// Returns an empty slice without querying the exchange when secIDs is empty,
// and a *apperrors.DataError when the exchange matched none of them.
func (s *MarketService) Bonds(ctx context.Context, secIDs []string) ([]model.Bond, error) {
	secIDs = uniqueSecIDs(secIDs)
	if len(secIDs) == 0 {
		return []model.Bond{}, nil
	}

	resp, err := s.client.QuerySecurities(ctx, secIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}

	bonds, err := moex.Normalize(resp.Securities, resp.MarketData, resp.MarketDataYields)
	if err != nil {
		return nil, err
	}

	bonds = firstPerSecID(bonds)
	if len(bonds) < len(secIDs) {
		s.log.WithFields(logging.Fields{
			"requested": len(secIDs),
			"found":     len(bonds),
		}).Warn("exchange returned fewer securities than requested")
	}

	return bonds, nil
}

// Schedule fetches and parses the coupon and amortization schedule of one security.
func (s *MarketService) Schedule(ctx context.Context, secID string) (model.CouponSchedule, error) {
	payload, err := s.client.QueryBondization(ctx, secID)
	if err != nil {
		return model.CouponSchedule{}, fmt.Errorf("failed to query schedule of %s: %w", secID, err)
	}

	return moex.ParseCouponSchedule(payload)
}

// AttachSchedules fetches schedules for bonds concurrently, at most s.workers
// at a time, and applies each to its bond in place.
//
// A bond without coupons keeps an empty schedule and is skipped by cash-flow
// totals. Any other failure cancels the remaining requests and is returned.
func (s *MarketService) AttachSchedules(ctx context.Context, bonds []model.Bond) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range bonds {
		g.Go(func() error {
			schedule, err := s.Schedule(gctx, bonds[i].SecID)
			if errors.Is(err, apperrors.ErrNoCoupons) {
				s.log.WithField("secid", bonds[i].SecID).Warn("bond has no coupon schedule")
				return nil
			}
			if err != nil {
				return err
			}

			bonds[i].ApplySchedule(schedule)
			if !bonds[i].ScheduleAligned() {
				return apperrors.NewDataError(bonds[i].SecID, apperrors.ErrMalformedSchedule)
			}
			return nil
		})
	}

	return g.Wait()
}

// BondsWithSchedules is Bonds followed by AttachSchedules.
func (s *MarketService) BondsWithSchedules(ctx context.Context, secIDs []string) ([]model.Bond, error) {
	bonds, err := s.Bonds(ctx, secIDs)
	if err != nil {
		return nil, err
	}

	if err := s.AttachSchedules(ctx, bonds); err != nil {
		return nil, err
	}

	return bonds, nil
}

// uniqueSecIDs trims, drops empty entries and removes duplicates, keeping the
// first occurrence order.
func uniqueSecIDs(secIDs []string) []string {
	seen := make(map[string]struct{}, len(secIDs))
	unique := make([]string, 0, len(secIDs))
	for _, id := range secIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func firstPerSecID(bonds []model.Bond) []model.Bond {
	seen := make(map[string]struct{}, len(bonds))
	result := bonds[:0]
	for _, b := range bonds {
		if _, ok := seen[b.SecID]; ok {
			continue
		}
		seen[b.SecID] = struct{}{}
		result = append(result, b)
	}
	return result
}
