package service

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/apperrors"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/cbr"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
)

// refreshTimeout bounds one scheduled rate refresh.
const refreshTimeout = 30 * time.Second

// CurrencyService keeps the latest central bank rate table in memory and
// refreshes it on a cron schedule. Readers never block on a refresh.
type CurrencyService struct {
	client cbr.Client
	log    *logrus.Entry

	mu       sync.RWMutex
	snapshot *model.RateSnapshot

	cron *cron.Cron
}

// NewCurrencyService creates a CurrencyService with no rates loaded.
func NewCurrencyService(client cbr.Client, logger logrus.FieldLogger) *CurrencyService {
	return &CurrencyService{
		client: client,
		log:    logging.WithComponent(logger, "rates"),
	}
}

// Refresh fetches the current rate table and replaces the cached one.
// On failure the previous table stays in place.
func (s *CurrencyService) Refresh(ctx context.Context) error {
	snapshot, err := s.client.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh currency rates: %w", err)
	}

	s.mu.Lock()
	s.snapshot = &snapshot
	s.mu.Unlock()

	s.log.WithFields(logging.Fields{
		"date":       snapshot.Date.Format("2006-01-02"),
		"currencies": len(snapshot.Rates),
	}).Info("currency rates refreshed")

	return nil
}

// Rates returns a copy of the cached rate table, or nil when no refresh has
// succeeded yet. Aggregation treats nil as "not loaded".
func (s *CurrencyService) Rates() model.CurrencyRates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil
	}
	return maps.Clone(s.snapshot.Rates)
}

// Snapshot returns the cached rate table with its publication date.
// Returns apperrors.ErrRatesNotLoaded before the first successful refresh.
func (s *CurrencyService) Snapshot() (model.RateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return model.RateSnapshot{}, apperrors.ErrRatesNotLoaded
	}

	snapshot := *s.snapshot
	snapshot.Rates = maps.Clone(snapshot.Rates)
	return snapshot, nil
}

// Start schedules Refresh with a standard five-field cron spec or a
// descriptor such as "@hourly". Failed refreshes are logged and retried on
// the next tick. Call Stop to end the schedule.
func (s *CurrencyService) Start(ctx context.Context, spec string) error {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()

		if err := s.Refresh(refreshCtx); err != nil {
			s.log.WithError(err).Warn("scheduled rate refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	c.Start()
	s.cron = c
	return nil
}

// Stop ends the refresh schedule and waits for a running refresh to finish.
func (s *CurrencyService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
