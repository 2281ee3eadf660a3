package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/cbr"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/config"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/database"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/moex"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/repository"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}

	// Open database connection
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		log.WithError(err).Fatal("failed to create database directory")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	log.WithFields(logrus.Fields{
		"path":           cfg.Database.Path,
		"schema_version": schemaVersion,
		"version":        version.Version,
	}).Info("connected to database")

	// Create clients
	exchange := moex.NewISSClient(cfg.Exchange.BaseURL, cfg.Exchange.RequestsPerSecond)
	ratesFeed := cbr.NewRatesClient(cfg.Rates.URL)

	// Create services
	policy := service.AccruedInterestUnconverted
	if cfg.Summary.ConvertAccruedInterest {
		policy = service.AccruedInterestConverted
	}

	marketService := service.NewMarketService(exchange, cfg.Exchange.ScheduleWorkers, log)
	currencyService := service.NewCurrencyService(ratesFeed, log)
	portfolioService := service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		marketService,
		currencyService,
		service.NewAggregator(policy),
		log,
	)
	systemService := service.NewSystemService(db, currencyService, map[string]bool{
		"convert_accrued_interest": cfg.Summary.ConvertAccruedInterest,
	})

	// Load rates before serving; summaries report zeros until this succeeds.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, 30*time.Second)
	if err := currencyService.Refresh(initCtx); err != nil {
		log.WithError(err).Warn("initial currency rate refresh failed, retrying on schedule")
	}
	cancelInit()

	if err := currencyService.Start(ctx, cfg.Rates.RefreshSpec); err != nil {
		log.WithError(err).Fatal("failed to schedule currency rate refresh")
	}
	defer currencyService.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Market:    marketService,
		Currency:  currencyService,
		Portfolio: portfolioService,
	}, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.WithError(err).Error("server failed")
	}

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}
