package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/handlers"
	custommiddleware "github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/middleware"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/config"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
)

// Services groups the services the HTTP layer delegates to.
type Services struct {
	System    *service.SystemService
	Market    *service.MarketService
	Currency  *service.CurrencyService
	Portfolio *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Everything below may reach the exchange.
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RateLimit(cfg.Server.RateLimit))

			r.Route("/bonds", func(r chi.Router) {
				bondHandler := handlers.NewBondHandler(services.Market)
				r.Get("/", bondHandler.Bonds)
				r.With(custommiddleware.ValidateSecIDMiddleware).Get("/{secid}/schedule", bondHandler.Schedule)
			})

			r.Get("/currencies", handlers.NewCurrencyHandler(services.Currency).Rates)

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
				r.Get("/", portfolioHandler.Portfolios)
				r.Post("/", portfolioHandler.CreatePortfolio)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", portfolioHandler.Portfolio)
					r.Delete("/", portfolioHandler.DeletePortfolio)
					r.Get("/summary", portfolioHandler.PortfolioSummary)
					r.Get("/calendar", portfolioHandler.Calendar)

					r.Get("/bonds", portfolioHandler.PortfolioBonds)
					r.Post("/bonds", portfolioHandler.AddPosition)
					r.With(custommiddleware.ValidateSecIDMiddleware).Put("/bonds/{secid}", portfolioHandler.UpdatePosition)
					r.With(custommiddleware.ValidateSecIDMiddleware).Delete("/bonds/{secid}", portfolioHandler.RemovePosition)
				})
			})
		})
	})

	return r
}
