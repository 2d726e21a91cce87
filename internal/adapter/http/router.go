// Package http wires the REST surface over the use case layer.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkoval/fincast/internal/adapter/http/handler"
	"github.com/dkoval/fincast/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler      *handler.AccountHandler
	PostingHandler      *handler.PostingHandler
	TrialBalanceHandler *handler.TrialBalanceHandler
	ForecastHandler     *handler.ForecastHandler
	RecurringHandler    *handler.RecurringHandler
	ScenarioHandler     *handler.ScenarioHandler
	HealthHandler       *handler.HealthHandler
	LoggingMiddleware   *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1, scoped to the ledger owner named by the identity header
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Put("/{id}/asset-include", cfg.AccountHandler.SetAssetInclude)
			r.Delete("/{id}/asset-include", cfg.AccountHandler.RemoveAssetInclude)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.CreateCategory)
			r.Get("/", cfg.AccountHandler.ListCategories)
		})

		r.Post("/initialize", cfg.AccountHandler.Initialize)
		r.Get("/asset-includes", cfg.AccountHandler.ListAssetIncludes)

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.PostingHandler.Create)
			r.Get("/", cfg.PostingHandler.List)
			r.Get("/{id}", cfg.PostingHandler.Get)
			r.Delete("/{id}", cfg.PostingHandler.Delete)
		})

		r.Get("/reports/trial-balance", cfg.TrialBalanceHandler.Monthly)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", cfg.ForecastHandler.GetSchedule)
			r.Post("/quick-add", cfg.ForecastHandler.QuickAdd)
			r.Put("/row", cfg.ForecastHandler.UpdateRow)
			r.Post("/recompute", cfg.ForecastHandler.Recompute)
		})

		r.Route("/recurring-events", func(r chi.Router) {
			r.Post("/", cfg.RecurringHandler.Create)
			r.Get("/", cfg.RecurringHandler.List)
			r.Get("/{id}", cfg.RecurringHandler.Get)
			r.Put("/{id}", cfg.RecurringHandler.Update)
			r.Post("/{id}/toggle", cfg.RecurringHandler.Toggle)
			r.Delete("/{id}", cfg.RecurringHandler.Delete)
			r.Post("/apply", cfg.RecurringHandler.Apply)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/", cfg.ScenarioHandler.Create)
			r.Get("/", cfg.ScenarioHandler.List)
			r.Get("/{id}", cfg.ScenarioHandler.Get)
			r.Delete("/{id}", cfg.ScenarioHandler.Delete)
			r.Get("/{id}/rows", cfg.ScenarioHandler.Rows)
			r.Put("/{id}/rows", cfg.ScenarioHandler.UpdateRow)
			r.Delete("/{id}/rows", cfg.ScenarioHandler.DeleteRow)
		})
	})

	return r
}
