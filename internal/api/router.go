// Package api provides the HTTP API for the temperature dashboard.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nepal9768/polytianqi/internal/api/handler"
	"github.com/nepal9768/polytianqi/internal/api/middleware"
	"github.com/nepal9768/polytianqi/internal/dashboard"
	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/provider/resilience"
	"github.com/nepal9768/polytianqi/internal/station"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Stations    *station.Registry
	Forecasts   *forecast.Service
	Renderer    *dashboard.Renderer
	Providers   *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "polytianqi-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers, cfg.Forecasts)
	stationHandler := handler.NewStationHandler(cfg.Stations)
	dashboardHandler := handler.NewDashboardHandler(cfg.Renderer)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Station table - standard rate limiting
		r.With(standardRateLimit).Get("/stations", stationHandler.ListStations)

		// Dashboard render can trigger a provider fetch - strict rate limiting
		r.With(expensiveRateLimit).Get("/dashboard", dashboardHandler.GetDashboard)
	})

	return r
}
