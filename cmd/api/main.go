// Package main provides the entrypoint for the polytianqi API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nepal9768/polytianqi/internal/api"
	"github.com/nepal9768/polytianqi/internal/api/middleware"
	"github.com/nepal9768/polytianqi/internal/dashboard"
	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/forecast/openmeteo"
	"github.com/nepal9768/polytianqi/internal/provider/resilience"
	"github.com/nepal9768/polytianqi/internal/station"
	"github.com/nepal9768/polytianqi/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "polytianqi-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting polytianqi API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Station registry is fixed at build time
	stations := station.NewRegistry()
	log.Info().Int("stations", stations.Count()).Msg("station registry loaded")

	// Resilient HTTP client for the forecast provider. No retries: the
	// dashboard degrades to an explicit error view instead of waiting.
	providerClientCfg := resilience.DefaultClientConfig(openmeteo.ProviderName)
	providerClientCfg.MaxRetries = resilience.NoRetries
	providerClient := resilience.NewClient(providerClientCfg)

	providers := resilience.NewRegistry()
	providers.Register(openmeteo.ProviderName, providerClient)

	// Open-Meteo forecast provider
	forecastBaseURL := os.Getenv("FORECAST_BASE_URL")
	openMeteoClient := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    forecastBaseURL,
		HTTPClient: providerClient,
		Logger:     log,
	})

	// Forecast service with TTL cache
	cacheTTL := 10 * time.Minute
	if raw := os.Getenv("FORECAST_CACHE_TTL"); raw != "" {
		parsed, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			log.Fatal().Err(parseErr).Str("value", raw).Msg("invalid FORECAST_CACHE_TTL")
		}
		cacheTTL = parsed
	}

	providerMetrics, err := middleware.NewProviderMetrics(openmeteo.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	forecasts := forecast.NewService(forecast.ServiceConfig{
		Provider: openMeteoClient,
		Logger:   log,
		CacheTTL: cacheTTL,
		Health:   providers,
		Metrics:  providerMetrics,
	})
	log.Info().Dur("cache_ttl", cacheTTL).Msg("forecast service initialized")

	// Dashboard renderer
	renderer := dashboard.NewRenderer(dashboard.RendererConfig{
		Stations:  stations,
		Forecasts: forecasts,
		Logger:    log,
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Stations:    stations,
		Forecasts:   forecasts,
		Renderer:    renderer,
		Providers:   providers,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
