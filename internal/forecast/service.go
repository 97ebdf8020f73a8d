// Package forecast provides hourly temperature forecasts with time-windowed
// caching in front of an external provider.
package forecast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nepal9768/polytianqi/internal/provider/resilience"
)

// Provider defines the interface for forecast data providers.
type Provider interface {
	// FetchHourly fetches hourly temperature series for a location.
	FetchHourly(ctx context.Context, lat, lon float64) (*RawForecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// Metrics receives provider call and cache instrumentation.
// Satisfied by middleware.ProviderMetrics.
type Metrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for the forecast service.
type ServiceConfig struct {
	// Provider is the forecast data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is the validity window for a fetched forecast
	// (default: 10 minutes).
	CacheTTL time.Duration

	// Now is the clock used for cache expiry. Defaults to time.Now;
	// tests inject a fake clock to exercise expiry without waiting.
	Now func() time.Time

	// Health, when set, receives success/failure records for the provider.
	Health *resilience.Registry

	// Metrics, when set, receives cache hit/miss and request instrumentation.
	Metrics Metrics
}

// Service provides forecasts with a TTL cache keyed by coordinate pair.
// The key deliberately excludes station name and display unit: two stations at
// the same coordinates share one provider request, and unit switches never
// refetch.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cacheTTL time.Duration
	now      func() time.Time
	health   *resilience.Registry
	metrics  Metrics

	mu    sync.RWMutex
	cache map[string]*cachedForecast
}

type cachedForecast struct {
	forecast  *RawForecast
	expiresAt time.Time
}

// NewService creates a new forecast service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		now:      now,
		health:   cfg.Health,
		metrics:  cfg.Metrics,
		cache:    make(map[string]*cachedForecast),
	}
}

// Get returns the hourly forecast for a location, reusing a cached result
// within its validity window. Any provider failure is reported as
// ErrProviderUnavailable; no partial data is returned.
func (s *Service) Get(ctx context.Context, lat, lon float64) (*RawForecast, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	key := cacheKey(lat, lon)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && s.now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		if s.metrics != nil {
			s.metrics.RecordCacheHit(s.provider.Name(), "fetch-hourly")
		}
		return cached.forecast, nil
	}
	s.mu.RUnlock()

	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.provider.Name(), "fetch-hourly")
	}
	return s.fetch(ctx, lat, lon, key)
}

// fetch retrieves a forecast from the provider and updates the cache.
// Last successful fetch wins.
func (s *Service) fetch(ctx context.Context, lat, lon float64, key string) (*RawForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under the write lock; a concurrent render for the same
	// coordinates may have already fetched.
	if cached, ok := s.cache[key]; ok && s.now().Before(cached.expiresAt) {
		return cached.forecast, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching forecast from provider")

	start := time.Now()
	raw, err := s.provider.FetchHourly(ctx, lat, lon)
	if s.metrics != nil {
		s.metrics.RecordRequest(s.provider.Name(), "fetch-hourly", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch forecast")
		if s.health != nil {
			s.health.RecordFailure(s.provider.Name(), err)
		}
		return nil, ErrProviderUnavailable
	}

	if s.health != nil {
		s.health.RecordSuccess(s.provider.Name())
	}

	s.cache[key] = &cachedForecast{
		forecast:  raw,
		expiresAt: s.now().Add(s.cacheTTL),
	}

	return raw, nil
}

// InvalidateCache clears all cached forecasts.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedForecast)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fresh := 0
	now := s.now()
	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		Entries:      len(s.cache),
		FreshEntries: fresh,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries      int
	FreshEntries int
	Provider     string
}

// cacheKey identifies a cache entry by coordinate pair only.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lon)
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
