// Package openmeteo provides an Open-Meteo forecast API client.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/provider/resilience"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Requested model identifiers. The hourly arrays in the response are
	// suffixed with these names.
	modelMain   = "best_match"
	modelAltEC  = "ecmwf_ifs025"
	modelAltGFS = "gfs_seamless"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with a 10s timeout and no retries.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// The dashboard shows an explicit error state on fetch failure and the
		// service layer falls back to cached data, so the client itself does
		// not retry. The circuit breaker still guards repeated provider
		// failure.
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.MaxRetries = resilience.NoRetries
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchHourly fetches hourly temperature series for the three tracked models.
// Each series is truncated to forecast.MaxHourlySamples entries.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64) (*forecast.RawForecast, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("hourly", "temperature_2m")
	q.Set("models", modelMain+","+modelAltEC+","+modelAltGFS)
	q.Set("timezone", "auto")

	reqURL := c.baseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var omResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if omResp.Hourly == nil {
		return nil, fmt.Errorf("response missing hourly block")
	}

	return c.toRawForecast(lat, lon, &omResp), nil
}

// toRawForecast converts an Open-Meteo response to the domain model.
func (c *Client) toRawForecast(lat, lon float64, resp *forecastResponse) *forecast.RawForecast {
	raw := &forecast.RawForecast{
		Lat:       lat,
		Lon:       lon,
		Main:      truncate(resp.Hourly.mainSeries()),
		AltEC:     truncate(resp.Hourly.AltEC),
		AltGFS:    truncate(resp.Hourly.AltGFS),
		FetchedAt: time.Now(),
	}

	if len(raw.AltEC) == 0 || len(raw.AltGFS) == 0 {
		c.logger.Debug().
			Int("main", len(raw.Main)).
			Int("ecmwf", len(raw.AltEC)).
			Int("gfs", len(raw.AltGFS)).
			Msg("provider omitted an alternate model series")
	}

	return raw
}

// truncate limits a series to the first MaxHourlySamples entries.
func truncate(series []float64) []float64 {
	if len(series) > forecast.MaxHourlySamples {
		return series[:forecast.MaxHourlySamples]
	}
	return series
}

// Open-Meteo API response structures. When multiple models are requested, the
// hourly arrays carry a per-model suffix. A single-model response uses the
// unsuffixed key, covered here so the main series survives either shape.

type forecastResponse struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Timezone  string          `json:"timezone"`
	Hourly    *hourlyResponse `json:"hourly"`
}

type hourlyResponse struct {
	Time    []string  `json:"time"`
	Plain   []float64 `json:"temperature_2m"`
	MainKey []float64 `json:"temperature_2m_best_match"`
	AltEC   []float64 `json:"temperature_2m_ecmwf_ifs025"`
	AltGFS  []float64 `json:"temperature_2m_gfs_seamless"`
}

// mainSeries returns the best-match series regardless of response shape.
func (h *hourlyResponse) mainSeries() []float64 {
	if len(h.MainKey) > 0 {
		return h.MainKey
	}
	return h.Plain
}
