package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepal9768/polytianqi/internal/api/handler"
	"github.com/nepal9768/polytianqi/internal/dashboard"
	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/station"
)

type stubProvider struct {
	forecast *forecast.RawForecast
	err      error
}

func (p *stubProvider) FetchHourly(_ context.Context, lat, lon float64) (*forecast.RawForecast, error) {
	if p.err != nil {
		return nil, p.err
	}
	f := *p.forecast
	f.Lat = lat
	f.Lon = lon
	return &f, nil
}

func (p *stubProvider) Name() string { return "stub" }

func hourlySeries() []float64 {
	series := make([]float64, 25)
	for i := range series {
		d := float64(i) - 14
		series[i] = 22 - 0.08*d*d
	}
	return series
}

func newDashboardHandler(p forecast.Provider) *handler.DashboardHandler {
	svc := forecast.NewService(forecast.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
	})
	renderer := dashboard.NewRenderer(dashboard.RendererConfig{
		Stations:  station.NewRegistry(),
		Forecasts: svc,
		Now:       func() time.Time { return time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC) },
		Logger:    zerolog.Nop(),
	})
	return handler.NewDashboardHandler(renderer)
}

func TestGetDashboard_OK(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, dashURL("伦敦 (LHR)", ""), http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.Equal(t, "伦敦 (LHR)", vm.StationKey)
	assert.Equal(t, "°C", vm.Unit)
	require.NotNil(t, vm.Metrics)
	require.NotNil(t, vm.Chart)
	assert.Empty(t, vm.ErrorMessage)
}

func TestGetDashboard_Fahrenheit(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, dashURL("伦敦 (LHR)", "unit=F"), http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.Equal(t, "°F", vm.Unit)
	require.NotNil(t, vm.Metrics)
	assert.InDelta(t, 22*9.0/5.0+32, vm.Metrics.Max, 0.5)
}

func TestGetDashboard_MissingStation(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "station")
}

func TestGetDashboard_UnknownStation(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?station=nowhere", http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "station not found")
}

func TestGetDashboard_InvalidUnit(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, dashURL("伦敦 (LHR)", "unit=K"), http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unit")
}

func TestGetDashboard_InvalidOffset(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	req := httptest.NewRequest(http.MethodGet, dashURL("伦敦 (LHR)", "offset_h=abc"), http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "offset_h")
}

func TestGetDashboard_OffsetsShiftPeakClock(t *testing.T) {
	h := newDashboardHandler(&stubProvider{forecast: &forecast.RawForecast{Main: hourlySeries()}})

	direct := fetchPeakClock(t, h, dashURL("伦敦 (LHR)", ""))
	shifted := fetchPeakClock(t, h, dashURL("伦敦 (LHR)", "offset_h=2&offset_m=30"))

	assert.Equal(t, (clockToMinutes(t, direct)+150)%1440, clockToMinutes(t, shifted))
}

func TestGetDashboard_ProviderFailureIsNotAnHTTPError(t *testing.T) {
	h := newDashboardHandler(&stubProvider{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, dashURL("伦敦 (LHR)", ""), http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.NotEmpty(t, vm.ErrorMessage)
	assert.Nil(t, vm.Metrics)
	assert.Nil(t, vm.Chart)
}

func dashURL(stationKey, extra string) string {
	target := "/v1/dashboard?station=" + url.QueryEscape(stationKey)
	if extra != "" {
		target += "&" + extra
	}
	return target
}

func fetchPeakClock(t *testing.T, h *handler.DashboardHandler, target string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	h.GetDashboard(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	require.NotNil(t, vm.Metrics)
	return vm.Metrics.PeakClock
}

func clockToMinutes(t *testing.T, clock string) int {
	t.Helper()

	var hh, mm int
	_, err := fmt.Sscanf(clock, "%d:%d", &hh, &mm)
	require.NoError(t, err)
	return hh*60 + mm
}
