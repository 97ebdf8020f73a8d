package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepal9768/polytianqi/internal/dashboard"
	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/station"
)

// stubProvider returns a fixed forecast or a fixed error.
type stubProvider struct {
	raw *forecast.RawForecast
	err error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) FetchHourly(_ context.Context, lat, lon float64) (*forecast.RawForecast, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := *p.raw
	out.Lat = lat
	out.Lon = lon
	return &out, nil
}

func newRenderer(t *testing.T, provider forecast.Provider, now time.Time) *dashboard.Renderer {
	t.Helper()
	svc := forecast.NewService(forecast.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})
	return dashboard.NewRenderer(dashboard.RendererConfig{
		Stations:  station.NewRegistry(),
		Forecasts: svc,
		Now:       func() time.Time { return now },
		Logger:    zerolog.Nop(),
	})
}

// clockMinutes parses "HH:MM" into minutes of day.
func clockMinutes(t *testing.T, clock string) int {
	t.Helper()
	var h, m int
	_, err := fmt.Sscanf(clock, "%d:%d", &h, &m)
	require.NoError(t, err)
	return h*60 + m
}

func TestRenderer_Render_LondonPeak(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	// 10:30 UTC is 11:30 in London during summer time.
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	vm, err := r.Render(context.Background(), dashboard.State{
		StationKey: "伦敦 (LHR)",
		Unit:       dashboard.UnitCelsius,
	})
	require.NoError(t, err)
	require.NotNil(t, vm)

	assert.Equal(t, "伦敦 (LHR)", vm.StationKey)
	assert.Equal(t, "2026-06-15 11:30", vm.LocalTime)
	assert.Equal(t, "°C", vm.Unit)
	assert.Empty(t, vm.ErrorMessage)
	assert.NotEmpty(t, vm.FooterNote)

	require.NotNil(t, vm.Metrics)
	assert.InDelta(t, 22.0, vm.Metrics.Max, 0.1)

	// Estimated peak within rounding of 14:00.
	mins := clockMinutes(t, vm.Metrics.PeakClock)
	assert.InDelta(t, 14*60, mins, 5)

	require.NotNil(t, vm.Chart)
	assert.InDelta(t, 11.5, vm.Chart.NowHour, 1e-9)
	assert.InDelta(t, 14.0, vm.Chart.MaxMarker.Hour, 0.1)
	assert.InDelta(t, vm.Metrics.Max, vm.Chart.MaxMarker.Value, 1e-9)
	assert.InDelta(t, vm.Metrics.Min, vm.Chart.MinMarker.Value, 1e-9)
	assert.False(t, vm.Chart.ShowBorder)
}

func TestRenderer_Render_ChartShape(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	vm, err := r.Render(context.Background(), dashboard.State{StationKey: "伦敦 (LHR)"})
	require.NoError(t, err)
	require.NotNil(t, vm.Chart)

	curves := vm.Chart.Curves
	require.Len(t, curves, 4)

	past, future := curves[0], curves[1]
	assert.Equal(t, dashboard.LineSolid, past.Style)
	assert.Equal(t, dashboard.LineDashed, future.Style)
	assert.Equal(t, past.Color, future.Color)
	assert.Less(t, future.Opacity, past.Opacity)

	// The main curve is split at the current hour; the boundary point is
	// shared so the two segments join without a gap.
	require.NotEmpty(t, past.Points)
	require.NotEmpty(t, future.Points)
	lastPast := past.Points[len(past.Points)-1]
	assert.LessOrEqual(t, lastPast.Hour, vm.Chart.NowHour)
	assert.Equal(t, lastPast, future.Points[0])
	assert.Equal(t, dashboard.SmoothPoints+1, len(past.Points)+len(future.Points))

	// Alternates keep the full dense curve.
	assert.Len(t, curves[2].Points, dashboard.SmoothPoints)
	assert.Len(t, curves[3].Points, dashboard.SmoothPoints)
	assert.NotEqual(t, curves[2].Color, curves[3].Color)

	// Fixed clock axis: 00:00 through the wrapped midnight label, every 4h.
	axis := vm.Chart.XAxis
	assert.Equal(t, 0.0, axis.Min)
	assert.Equal(t, 24.0, axis.Max)
	assert.Equal(t, 4, axis.TickHours)
	assert.Equal(t, []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00", "00:00"}, axis.TickLabels)
}

func TestRenderer_Render_AlternateFallsBackToMain(t *testing.T) {
	main := hourlyQuadratic()
	provider := &stubProvider{raw: &forecast.RawForecast{Main: main, AltGFS: nil, AltEC: nil}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	vm, err := r.Render(context.Background(), dashboard.State{StationKey: "伦敦 (LHR)"})
	require.NoError(t, err)

	want := dashboard.Smooth(dashboard.ConvertUnit(main, dashboard.UnitCelsius))
	assert.Equal(t, []dashboard.Point(want), vm.Chart.Curves[2].Points)
	assert.Equal(t, []dashboard.Point(want), vm.Chart.Curves[3].Points)
}

func TestRenderer_Render_FetchFailureShowsOnlyError(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream down")}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	vm, err := r.Render(context.Background(), dashboard.State{StationKey: "伦敦 (LHR)"})
	require.NoError(t, err, "fetch failure is an error state, not a render error")
	require.NotNil(t, vm)

	assert.NotEmpty(t, vm.ErrorMessage)
	assert.Nil(t, vm.Metrics)
	assert.Nil(t, vm.Chart)
	assert.Empty(t, vm.FooterNote)
	assert.Equal(t, "伦敦 (LHR)", vm.StationKey)
	assert.NotEmpty(t, vm.LocalTime)
}

func TestRenderer_Render_UnitSwitchKeepsPeakTime(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	celsius, err := r.Render(context.Background(), dashboard.State{
		StationKey: "伦敦 (LHR)",
		Unit:       dashboard.UnitCelsius,
	})
	require.NoError(t, err)

	fahrenheit, err := r.Render(context.Background(), dashboard.State{
		StationKey: "伦敦 (LHR)",
		Unit:       dashboard.UnitFahrenheit,
	})
	require.NoError(t, err)

	// Values move through the affine transform, the peak time does not.
	assert.InDelta(t, celsius.Metrics.Max*9/5+32, fahrenheit.Metrics.Max, 1e-6)
	assert.InDelta(t, celsius.Metrics.Min*9/5+32, fahrenheit.Metrics.Min, 1e-6)
	assert.Equal(t, celsius.Metrics.PeakClock, fahrenheit.Metrics.PeakClock)
	assert.Equal(t, "°F", fahrenheit.Unit)
}

func TestRenderer_Render_DeterministicForFixedInputs(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	state := dashboard.State{StationKey: "伦敦 (LHR)", OffsetHours: 1, OffsetMinutes: 15}

	first, err := r.Render(context.Background(), state)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderer_Render_UnknownStation(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	r := newRenderer(t, provider, time.Now())

	vm, err := r.Render(context.Background(), dashboard.State{StationKey: "亚特兰蒂斯"})
	assert.Nil(t, vm)
	assert.ErrorIs(t, err, dashboard.ErrUnknownStation)
}

func TestRenderer_Render_OffsetsShiftPeakClock(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	base, err := r.Render(context.Background(), dashboard.State{StationKey: "伦敦 (LHR)"})
	require.NoError(t, err)

	shifted, err := r.Render(context.Background(), dashboard.State{
		StationKey:    "伦敦 (LHR)",
		OffsetHours:   2,
		OffsetMinutes: 30,
	})
	require.NoError(t, err)

	baseMins := clockMinutes(t, base.Metrics.PeakClock)
	shiftedMins := clockMinutes(t, shifted.Metrics.PeakClock)
	assert.Equal(t, (baseMins+150)%(24*60), shiftedMins)
}

func TestRenderer_Render_EmptyMainYieldsFlatZeroCurve(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{}}
	now := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	r := newRenderer(t, provider, now)

	vm, err := r.Render(context.Background(), dashboard.State{StationKey: "伦敦 (LHR)"})
	require.NoError(t, err)

	// No fallback exists for an empty main series; the chart still renders
	// with a flat line instead of failing.
	require.NotNil(t, vm.Chart)
	require.NotNil(t, vm.Metrics)
	assert.Zero(t, vm.Metrics.Max)
	assert.Zero(t, vm.Metrics.Min)
	assert.Empty(t, vm.ErrorMessage)
}

func TestRenderer_Stations(t *testing.T) {
	provider := &stubProvider{raw: &forecast.RawForecast{Main: hourlyQuadratic()}}
	r := newRenderer(t, provider, time.Now())

	keys := r.Stations()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys, "伦敦 (LHR)")
}
