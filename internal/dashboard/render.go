// Package dashboard implements the temperature dashboard pipeline: unit
// conversion, spline smoothing, extrema estimation, and assembly of the
// ViewModel the UI draws. The pipeline is a pure function of (state, fetch
// cache contents, clock); every render recomputes everything except the
// cached forecast.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nepal9768/polytianqi/internal/forecast"
	"github.com/nepal9768/polytianqi/internal/station"
)

// Curve styling. The main model is split at the current hour: the past
// segment is drawn solid, the future segment lighter and dashed.
const (
	colorMain   = "#e45756"
	colorAltEC  = "#4c78a8"
	colorAltGFS = "#72b7b2"
)

// footerNote is the informational message under the chart.
const footerNote = "数据来源 Open-Meteo（best_match / ECMWF / GFS），缓存 10 分钟，曲线为三次样条平滑展示。"

// fetchErrorMessage is the single user-visible error notice on fetch failure.
const fetchErrorMessage = "天气数据获取失败，请稍后重试。"

// RendererConfig holds the collaborators of the render pipeline.
type RendererConfig struct {
	// Stations is the fixed station registry.
	Stations *station.Registry

	// Forecasts supplies (cached) raw forecasts.
	Forecasts *forecast.Service

	// Now is the wall clock; injectable for deterministic tests.
	Now func() time.Time

	// Logger for render events.
	Logger zerolog.Logger
}

// Renderer runs the full dashboard pipeline for one preference state.
type Renderer struct {
	stations  *station.Registry
	forecasts *forecast.Service
	now       func() time.Time
	logger    zerolog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		stations:  cfg.Stations,
		forecasts: cfg.Forecasts,
		now:       now,
		logger:    cfg.Logger,
	}
}

// Stations exposes the registry keys for the selection control.
func (r *Renderer) Stations() []string {
	return r.stations.Keys()
}

// Render runs the whole pipeline for the given state. An unknown station key
// is the caller's error; a forecast fetch failure is not. It renders as a
// ViewModel carrying only the error notice, with no metrics and no chart.
func (r *Renderer) Render(ctx context.Context, state State) (*ViewModel, error) {
	st, ok := r.stations.Get(state.StationKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStation, state.StationKey)
	}

	unit := state.Unit
	if unit == "" {
		unit = UnitCelsius
	}

	localNow := r.now().In(st.Location())
	vm := &ViewModel{
		StationKey: st.Key,
		LocalTime:  localNow.Format("2006-01-02 15:04"),
		Unit:       unit.Symbol(),
	}

	raw, err := r.forecasts.Get(ctx, st.Lat, st.Lon)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("station", st.Key).
			Msg("rendering error state")
		vm.ErrorMessage = fetchErrorMessage
		return vm, nil
	}

	mainCurve := Smooth(ConvertUnit(raw.Main, unit))
	ecCurve := Smooth(ConvertUnit(raw.AltECOrMain(), unit))
	gfsCurve := Smooth(ConvertUnit(raw.AltGFSOrMain(), unit))

	summary := Extrema(mainCurve)
	nowHour := fractionalHour(localNow)

	vm.Metrics = &Metrics{
		Max:       summary.Max,
		Min:       summary.Min,
		Unit:      unit.Symbol(),
		PeakClock: PeakClock(summary.MaxHour, state.OffsetHours, state.OffsetMinutes),
	}
	vm.Chart = buildChart(mainCurve, ecCurve, gfsCurve, summary, nowHour)
	vm.FooterNote = footerNote

	return vm, nil
}

// buildChart assembles the declarative chart description.
func buildChart(main, ec, gfs DisplaySeries, summary Summary, nowHour float64) *Chart {
	past, future := splitAt(main, nowHour)

	curves := []Curve{
		{Label: "best_match 已过", Color: colorMain, Style: LineSolid, Width: 2.5, Opacity: 1, Points: past},
		{Label: "best_match 预报", Color: colorMain, Style: LineDashed, Width: 2, Opacity: 0.55, Points: future},
		{Label: "ECMWF", Color: colorAltEC, Style: LineDashed, Width: 1.5, Opacity: 0.8, Points: ec},
		{Label: "GFS", Color: colorAltGFS, Style: LineDotted, Width: 1.5, Opacity: 0.8, Points: gfs},
	}

	return &Chart{
		Curves:  curves,
		NowHour: nowHour,
		MaxMarker: Marker{
			Hour:  summary.MaxHour,
			Value: summary.Max,
			Label: "最高",
		},
		MinMarker: Marker{
			Hour:  summary.MinHour,
			Value: summary.Min,
			Label: "最低",
		},
		XAxis:      clockAxis(),
		ShowBorder: false,
	}
}

// splitAt divides a series into past and future segments at the given hour.
// The boundary point belongs to both segments so the line stays visually
// continuous.
func splitAt(series DisplaySeries, hour float64) (past, future []Point) {
	idx := 0
	for idx < len(series) && series[idx].Hour <= hour {
		idx++
	}

	past = make([]Point, idx)
	copy(past, series[:idx])

	future = make([]Point, len(series)-idx)
	copy(future, series[idx:])
	if len(past) > 0 && len(future) > 0 {
		future = append([]Point{past[len(past)-1]}, future...)
	}

	return past, future
}

// clockAxis returns the fixed [0,24] axis labeled every 4 hours.
func clockAxis() Axis {
	labels := make([]string, 0, 7)
	for h := 0; h <= 24; h += 4 {
		labels = append(labels, fmt.Sprintf("%02d:00", h%24))
	}
	return Axis{
		Min:        0,
		Max:        domainHours,
		TickHours:  4,
		TickLabels: labels,
	}
}

// fractionalHour converts a civil time to a fractional hour of its day.
func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
