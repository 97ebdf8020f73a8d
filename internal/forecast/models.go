package forecast

import (
	"errors"
	"time"
)

// Forecast errors.
var (
	ErrProviderUnavailable = errors.New("forecast provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// MaxHourlySamples is the number of hourly samples kept per model: hours 0
// through 24 of the provider-local day. The extra hour past midnight keeps the
// smoothed curve continuous at the right edge of the chart.
const MaxHourlySamples = 25

// RawForecast holds the hourly temperature series for the three requested
// models, aligned by index to sequential forecast hours starting at hour 0 of
// the provider's local day. Any series may be shorter than MaxHourlySamples or
// empty when the provider omits a model; consumers fall back to Main for the
// alternates in that case.
type RawForecast struct {
	// Lat/Lon echo the requested coordinates.
	Lat float64
	Lon float64

	// Main is the provider's best-match model.
	Main []float64

	// AltEC is the ECMWF alternate model.
	AltEC []float64

	// AltGFS is the GFS alternate model.
	AltGFS []float64

	// FetchedAt records when the forecast was retrieved.
	FetchedAt time.Time
}

// AltECOrMain returns the ECMWF series, or Main when the provider omitted it.
func (f *RawForecast) AltECOrMain() []float64 {
	if len(f.AltEC) == 0 {
		return f.Main
	}
	return f.AltEC
}

// AltGFSOrMain returns the GFS series, or Main when the provider omitted it.
func (f *RawForecast) AltGFSOrMain() []float64 {
	if len(f.AltGFS) == 0 {
		return f.Main
	}
	return f.AltGFS
}
