package dashboard

import (
	"errors"
	"fmt"
)

// Dashboard errors.
var (
	ErrUnknownStation = errors.New("unknown station")
	ErrInvalidUnit    = errors.New("invalid temperature unit")
)

// Unit is the display temperature unit.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// ParseUnit parses a user-supplied unit string.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "", "C", "c", "celsius":
		return UnitCelsius, nil
	case "F", "f", "fahrenheit":
		return UnitFahrenheit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Symbol returns the display symbol for the unit.
func (u Unit) Symbol() string {
	if u == UnitFahrenheit {
		return "°F"
	}
	return "°C"
}

// State is the session preference set driving one render: the selected
// station, display unit, and the user's local-time offset for the peak
// estimate. Offsets are free signed integers. The zero value of Unit renders
// as Celsius.
type State struct {
	StationKey    string
	Unit          Unit
	OffsetHours   int
	OffsetMinutes int
}

// Point is one smoothed sample: a value at a fractional hour of the day.
type Point struct {
	Hour  float64 `json:"hour"`
	Value float64 `json:"value"`
}

// DisplaySeries is a dense smoothed curve over the [0,24] hour domain.
type DisplaySeries []Point

// Values returns just the value column of the series.
func (s DisplaySeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Summary holds the extrema of the smoothed main curve.
type Summary struct {
	Max     float64 `json:"max"`
	MaxHour float64 `json:"maxHour"`
	Min     float64 `json:"min"`
	MinHour float64 `json:"minHour"`
}

// Metrics are the headline numbers shown above the chart.
type Metrics struct {
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
	Unit      string  `json:"unit"`
	PeakClock string  `json:"peakClock"`
}

// LineStyle is the stroke style of a chart curve.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Curve is one drawable line on the chart.
type Curve struct {
	Label   string    `json:"label"`
	Color   string    `json:"color"`
	Style   LineStyle `json:"style"`
	Width   float64   `json:"width"`
	Opacity float64   `json:"opacity"`
	Points  []Point   `json:"points"`
}

// Marker is a point annotation on the chart.
type Marker struct {
	Hour  float64 `json:"hour"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Axis describes the fixed x-axis of the chart.
type Axis struct {
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	TickHours  int      `json:"tickHours"`
	TickLabels []string `json:"tickLabels"`
}

// Chart is the full declarative chart description: curves for the three
// models (main split into past and future segments), extrema markers, the
// current-time marker, and the fixed clock axis. Rendering it is the UI's
// job; no business logic lives here.
type Chart struct {
	Curves     []Curve `json:"curves"`
	NowHour    float64 `json:"nowHour"`
	MaxMarker  Marker  `json:"maxMarker"`
	MinMarker  Marker  `json:"minMarker"`
	XAxis      Axis    `json:"xAxis"`
	ShowBorder bool    `json:"showBorder"`
}

// ViewModel is everything the UI needs for one render cycle. When
// ErrorMessage is set, Metrics and Chart are nil and the UI shows only the
// error notice.
type ViewModel struct {
	StationKey   string   `json:"stationKey"`
	LocalTime    string   `json:"localTime"`
	Unit         string   `json:"unit"`
	Metrics      *Metrics `json:"metrics,omitempty"`
	Chart        *Chart   `json:"chart,omitempty"`
	FooterNote   string   `json:"footerNote,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}
