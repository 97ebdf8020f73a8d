package dashboard

import (
	"gonum.org/v1/gonum/interp"
)

const (
	// SmoothPoints is the number of evaluation points on the dense curve.
	SmoothPoints = 300

	// domainHours is the fixed x-axis domain of the chart.
	domainHours = 24.0

	// minSamplesForSpline is the smallest input that supports a cubic fit.
	minSamplesForSpline = 4
)

// Smooth fits a natural cubic spline through the hourly samples (indexed by
// integer hour) and evaluates it at SmoothPoints evenly spaced fractional
// hours spanning [0,24]. Purely cosmetic: the dense curve is for display, not
// extra forecast resolution.
//
// Inputs with fewer than four samples cannot support a cubic fit and yield
// the flat zero curve instead of an error, so the chart still renders.
func Smooth(series []float64) DisplaySeries {
	out := make(DisplaySeries, SmoothPoints)
	for i := range out {
		out[i].Hour = domainHours * float64(i) / float64(SmoothPoints-1)
	}

	if len(series) < minSamplesForSpline {
		return out
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, series); err != nil {
		// Only reachable with non-increasing xs, which the index loop above
		// rules out; keep the zero curve as the total-function fallback.
		return out
	}

	// The spline is defined over [0, len-1]; clamp evaluation so a short
	// series (fewer than 25 samples) extends flat to the right edge instead
	// of extrapolating.
	maxX := xs[len(xs)-1]
	for i := range out {
		x := out[i].Hour
		if x > maxX {
			x = maxX
		}
		out[i].Value = spline.Predict(x)
	}

	return out
}
