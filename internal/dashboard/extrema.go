package dashboard

import (
	"fmt"
	"math"
)

// Extrema scans the smoothed main curve and returns the maximum and minimum
// values with their fractional-hour positions. The scan is over the dense
// smoothed points, not the raw hourly samples, so positions carry sub-hour
// resolution.
func Extrema(series DisplaySeries) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	s := Summary{
		Max:     series[0].Value,
		MaxHour: series[0].Hour,
		Min:     series[0].Value,
		MinHour: series[0].Hour,
	}

	for _, p := range series[1:] {
		if p.Value > s.Max {
			s.Max = p.Value
			s.MaxHour = p.Hour
		}
		if p.Value < s.Min {
			s.Min = p.Value
			s.MinHour = p.Hour
		}
	}

	return s
}

// PeakClock converts a fractional peak hour to a civil clock estimate shifted
// by the user's offsets. The base time is floor(hour) hours and
// round(frac*60) minutes; offsets are free signed integers and the result
// wraps modulo 24 hours with no date-rollover correction.
func PeakClock(peakHour float64, offsetHours, offsetMinutes int) string {
	h := int(math.Floor(peakHour))
	m := int(math.Round((peakHour - math.Floor(peakHour)) * 60))

	total := h*60 + m + offsetHours*60 + offsetMinutes
	const dayMinutes = 24 * 60
	total %= dayMinutes
	if total < 0 {
		total += dayMinutes
	}

	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
