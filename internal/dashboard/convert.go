package dashboard

// ConvertUnit maps a Celsius series to the display unit. Celsius is the
// identity; Fahrenheit applies v*9/5+32 elementwise. An empty series converts
// to an empty series.
func ConvertUnit(series []float64, unit Unit) []float64 {
	if unit != UnitFahrenheit {
		return series
	}

	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v*9/5 + 32
	}
	return out
}
