package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepal9768/polytianqi/internal/dashboard"
)

func TestConvertUnit_CelsiusIsIdentity(t *testing.T) {
	series := []float64{-12.5, 0, 3.3, 21.7, 40}
	assert.Equal(t, series, dashboard.ConvertUnit(series, dashboard.UnitCelsius))
}

func TestConvertUnit_FahrenheitAffine(t *testing.T) {
	series := []float64{-40, 0, 100, 21.5}
	got := dashboard.ConvertUnit(series, dashboard.UnitFahrenheit)

	require.Len(t, got, len(series))
	for i, v := range series {
		assert.InDelta(t, v*9/5+32, got[i], 1e-12)
	}

	// Spot checks on the fixed points.
	assert.InDelta(t, -40.0, got[0], 1e-12)
	assert.InDelta(t, 32.0, got[1], 1e-12)
	assert.InDelta(t, 212.0, got[2], 1e-12)
}

func TestConvertUnit_EmptyInput(t *testing.T) {
	assert.Empty(t, dashboard.ConvertUnit(nil, dashboard.UnitFahrenheit))
	assert.Empty(t, dashboard.ConvertUnit([]float64{}, dashboard.UnitCelsius))
}

func TestParseUnit(t *testing.T) {
	cases := []struct {
		in      string
		want    dashboard.Unit
		wantErr bool
	}{
		{"", dashboard.UnitCelsius, false},
		{"C", dashboard.UnitCelsius, false},
		{"c", dashboard.UnitCelsius, false},
		{"celsius", dashboard.UnitCelsius, false},
		{"F", dashboard.UnitFahrenheit, false},
		{"f", dashboard.UnitFahrenheit, false},
		{"fahrenheit", dashboard.UnitFahrenheit, false},
		{"K", "", true},
		{"kelvin", "", true},
	}

	for _, tc := range cases {
		got, err := dashboard.ParseUnit(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, dashboard.ErrInvalidUnit, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
