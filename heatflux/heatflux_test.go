package heatflux

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermloop/correlation"
	"thermloop/errors"
	"thermloop/fluid"
	"thermloop/units"
)

func TestConvectionAndOverallPower(t *testing.T) {
	q := ConvectionPower(20, units.Kelvin(350), units.Kelvin(300), 2)
	assert.InDelta(t, 2000.0, float64(q), 1e-9)

	q = OverallPower(5, units.Kelvin(290), units.Kelvin(300), 4)
	assert.InDelta(t, -200.0, float64(q), 1e-9)
}

func TestResistancePowers(t *testing.T) {
	q, err := SingleConvectionResistancePower(units.Kelvin(300), units.Kelvin(310), 2, 50)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, float64(q), 1e-9)

	q, err = WallResistancePower(units.Kelvin(300), units.Kelvin(400), 16, 0.5, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 80000.0, float64(q), 1e-6)

	// Two identical layers halve the single layer flow.
	layer := Layer{Conductivity: 16, Area: 0.5, Thickness: 0.01}
	q2, err := TwoLayerWallPower(units.Kelvin(300), units.Kelvin(400), layer, layer)
	require.NoError(t, err)
	assert.InDelta(t, float64(q)/2, float64(q2), 1e-6)

	_, err = WallResistancePower(units.Kelvin(300), units.Kelvin(400), 0, 0.5, 0.01)
	assert.ErrorIs(t, err, errors.ErrPhysicallyInvalidInput)
}

func TestLogMeanTemperatureDifference(t *testing.T) {
	tests := []struct {
		name                     string
		hotA, coldA, hotB, coldB float64
		want                     float64
		wantErr                  error
	}{
		{"counterflow", 400, 320, 350, 300, (80.0 - 50.0) / math.Log(80.0/50.0), nil},
		{"equal ends", 400, 350, 380, 330, 50, nil},
		{"pinch", 400, 400, 380, 330, 0, nil},
		{"hot colder at A", 300, 320, 350, 300, 0, errors.ErrPhysicallyInvalidInput},
		{"hot colder at B", 400, 320, 290, 300, 0, errors.ErrPhysicallyInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LogMeanTemperatureDifference(
				units.Kelvin(tt.hotA), units.Kelvin(tt.coldA), units.Kelvin(tt.hotB), units.Kelvin(tt.coldB))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, float64(got), 1e-9)
			assert.GreaterOrEqual(t, float64(got), 0.0)
		})
	}
}

func TestDimensionlessGroups(t *testing.T) {
	re, err := Reynolds(0.18, 0.01, 1e-3)
	require.NoError(t, err)
	assert.InDelta(t, 4*0.18/(math.Pi*0.01*1e-3), re, 1e-6)

	pr, err := Prandtl(1800, 1e-3, 0.12)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, pr, 1e-9)

	h, err := CoefficientFromNusselt(8, 0.12, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 96.0, float64(h), 1e-9)

	_, err = Reynolds(0.18, 0, 1e-3)
	assert.ErrorIs(t, err, errors.ErrPhysicallyInvalidInput)
}

func TestSources(t *testing.T) {
	props := fluid.DowthermA{}
	temp := units.Celsius(80)

	q, err := FixedHeat(250).HeatInput(props, temp, 0.18)
	require.NoError(t, err)
	assert.Equal(t, units.Power(250), q)

	amb := AmbientExchange{U: 10, Area: 0.1, Surrounding: units.Celsius(20)}
	q, err = amb.HeatInput(props, temp, 0.18)
	require.NoError(t, err)
	assert.InDelta(t, -60.0, float64(q), 1e-9)

	conv := ConvectiveExchange{
		Diameter:    0.01,
		Length:      1,
		Nusselt:     correlation.ForCIETHeater(),
		Surrounding: units.Celsius(20),
	}
	q, err = conv.HeatInput(props, temp, 0.18)
	require.NoError(t, err)

	mu, _ := props.Viscosity(temp)
	k, _ := props.ThermalConductivity(temp)
	re := 4 * 0.18 / (math.Pi * 0.01 * float64(mu))
	nu := 5.44 + 0.034*math.Pow(re, 0.82)
	want := nu * float64(k) / 0.01 * (20 - 80) * math.Pi * 0.01
	assert.InEpsilon(t, want, float64(q), 1e-9)
	assert.Less(t, float64(q), 0.0)

	_, err = conv.HeatInput(props, units.Celsius(250), 0.18)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}
