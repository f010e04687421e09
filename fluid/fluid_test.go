package fluid

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermloop/errors"
	"thermloop/units"
)

func TestDowthermAProperties(t *testing.T) {
	d := DowthermA{}

	h, err := d.Enthalpy(units.Celsius(20))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(h), 1e-9)

	rho, err := d.Density(units.Celsius(100))
	require.NoError(t, err)
	assert.InDelta(t, 993.0, float64(rho), 1e-9)

	cp, err := d.SpecificHeatCapacity(units.Celsius(100))
	require.NoError(t, err)
	assert.InDelta(t, 1800.0, float64(cp), 1e-9)

	k, err := d.ThermalConductivity(units.Celsius(100))
	require.NoError(t, err)
	assert.InDelta(t, 0.126, float64(k), 1e-9)

	mu, err := d.Viscosity(units.Celsius(100))
	require.NoError(t, err)
	assert.InEpsilon(t, 0.130/139.0, float64(mu), 0.05)
}

func TestDowthermARoundTrip(t *testing.T) {
	d := DowthermA{}
	for c := DowthermMinCelsius; c <= DowthermMaxCelsius; c += 2.5 {
		temp := units.Celsius(c)
		h, err := d.Enthalpy(temp)
		require.NoError(t, err)
		back, err := d.TemperatureFromEnthalpy(h)
		require.NoError(t, err)
		assert.InDelta(t, temp.Kelvin(), back.Kelvin(), 1e-9, "at %g degC", c)
	}
}

func TestDowthermAOutOfRange(t *testing.T) {
	d := DowthermA{}
	_, err := d.Density(units.Celsius(10))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	_, err = d.Enthalpy(units.Celsius(200))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	_, err = d.TemperatureFromEnthalpy(-1)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	_, err = d.Enthalpy(units.Temperature(math.NaN()))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
	_, err = d.TemperatureFromEnthalpy(units.SpecificEnthalpy(math.NaN()))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	unbounded := Constant{Rho: 1000, Cp: 4000}
	_, err = unbounded.Enthalpy(units.Temperature(math.NaN()))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestConstantRoundTrip(t *testing.T) {
	w := Water()
	h, err := w.Enthalpy(units.Celsius(50))
	require.NoError(t, err)
	assert.InDelta(t, 4181.0*30, float64(h), 1e-6)

	back, err := w.TemperatureFromEnthalpy(h)
	require.NoError(t, err)
	assert.InDelta(t, units.Celsius(50).Kelvin(), back.Kelvin(), 1e-9)

	_, err = w.Density(units.Celsius(120))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)

	unbounded := Constant{Rho: 1000, Cp: 4000}
	_, err = unbounded.Density(5000)
	assert.NoError(t, err)
}

func TestTableMatchesSource(t *testing.T) {
	rows, err := Sample(DowthermA{}, units.Celsius(20), units.Celsius(180), 161)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, rows))

	table, err := ReadTable("dowtherm_table", &buf)
	require.NoError(t, err)

	lo, hi := table.Range()
	assert.InDelta(t, units.Celsius(20).Kelvin(), lo.Kelvin(), 1e-9)
	assert.InDelta(t, units.Celsius(180).Kelvin(), hi.Kelvin(), 1e-9)

	for _, c := range []float64{20, 26.85, 55.5, 100, 179.9, 180} {
		temp := units.Celsius(c)
		want, err := DowthermA{}.Enthalpy(temp)
		require.NoError(t, err)
		got, err := table.Enthalpy(temp)
		require.NoError(t, err)
		assert.InDelta(t, float64(want), float64(got), 2.0, "enthalpy at %g degC", c)

		back, err := table.TemperatureFromEnthalpy(got)
		require.NoError(t, err)
		assert.InDelta(t, temp.Kelvin(), back.Kelvin(), 1e-6, "inverse at %g degC", c)

		rho, err := table.Density(temp)
		require.NoError(t, err)
		assert.InDelta(t, 1078-0.85*c, float64(rho), 1e-6)
	}

	_, err = table.Density(units.Celsius(181))
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestNewTableRejectsNonMonotonicEnthalpy(t *testing.T) {
	csv := "temperature_k,density_kg_m3,enthalpy_j_kg,viscosity_pa_s,cp_j_kg_k,conductivity_w_m_k\n" +
		"300,1000,100,0.001,4000,0.6\n" +
		"310,1000,90,0.001,4000,0.6\n"
	_, err := ReadTable("bad", strings.NewReader(csv))
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = NewTable("short", []TableRow{{Temperature: 300}})
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestLookup(t *testing.T) {
	p, err := Lookup("therminol_vp1")
	require.NoError(t, err)
	assert.Equal(t, "dowtherm_a", p.Name())

	_, err = Lookup("mercury")
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
