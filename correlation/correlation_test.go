package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermloop/errors"
)

func TestCIETHeaterV1(t *testing.T) {
	tests := []struct {
		name string
		re   float64
		want float64
		tol  float64
	}{
		{"laminar", 1500, 8, 1e-12},
		{"turbulent", 2768, 28, 0.01},
		{"turbulent high", 3932, 36, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu, err := CIETHeaterV1(tt.re)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, nu, tt.tol+1e-12)
		})
	}

	_, err := CIETHeaterV1(-1)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestDittusBoelter(t *testing.T) {
	re, pr := 10000.0, 17.0

	nu, err := DittusBoelter(re, pr, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.023*math.Pow(re, 0.8)*math.Pow(pr, 0.4), nu, 1e-9)

	nu, err = DittusBoelter(re, pr, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.023*math.Pow(re, 0.8)*math.Pow(pr, 0.3), nu, 1e-9)

	_, err = DittusBoelter(5000, pr, true)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
	_, err = DittusBoelter(re, 200, true)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestSiederTate(t *testing.T) {
	re, pr, ratio := 8000.0, 17.0, 5.0
	nu, err := SiederTate(re, pr, ratio)
	require.NoError(t, err)
	want := 0.027 * math.Pow(re, 0.8) * math.Pow(pr, 1.0/3.0) * math.Pow(ratio, 0.14)
	assert.InEpsilon(t, want, nu, 1e-9)

	tests := []struct {
		name            string
		re, pr, viscRat float64
	}{
		{"re low", 3999, pr, ratio},
		{"re high", 10001, pr, ratio},
		{"pr low", re, 0.5, ratio},
		{"pr high", re, 20000, ratio},
		{"ratio low", re, pr, 0.001},
		{"ratio high", re, pr, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SiederTate(tt.re, tt.pr, tt.viscRat)
			assert.ErrorIs(t, err, errors.ErrOutOfRange)
		})
	}
}

func TestGnielinskiLiquids(t *testing.T) {
	re, prF, prW, f := 8000.0, 17.0, 12.0, 0.005
	nu, err := GnielinskiLiquids(re, prF, prW, f)
	require.NoError(t, err)

	f8 := f / 8
	want := f8 * (re - 1000) * prF * math.Pow(prF/prW, 0.11) /
		(1 + 12.7*math.Sqrt(f8)*(math.Pow(prF, 2.0/3.0)-1))
	assert.InEpsilon(t, want, nu, 1e-9)

	_, err = GnielinskiLiquids(2000, prF, prW, f)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
	_, err = GnielinskiLiquids(re, 30, 1, f)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
	_, err = GnielinskiLiquids(re, prF, prW, 0)
	assert.ErrorIs(t, err, errors.ErrOutOfRange)
}

func TestByName(t *testing.T) {
	n, err := ByName("ciet_heater_v1")
	require.NoError(t, err)
	nu, err := n(1000, 40)
	require.NoError(t, err)
	assert.Equal(t, 8.0, nu)

	n, err = ByName("dittus_boelter_cooling")
	require.NoError(t, err)
	nu, err = n(1e4, 17)
	require.NoError(t, err)
	assert.InDelta(t, 0.023*math.Pow(1e4, 0.8)*math.Pow(17, 0.3), nu, 1e-9)

	_, err = ByName("colburn")
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
