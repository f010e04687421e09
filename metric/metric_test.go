package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermloop/fluid"
	"thermloop/network"
	"thermloop/units"
)

// gathered keys each series by name followed by its label values, ordered
// by label name.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "{" + l.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestObserve(t *testing.T) {
	net, err := network.New(0.1, units.Kelvin(300), fluid.DowthermA{})
	require.NoError(t, err)
	_, err = net.AddNamedEntity("loop", 1e-6)
	require.NoError(t, err)
	require.NoError(t, net.Connect(0, 0))
	require.NoError(t, net.SetHeatInput(0, 10))
	require.NoError(t, net.SetMassFlow(0, 0.18))

	reg := prometheus.NewRegistry()
	m := NewMetrics()
	require.NoError(t, m.Register(reg))

	for i := 0; i < 2; i++ {
		require.NoError(t, net.StepStored())
		m.Observe("s1", net, time.Millisecond)
	}
	m.ObserveError()

	got := gathered(t, reg)
	assert.Equal(t, 2.0, got["thermloop_network_steps_total"])
	assert.Equal(t, 1.0, got["thermloop_network_step_errors_total"])
	assert.Equal(t, 2.0, got["thermloop_network_step_duration_seconds"])
	assert.InDelta(t, 0.2, got["thermloop_network_simulation_time_seconds"], 1e-12)

	out, err := net.OutletTemperature(0)
	require.NoError(t, err)
	assert.Equal(t, float64(out), got["thermloop_entity_outlet_temperature_kelvin{loop}{s1}"])
}

func TestSessionsKeepSeparateGauges(t *testing.T) {
	hot, err := network.New(0.1, units.Kelvin(350), fluid.DowthermA{})
	require.NoError(t, err)
	cold, err := network.New(0.1, units.Kelvin(300), fluid.DowthermA{})
	require.NoError(t, err)
	for _, net := range []*network.Network{hot, cold} {
		_, err = net.AddNamedEntity("heater", 1e-3)
		require.NoError(t, err)
	}

	reg := prometheus.NewRegistry()
	m := NewMetrics()
	require.NoError(t, m.Register(reg))
	m.Observe("a", hot, time.Millisecond)
	m.Observe("b", cold, time.Millisecond)

	got := gathered(t, reg)
	assert.Equal(t, 350.0, got["thermloop_entity_outlet_temperature_kelvin{heater}{a}"])
	assert.Equal(t, 300.0, got["thermloop_entity_outlet_temperature_kelvin{heater}{b}"])

	assert.Equal(t, 1, m.Forget("a"))
	got = gathered(t, reg)
	_, ok := got["thermloop_entity_outlet_temperature_kelvin{heater}{a}"]
	assert.False(t, ok)
	assert.Equal(t, 300.0, got["thermloop_entity_outlet_temperature_kelvin{heater}{b}"])
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewMetrics().Register(reg))
	err := NewMetrics().Register(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Metrics.Register")
	assert.Contains(t, err.Error(), "prometheus conflict")
}
