// Package metric exposes simulation progress as Prometheus metrics.
package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"thermloop/errors"
	"thermloop/network"
)

// Metrics contains the metrics of one running simulation.
type Metrics struct {
	StepsTotal        prometheus.Counter
	StepErrorsTotal   prometheus.Counter
	StepDuration      prometheus.Histogram
	SimulationTime    prometheus.Gauge
	OutletTemperature *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		StepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "thermloop",
				Subsystem: "network",
				Name:      "steps_total",
				Help:      "Total number of completed timesteps",
			},
		),

		StepErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "thermloop",
				Subsystem: "network",
				Name:      "step_errors_total",
				Help:      "Total number of failed timesteps",
			},
		),

		StepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "thermloop",
				Subsystem: "network",
				Name:      "step_duration_seconds",
				Help:      "Wall clock duration of one timestep in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),

		SimulationTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "thermloop",
				Subsystem: "network",
				Name:      "simulation_time_seconds",
				Help:      "Simulated time reached by the network",
			},
		),

		OutletTemperature: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "thermloop",
				Subsystem: "entity",
				Name:      "outlet_temperature_kelvin",
				Help:      "Outlet temperature of each control volume after the last step",
			},
			[]string{"session", "entity"},
		),
	}
}

func (m *Metrics) collectors() map[string]prometheus.Collector {
	return map[string]prometheus.Collector{
		"steps_total":               m.StepsTotal,
		"step_errors_total":         m.StepErrorsTotal,
		"step_duration_seconds":     m.StepDuration,
		"simulation_time_seconds":   m.SimulationTime,
		"outlet_temperature_kelvin": m.OutletTemperature,
	}
}

// Register adds every metric to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for name, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			var alreadyRegErr prometheus.AlreadyRegisteredError
			if errors.As(err, &alreadyRegErr) {
				return errors.Wrap(err, "Metrics", "Register",
					fmt.Sprintf("prometheus conflict for metric %s", name))
			}
			return errors.Wrap(err, "Metrics", "Register", "register "+name)
		}
	}
	return nil
}

// Observe records a completed step of net that took d. Outlet gauges are
// labelled with session so simulations sharing m keep separate series.
func (m *Metrics) Observe(session string, net *network.Network, d time.Duration) {
	m.StepsTotal.Inc()
	m.StepDuration.Observe(d.Seconds())
	m.SimulationTime.Set(float64(net.ElapsedTime()))
	for _, s := range net.Snapshot() {
		m.OutletTemperature.WithLabelValues(session, s.Name).Set(float64(s.Outlet))
	}
}

// Forget drops the outlet gauges of session.
func (m *Metrics) Forget(session string) int {
	return m.OutletTemperature.DeletePartialMatch(prometheus.Labels{"session": session})
}

func (m *Metrics) ObserveError() {
	m.StepErrorsTotal.Inc()
}
