// Package metrics exposes solver counters through Prometheus collectors on a
// private registry, written out in the text exposition format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/steadyspace/steady"
)

const metricsNamespace = "steadyspace"

// Outcome labels for SolvesTotal.
const (
	OutcomeComplete   = "complete"
	OutcomeLimited    = "limited"
	OutcomeCanceled   = "canceled"
	OutcomeInfeasible = "infeasible"
	OutcomeError      = "error"
)

// Metrics holds the solver collectors.
type Metrics struct {
	registry *prometheus.Registry

	SolvesTotal    *prometheus.CounterVec
	NodesTotal     *prometheus.CounterVec
	PrunesTotal    *prometheus.CounterVec
	StatesTotal    *prometheus.CounterVec
	SolveDuration  *prometheus.HistogramVec
	ModelsInFlight prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SolvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "solves_total",
			Help:      "Solver runs by model and outcome",
		}, []string{"model", "outcome"}),
		NodesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "search",
			Name:      "nodes_total",
			Help:      "Tentative assignments made by the search",
		}, []string{"model"}),
		PrunesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "search",
			Name:      "prunes_total",
			Help:      "Tentative assignments rejected by propagation",
		}, []string{"model"}),
		StatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "steady_states_total",
			Help:      "Steady states produced",
		}, []string{"model"}),
		SolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one model run, load to last write",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10), // 0.5ms to ~2min
		}, []string{"model"}),
		ModelsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "models_in_flight",
			Help:      "Models currently being solved",
		}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordSolve adds one finished run.
func (m *Metrics) RecordSolve(model, outcome string, stats steady.Stats, elapsed time.Duration) {
	m.SolvesTotal.WithLabelValues(model, outcome).Inc()
	m.NodesTotal.WithLabelValues(model).Add(float64(stats.Nodes))
	m.PrunesTotal.WithLabelValues(model).Add(float64(stats.Prunes))
	m.StatesTotal.WithLabelValues(model).Add(float64(stats.Solutions))
	m.SolveDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// WriteFile writes the current values to path in the text format, replacing
// the file atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
