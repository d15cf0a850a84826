package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for compile observations.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors updated by the engine.
type Metrics struct {
	Compiles        *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	Publishes       prometheus.Counter
	Deletes         prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipewright_compiles_total",
				Help: "Total number of document compilations by result",
			},
			[]string{"result"},
		),
		CompileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pipewright_compile_duration_seconds",
				Help:    "Duration of document compilations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		Publishes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pipewright_publishes_total",
				Help: "Total number of documents saved to the store",
			},
		),
		Deletes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pipewright_deletes_total",
				Help: "Total number of documents removed from the store",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Compiles, m.CompileDuration, m.Publishes, m.Deletes)
	}
	return m
}

// ObserveCompile records one compilation. Safe to call on a nil *Metrics.
func (m *Metrics) ObserveCompile(started time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Compiles.WithLabelValues(result).Inc()
	m.CompileDuration.Observe(time.Since(started).Seconds())
}

// ObservePublish records a successful save. Safe to call on a nil *Metrics.
func (m *Metrics) ObservePublish() {
	if m == nil {
		return
	}
	m.Publishes.Inc()
}

// ObserveDelete records a removal. Safe to call on a nil *Metrics.
func (m *Metrics) ObserveDelete() {
	if m == nil {
		return
	}
	m.Deletes.Inc()
}
