package metrics

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

const namespace = "symcalc"

// Metrics owns a private prometheus registry with the command and series
// collectors. A private registry keeps independent instances (one per REPL
// or test) from colliding on registration.
type Metrics struct {
	registry   *prometheus.Registry
	commands   *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	terms      prometheus.Gauge
	buckets    prometheus.Gauge
	loadFactor prometheus.Gauge
}

// NewMetrics creates and registers every collector, including the Go
// runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Number of executed commands.",
		}, []string{"command"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_errors_total",
			Help:      "Number of failed commands by error kind.",
		}, []string{"command", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution time.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 9),
		}, []string{"command"}),
		terms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_terms",
			Help:      "Term count of the last computed series.",
		}),
		buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hashset_buckets",
			Help:      "Bucket count of the last computed series table.",
		}),
		loadFactor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hashset_load_factor",
			Help:      "Load factor of the last computed series table.",
		}),
	}
	m.registry.MustRegister(
		m.commands, m.failures, m.duration,
		m.terms, m.buckets, m.loadFactor,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveCommand records one command execution.
func (m *Metrics) ObserveCommand(name string, d time.Duration, err error) {
	m.commands.WithLabelValues(name).Inc()
	m.duration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.failures.WithLabelValues(name, KindLabel(err)).Inc()
	}
}

// ObserveSeries records the shape of a freshly computed series table.
func (m *Metrics) ObserveSeries(terms, buckets int, loadFactor float64) {
	m.terms.Set(float64(terms))
	m.buckets.Set(float64(buckets))
	m.loadFactor.Set(loadFactor)
}

// WritePrometheus writes every registered metric in the text exposition
// format.
func (m *Metrics) WritePrometheus(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrapf(err, "encoding %s", mf.GetName())
		}
	}
	return nil
}

// KindLabel maps an error to a short label for the error counter.
func KindLabel(err error) string {
	switch apperrors.Kind(err) {
	case apperrors.ErrOverflow:
		return "overflow"
	case apperrors.ErrZeroDivision:
		return "zero_division"
	case apperrors.ErrDomain:
		return "domain"
	case apperrors.ErrAllocation:
		return "allocation"
	}
	if apperrors.IsContextError(err) {
		return "context"
	}
	return "other"
}
