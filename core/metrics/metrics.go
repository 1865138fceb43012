package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kbli_registry"

// Outcome labels for reconciliation passes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the registry collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Passes       *prometheus.CounterVec
	PassDuration prometheus.Histogram
	ParseErrors  *prometheus.CounterVec
	Anomalies    *prometheus.CounterVec
	Codes        *prometheus.GaugeVec
	Conflicts    prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_passes_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Raw rows rejected by a source adapter.",
		}, []string{"source"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalization_anomalies_total",
			Help:      "Field values that could not be mapped to a canonical type.",
		}, []string{"source"}),
		Codes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "codes",
			Help:      "Codes in the current snapshot by partition.",
		}, []string{"partition"}),
		Conflicts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conflicts",
			Help:      "Matched codes with at least one source conflict.",
		}),
	}

	reg.MustRegister(
		m.Passes, m.PassDuration, m.ParseErrors, m.Anomalies, m.Codes, m.Conflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePass records the outcome and duration of one reconciliation pass.
func (m *Metrics) ObservePass(outcome string, started time.Time) {
	m.Passes.WithLabelValues(outcome).Inc()
	m.PassDuration.Observe(time.Since(started).Seconds())
}

// SetPartitions records partition sizes of the served snapshot.
func (m *Metrics) SetPartitions(matched, surplus, deficit, conflicts int) {
	m.Codes.WithLabelValues("matched").Set(float64(matched))
	m.Codes.WithLabelValues("surplus").Set(float64(surplus))
	m.Codes.WithLabelValues("deficit").Set(float64(deficit))
	m.Conflicts.Set(float64(conflicts))
}

// Handler returns a fiber handler serving the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
