package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Metrics groups the collectors exported by the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	alignments     prometheus.Counter
	fetchFailures  *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "searches_total",
			Help:      "Searches by operation and outcome.",
		}, []string{"op", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dnamatch",
			Name:      "search_duration_seconds",
			Help:      "Wall time of engine scans.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op"}),
		alignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "alignments_total",
			Help:      "Pairwise alignments computed.",
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dnamatch",
			Name:      "population_fetch_failures_total",
			Help:      "Population source failures by source.",
		}, []string{"source"}),
	}
	m.registry.MustRegister(
		m.searches,
		m.searchDuration,
		m.alignments,
		m.fetchFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveSearch(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(op, outcome).Inc()
	m.searchDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAlignment() {
	if m == nil {
		return
	}
	m.alignments.Inc()
}

func (m *Metrics) ObserveFetchFailure(source string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(source).Inc()
}
