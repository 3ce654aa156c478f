package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridscout"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	evaluations     *prometheus.CounterVec
	scores          prometheus.Histogram
	sectionFailures *prometheus.CounterVec
	unavailable     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Suitability evaluations by outcome.",
		}, []string{"suitable"}),
		scores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_score",
			Help:      "Distribution of suitability scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		sectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_section_failures_total",
			Help:      "Analysis statistic groups that fell back to defaults.",
		}, []string{"section"}),
		unavailable: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_unavailable_total",
			Help:      "Provider lookups that returned no data.",
		}, []string{"kind"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests.",
		}, []string{"method", "route", "status"}),
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// ObserveEvaluation records a verdict outcome and score.
func (m *Metrics) ObserveEvaluation(suitable bool, score int) {
	m.evaluations.WithLabelValues(strconv.FormatBool(suitable)).Inc()
	m.scores.Observe(float64(score))
}

// ObserveSectionFailure counts an analysis section that fell back to defaults.
func (m *Metrics) ObserveSectionFailure(section string) {
	m.sectionFailures.WithLabelValues(section).Inc()
}

// ObserveDataUnavailable counts a lookup that returned no data.
func (m *Metrics) ObserveDataUnavailable(kind string) {
	m.unavailable.WithLabelValues(kind).Inc()
}

// ObserveHTTP records one served API request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
