// Package metrics exposes claim routing counters for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/claimroute/internal/model"
)

const namespace = "claimroute"

// Metrics holds the collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	claims         *prometheus.CounterVec
	missingFields  *prometheus.CounterVec
	fraudFlags     prometheus.Counter
	injuryClaims   prometheus.Counter
	duration       prometheus.Histogram
	sourceErrors   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	summaryResults *prometheus.CounterVec
}

// New creates the collectors. withRuntime adds Go and process collectors.
func New(withRuntime bool) *Metrics {
	registry := prometheus.NewRegistry()
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	m := &Metrics{
		registry: registry,
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_processed_total",
			Help:      "Claims routed, by recommended queue.",
		}, []string{"route"}),
		missingFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_fields_total",
			Help:      "Mandatory fields missing from processed claims.",
		}, []string{"field"}),
		fraudFlags: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fraud_flags_total",
			Help:      "Claims whose narrative contained fraud indicators.",
		}),
		injuryClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injury_claims_total",
			Help:      "Claims classified as bodily injury.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "Time spent extracting, classifying and routing one claim.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Source documents that could not be read, by source kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP intake requests, by path and status code.",
		}, []string{"path", "code"}),
		summaryResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adjuster_summaries_total",
			Help:      "Adjuster summary attempts, by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.claims,
		m.missingFields,
		m.fraudFlags,
		m.injuryClaims,
		m.duration,
		m.sourceErrors,
		m.httpRequests,
		m.summaryResults,
	)
	return m
}

// ObserveClaim records one routed claim
func (m *Metrics) ObserveClaim(result *model.Result, elapsed time.Duration) {
	if m == nil || result == nil {
		return
	}

	m.claims.WithLabelValues(string(result.RecommendedRoute)).Inc()
	for _, field := range result.MissingFields {
		m.missingFields.WithLabelValues(field).Inc()
	}
	if result.Metadata.FraudIndicators {
		m.fraudFlags.Inc()
	}
	if result.Metadata.InjuryClaim {
		m.injuryClaims.Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// ObserveSourceError records an unreadable source ("file", "stdin" or "url")
func (m *Metrics) ObserveSourceError(kind string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(kind).Inc()
}

// ObserveHTTP records one HTTP intake request
func (m *Metrics) ObserveHTTP(path string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// ObserveSummary records an adjuster summary outcome ("ok" or "error")
func (m *Metrics) ObserveSummary(outcome string) {
	if m == nil {
		return
	}
	m.summaryResults.WithLabelValues(outcome).Inc()
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
