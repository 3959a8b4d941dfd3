package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Classification outcomes used as the "result" label
const (
	ResultDistorted = "distorted"
	ResultClean     = "clean"
	ResultRejected  = "rejected"
)

// Metrics provides observability for the classify endpoint. All methods
// are safe on a nil receiver so metrics can be disabled.
type Metrics struct {
	registry *prometheus.Registry

	// Classify requests by outcome
	Requests *prometheus.CounterVec

	// Time spent classifying, excluding transport
	Duration prometheus.Histogram

	// Result cache hits
	CacheHits prometheus.Counter

	// Entries held by the result cache
	CacheEntries prometheus.Gauge
}

// NewMetrics creates a dedicated registry with the service metrics plus
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vague_classify_requests_total",
			Help: "Total classify requests by result",
		}, []string{"result"}), // result: "distorted", "clean", "rejected"

		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vague_classify_duration_seconds",
			Help:    "Duration of text classification",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "vague_cache_hits_total",
			Help: "Total classification cache hits",
		}),

		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vague_cache_entries",
			Help: "Classification results held in the cache, including expired ones awaiting cleanup",
		}),
	}
}

// IncrementResult records one classify outcome.
func (m *Metrics) IncrementResult(result string) {
	if m != nil {
		m.Requests.WithLabelValues(result).Inc()
	}
}

// ObserveDuration records the classification duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m != nil {
		m.Duration.Observe(d.Seconds())
	}
}

// IncrementCacheHits records a cache hit.
func (m *Metrics) IncrementCacheHits() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// SetCacheEntries records the current cache size.
func (m *Metrics) SetCacheEntries(n int) {
	if m != nil {
		m.CacheEntries.Set(float64(n))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
