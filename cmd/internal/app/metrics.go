package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"breachscan/cmd/internal/screen/cache"
)

// Metrics owns the app's Prometheus registry and the screening
// instruments. It implements the screening handler's metrics sink.
type Metrics struct {
	registry *prometheus.Registry

	checksTotal   *prometheus.CounterVec
	checkDuration prometheus.Histogram
}

// NewMetrics builds a registry with process/go collectors plus the
// screening instruments.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "breachscan",
			Subsystem: "screen",
			Name:      "checks_total",
			Help:      "Password checks by outcome.",
		}, []string{"outcome"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "breachscan",
			Subsystem: "screen",
			Name:      "check_duration_seconds",
			Help:      "End-to-end password check latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.checksTotal, m.checkDuration)
	return m
}

// ObserveCheck records one check outcome and its latency.
func (m *Metrics) ObserveCheck(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(outcome).Inc()
	m.checkDuration.Observe(d.Seconds())
}

// RegisterCache exports hit/miss counters backed by the range cache's own
// counters, so the cache stays free of metrics imports.
func (m *Metrics) RegisterCache(rc *cache.RangeCache) {
	if m == nil || rc == nil {
		return
	}

	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "breachscan",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Range cache hits.",
		}, func() float64 {
			hits, _ := rc.Stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "breachscan",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Range cache misses.",
		}, func() float64 {
			_, misses := rc.Stats()
			return float64(misses)
		}),
	)
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
