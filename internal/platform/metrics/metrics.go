package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the integration layer.
type Metrics struct {
	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamErrors          *prometheus.CounterVec
	RetryAttempts           *prometheus.CounterVec
	CacheHits               *prometheus.CounterVec
	CacheMisses             *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UpstreamRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exam_portal_upstream_request_duration_seconds",
			Help:    "Latency of upstream examination-board API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"domain"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_portal_upstream_errors_total",
			Help: "Upstream failures by normalized classification code",
		}, []string{"domain", "code"}),
		RetryAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_portal_upstream_retry_attempts_total",
			Help: "Retry attempts against the upstream API",
		}, []string{"domain"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_portal_cache_hits_total",
			Help: "Cache hits by data domain",
		}, []string{"domain"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_portal_cache_misses_total",
			Help: "Cache misses by data domain",
		}, []string{"domain"}),
	}
}

// ObserveUpstreamRequest records one upstream round-trip for a domain.
func (m *Metrics) ObserveUpstreamRequest(domain string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestDuration.WithLabelValues(domain).Observe(elapsed.Seconds())
}

// IncUpstreamError counts a classified upstream failure.
func (m *Metrics) IncUpstreamError(domain, code string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(domain, code).Inc()
}

// IncRetryAttempt counts one retry against the upstream.
func (m *Metrics) IncRetryAttempt(domain string) {
	if m == nil {
		return
	}
	m.RetryAttempts.WithLabelValues(domain).Inc()
}

// IncCacheHit counts a cache hit for a domain.
func (m *Metrics) IncCacheHit(domain string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(domain).Inc()
}

// IncCacheMiss counts a cache miss for a domain.
func (m *Metrics) IncCacheMiss(domain string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(domain).Inc()
}
