package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalyticsMetrics records per-report query latency and failures.
type AnalyticsMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewAnalyticsMetrics registers the analytics metrics on the provided registerer.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_query_duration_seconds",
		Help:    "Duration of analytics report queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_query_errors_total",
		Help: "Failed analytics report queries.",
	}, []string{"report"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_requests_total",
		Help: "Analytics cache lookups by outcome.",
	}, []string{"report", "outcome"})
	reg.MustRegister(duration, errs, cache)
	return &AnalyticsMetrics{
		duration: duration,
		errors:   errs,
		cache:    cache,
	}
}

// ObserveQuery records the duration of a report query and counts it as failed when err is set.
func (m *AnalyticsMetrics) ObserveQuery(report string, duration time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	report = normalizeLabel(report)
	m.duration.WithLabelValues(report).Observe(duration.Seconds())
	if err != nil {
		m.errors.WithLabelValues(report).Inc()
	}
}

// IncCache counts a cache lookup; outcome is "hit", "miss" or "error".
func (m *AnalyticsMetrics) IncCache(report, outcome string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(report), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
