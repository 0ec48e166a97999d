package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics registry for Prometheus metrics
// These cover the filter engine's hot path: full apply() calls, per-condition
// evaluation, and the result cache.

var (
	// ApplyTotal counts apply() calls by outcome ("ok" or the error kind)
	ApplyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_apply_total",
			Help: "Total number of filter apply calls",
		},
		[]string{"outcome"},
	)

	// ApplyDuration observes end-to-end apply() latency
	ApplyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filter_apply_duration_seconds",
			Help:    "Duration of filter apply calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ConditionDuration observes per-condition resolve+evaluate latency
	ConditionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filter_condition_duration_seconds",
			Help:    "Duration of single condition evaluation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheRequests counts result cache lookups by result ("hit", "miss", "join")
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_cache_requests_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"},
	)
)

// InitMetrics initializes Prometheus metrics
// Metrics are auto-registered via promauto; this exists as an explicit
// startup hook for callers that want to force registration early.
func InitMetrics() {}
