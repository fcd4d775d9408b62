// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks API latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planwing_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		[]string{"method", "path", "status"},
	)

	// GeneratedTasks counts task drafts returned to callers.
	GeneratedTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwing_generated_tasks_total",
			Help: "Total number of task drafts generated",
		},
		[]string{"source"}, // source: model, fallback
	)

	// RelationshipLinks counts confirmed relationship attempts.
	RelationshipLinks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwing_relationship_links_total",
			Help: "Total number of relationship link attempts",
		},
		[]string{"result", "reason"}, // result: created, rejected
	)

	// StoreQueryDuration tracks SQLite statement latency in seconds.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planwing_store_query_duration_seconds",
			Help:    "Store query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequestDuration observes one API request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// AddGeneratedTasks counts n drafts from source.
func AddGeneratedTasks(source string, n int) {
	GeneratedTasks.WithLabelValues(source).Add(float64(n))
}

// IncrementRelationshipLink counts one link attempt. reason is empty for created links.
func IncrementRelationshipLink(result, reason string) {
	RelationshipLinks.WithLabelValues(result, reason).Inc()
}

// RecordStoreQuery observes one store operation started at start.
func RecordStoreQuery(operation string, start time.Time) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
