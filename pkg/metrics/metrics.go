package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scheduler pass duration in seconds.
	SchedulerPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_pass_duration_seconds",
			Help:    "PM scheduler pass duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"trigger"}, // trigger: timer, login
	)

	// Work order generation outcomes per pass.
	WorkOrderGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workorder_generation_count",
			Help: "Total number of PM work order generation outcomes",
		},
		[]string{"outcome"}, // outcome: generated, skipped, failed
	)

	// Work orders marked overdue.
	WorkOrderOverdueCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workorder_overdue_count",
			Help: "Total number of work orders marked overdue",
		},
	)

	// Database query latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Slow query counter.
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	// Notifications created from scheduler events.
	NotificationCreatedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_created_count",
			Help: "Total number of notifications created",
		},
		[]string{"category"}, // category: pm_generated, wo_overdue
	)
)

// ObserveSchedulerPass records a scheduler pass duration.
func ObserveSchedulerPass(trigger string, duration time.Duration) {
	SchedulerPassDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// IncrementGeneration records a work order generation outcome.
func IncrementGeneration(outcome string) {
	WorkOrderGenerationCount.WithLabelValues(outcome).Inc()
}

// RecordDBQueryDuration records a database query duration.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementSlowQuery records a slow query occurrence.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// IncrementNotificationCreated records a created notification.
func IncrementNotificationCreated(category string) {
	NotificationCreatedCount.WithLabelValues(category).Inc()
}
