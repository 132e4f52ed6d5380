package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// TaskRuns counts task runner invocations by outcome (ok, skipped, error).
	TaskRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_task_runs_total",
			Help: "Dispatch task runs by outcome",
		},
		[]string{"task", "outcome"},
	)

	// DispatchMessages counts individual reminders and summaries by result (sent, failed, skipped).
	DispatchMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_dispatch_messages_total",
			Help: "Reminder and summary messages by result",
		},
		[]string{"task", "result"},
	)
)

// StatusRange buckets an HTTP status into 2xx, 3xx, 4xx or 5xx.
func StatusRange(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
