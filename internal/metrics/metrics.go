// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MarksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_marks_total",
			Help: "Total number of accepted attendance marks",
		},
		[]string{"course", "status"},
	)

	MarkRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_mark_rejections_total",
			Help: "Rejected attendance submissions by reason",
		},
		[]string{"reason"},
	)

	SessionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_sessions_created_total",
			Help: "Total number of sessions created",
		},
		[]string{"course"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
