package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schooldash"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Business metrics
var (
	GradeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grade_mutations_total",
			Help:      "Grade records created, updated or deleted through the API",
		},
		[]string{"action", "status"},
	)

	PhotoUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_uploads_total",
			Help:      "Profile photo uploads",
		},
		[]string{"kind", "status"},
	)

	ListPageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_page_renders_total",
			Help:      "List pages rendered, by entity",
		},
		[]string{"entity"},
	)

	SessionRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_rejections_total",
			Help:      "Session tokens that failed verification",
		},
	)
)

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

// GradeMutated records a grade create/update/delete outcome.
func GradeMutated(action string, err error) {
	GradeMutations.WithLabelValues(action, status(err)).Inc()
}

// PhotoUploaded records a profile photo upload outcome.
func PhotoUploaded(kind string, err error) {
	PhotoUploads.WithLabelValues(kind, status(err)).Inc()
}

// ListRendered counts a rendered list page.
func ListRendered(entity string) {
	ListPageRenders.WithLabelValues(entity).Inc()
}

// SessionRejected counts a session token that failed verification.
func SessionRejected() {
	SessionRejections.Inc()
}
