package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	reportSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_submissions_total",
			Help: "Total number of report saves by resulting status",
		},
		[]string{"status"},
	)

	bulkActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_bulk_actions_total",
			Help: "Total number of bulk report actions by per-id outcome",
		},
		[]string{"action", "outcome"},
	)
)

// MetricsMiddleware collects Prometheus metrics for each HTTP request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordReportSubmission counts a successful draft save or submission.
func RecordReportSubmission(status string) {
	reportSubmissionsTotal.WithLabelValues(status).Inc()
}

// RecordBulkAction counts per-id outcomes of a bulk action.
func RecordBulkAction(action string, succeeded, failed int) {
	bulkActionsTotal.WithLabelValues(action, "success").Add(float64(succeeded))
	bulkActionsTotal.WithLabelValues(action, "failure").Add(float64(failed))
}
