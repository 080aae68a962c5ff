package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured via public forms",
		},
		[]string{"channel"},
	)

	nurtureEmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nurture_emails_sent_total",
			Help: "Total number of nurture emails dispatched",
		},
	)

	nurtureSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nurture_send_failures_total",
			Help: "Total number of failed nurture dispatch attempts",
		},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of email provider webhook events received",
		},
		[]string{"type"},
	)

	suppressionsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suppressions_total",
			Help: "Total number of emails added to the suppression list",
		},
		[]string{"reason"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadCaptured(channel string) {
	leadsCaptured.WithLabelValues(channel).Inc()
}

func RecordNurtureRun(sent, failed int) {
	nurtureEmailsSent.Add(float64(sent))
	nurtureSendFailures.Add(float64(failed))
}

func RecordWebhookEvent(eventType string) {
	webhookEvents.WithLabelValues(eventType).Inc()
}

func RecordSuppression(reason string) {
	suppressionsAdded.WithLabelValues(reason).Inc()
}
