package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
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
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	patientsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patients_created_total",
			Help: "Total number of patient records created",
		},
		[]string{"provisioned"},
	)

	alertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_alerts_total",
			Help: "Total number of triage alerts raised",
		},
		[]string{"priority"},
	)

	credentialsEmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credentials_emails_sent_total",
			Help: "Total number of credentials emails delivered",
		},
	)

	agentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_requests_total",
			Help: "Total number of requests to the conversational agent service",
		},
		[]string{"operation", "status"},
	)

	agentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_request_duration_seconds",
			Help:    "Conversational agent request duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	sessionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Total number of portal sessions issued",
		},
		[]string{"role", "method"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps metric label cardinality bounded
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordPatientCreated records a patient registration
func RecordPatientCreated(provisioned bool) {
	patientsCreated.WithLabelValues(strconv.FormatBool(provisioned)).Inc()
}

// RecordAlert records a triage alert
func RecordAlert(priority string) {
	alertsRaised.WithLabelValues(priority).Inc()
}

// RecordCredentialsEmail records a delivered credentials email
func RecordCredentialsEmail() {
	credentialsEmailsSent.Inc()
}

// RecordAgentRequest records a request to the agent service
func RecordAgentRequest(operation, status string, duration time.Duration) {
	agentRequestsTotal.WithLabelValues(operation, status).Inc()
	agentRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSessionIssued records an issued portal session
func RecordSessionIssued(role, method string) {
	sessionsIssued.WithLabelValues(role, method).Inc()
}
