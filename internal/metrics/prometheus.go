package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	aiFlowCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_flow_results_total",
			Help: "AI flow results by flow and outcome (primary, degraded, failed)",
		},
		[]string{"flow", "outcome"},
	)

	aiFlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_flow_duration_seconds",
			Help:    "Hosted model call duration per flow",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"flow"},
	)

	emergenciesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_emergencies_total",
			Help: "Emergency classifications by category and decision source",
		},
		[]string{"category", "source"},
	)

	speechSynthesis = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speech_synthesis_total",
			Help: "Text-to-speech requests by status",
		},
		[]string{"status"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE responses streaming through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// routePattern prefers the chi route template to keep label cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// RecordFlow records the outcome of one assistant flow invocation.
func RecordFlow(flow, outcome string) {
	aiFlowCalls.WithLabelValues(flow, outcome).Inc()
}

// ObserveModelCall records the latency of a hosted model call.
func ObserveModelCall(flow string, duration time.Duration) {
	aiFlowDuration.WithLabelValues(flow).Observe(duration.Seconds())
}

// RecordEmergency records a positive triage decision.
func RecordEmergency(category, source string) {
	emergenciesDetected.WithLabelValues(category, source).Inc()
}

// RecordSpeech records a TTS attempt.
func RecordSpeech(ok bool) {
	status := "error"
	if ok {
		status = "ok"
	}
	speechSynthesis.WithLabelValues(status).Inc()
}
