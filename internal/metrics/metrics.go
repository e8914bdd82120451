// Package metrics exposes Prometheus instrumentation for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emotionlog_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emotionlog_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emotionlog_auth_attempts_total",
		Help: "Sign up and login attempts by outcome.",
	}, []string{"operation", "outcome"})

	entriesSavedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emotionlog_entries_saved_total",
		Help: "Emotion log entries saved, by level.",
	}, []string{"level"})
)

// Middleware records request count and latency labelled by chi route pattern.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			// The pattern is only complete once routing finished.
			route := routePattern(r)

			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAuth counts an auth attempt, e.g. RecordAuth("login", "invalid_credentials").
func RecordAuth(operation, outcome string) {
	authAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordEntrySaved counts a saved entry.
func RecordEntrySaved(level string) {
	entriesSavedTotal.WithLabelValues(level).Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
