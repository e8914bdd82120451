package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/emotion-log/internal/logger"
)

// Logging logs method, path, status and duration of every request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle wraps next with request logging.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			l.logger.Error("HTTP request failed", attrs...)
		case status >= http.StatusBadRequest:
			l.logger.Warn("HTTP request rejected", attrs...)
		default:
			l.logger.Info("HTTP request completed", attrs...)
		}
	})
}
