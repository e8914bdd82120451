package transport

import (
	"net/http"
	"time"

	"github.com/dtroode/emotion-log/internal/logger"
)

// Logging logs every request with its status and duration.
func Logging(logger *logger.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)
			if err != nil {
				logger.Warn("HTTP request failed",
					"method", req.Method,
					"path", req.URL.Path,
					"duration", time.Since(start),
					"error", err)
				return resp, err
			}

			logger.Debug("HTTP request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"status", resp.StatusCode,
				"duration", time.Since(start))

			return resp, nil
		})
	}
}
