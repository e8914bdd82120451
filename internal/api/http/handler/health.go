package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// Health handles GET /health.
type Health struct {
	db     Pinger
	logger *logger.Logger
}

// NewHealth creates a health handler. db may be nil for the in-memory driver.
func NewHealth(db Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger}
}

func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Error("Health handler: database unreachable", "error", err.Error())
			response.JSON(w, http.StatusServiceUnavailable, HealthStatus{Status: "unavailable"})
			return
		}
	}
	response.JSON(w, http.StatusOK, HealthStatus{Status: "ok"})
}
