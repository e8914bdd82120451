package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// ExportService writes and reads backups in object storage.
type ExportService interface {
	Create(ctx context.Context, ownerID uuid.UUID) (model.ExportResult, error)
	Open(ctx context.Context, ownerID uuid.UUID, key string) (io.ReadCloser, error)
}

// Export handles the /exports endpoints. A nil service means exports are disabled.
type Export struct {
	service        ExportService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewExport creates a new Export handler.
func NewExport(service ExportService, contextManager model.ContextManager, logger *logger.Logger) *Export {
	return &Export{service: service, contextManager: contextManager, logger: logger}
}

// Create handles POST /exports.
func (h *Export) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Create(r.Context(), userID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// Download handles GET /exports/*. The path after /api is the key returned by Create.
func (h *Export) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	rc, err := h.service.Open(r.Context(), userID, "exports/"+chi.URLParam(r, "*"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Export handler: download interrupted", "user_id", userID, "error", err.Error())
	}
}

func (h *Export) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if h.service == nil {
		response.Error(w, h.logger, apierrors.NewErrNotFound("exports are not enabled"))
		return uuid.Nil, false
	}

	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return uuid.Nil, false
	}
	return userID, true
}
