package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/metrics"
	"github.com/dtroode/emotion-log/internal/model"
)

// EmotionLogService defines per-user entry operations.
type EmotionLogService interface {
	Save(ctx context.Context, ownerID uuid.UUID, req model.SaveLogRequest) (model.SaveLogResult, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.EmotionLog, error)
}

// EmotionLog handles the /logs endpoints.
type EmotionLog struct {
	service        EmotionLogService
	validator      Validator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewEmotionLog creates a new EmotionLog handler.
func NewEmotionLog(service EmotionLogService, validator Validator, contextManager model.ContextManager, logger *logger.Logger) *EmotionLog {
	return &EmotionLog{
		service:        service,
		validator:      validator,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Save handles POST /logs. An entry for an existing date replaces it.
func (h *EmotionLog) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req model.SaveLogRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	result, err := h.service.Save(r.Context(), userID, req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	metrics.RecordEntrySaved(string(req.EmotionLevel))
	response.JSON(w, http.StatusOK, result)
}

// List handles GET /logs.
func (h *EmotionLog) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	logs, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, logs)
}
