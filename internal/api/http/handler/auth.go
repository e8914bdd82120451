package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/metrics"
	"github.com/dtroode/emotion-log/internal/model"
)

// AuthService defines user registration, login and profile operations.
type AuthService interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (model.Profile, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
	Profile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
}

// Auth handles the account endpoints.
type Auth struct {
	authService    AuthService
	validator      Validator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, validator Validator, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		validator:      validator,
		contextManager: contextManager,
		logger:         logger,
	}
}

// SignUp handles POST /signup and responds 201 with the new profile.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		metrics.RecordAuth("signup", string(apierrors.KindOf(err)))
		response.Error(w, h.logger, err)
		return
	}

	profile, err := h.authService.SignUp(r.Context(), req)
	if err != nil {
		metrics.RecordAuth("signup", string(apierrors.KindOf(err)))
		h.logger.Debug("Auth handler: sign up failed", "error", err.Error())
		response.Error(w, h.logger, err)
		return
	}

	metrics.RecordAuth("signup", "success")
	h.logger.Info("Auth handler: sign up completed", "user_id", profile.ID)
	response.JSON(w, http.StatusCreated, profile)
}

// Login handles POST /login and responds with an access token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decode(w, r, h.validator, &req); err != nil {
		metrics.RecordAuth("login", string(apierrors.KindOf(err)))
		response.Error(w, h.logger, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		metrics.RecordAuth("login", string(apierrors.KindOf(err)))
		response.Error(w, h.logger, err)
		return
	}

	metrics.RecordAuth("login", "success")
	response.JSON(w, http.StatusOK, model.LoginResponse{Token: token})
}

// Profile handles GET /profile for the authenticated user.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	profile, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, apierrors.ErrUnauthorized) {
			h.logger.Error("Auth handler: profile lookup failed", "user_id", userID, "error", err.Error())
		}
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, profile)
}
