package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid bearer token with 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

		userID, err := m.authenticateUser(tokenString)
		if err != nil {
			response.Error(w, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserIDToContext(r.Context(), userID)))
	})
}

func (m *Authenticate) authenticateUser(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.GetUserID(tokenString)
	if err != nil {
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	if userID == uuid.Nil {
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	return userID, nil
}
