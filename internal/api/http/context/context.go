package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/model"
)

type ctxKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated user ID in request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
//
// Parameters:
//   - ctx: The request context
//   - userID: The authenticated user
//
// Returns a new context with the user ID attached.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserIDFromContext retrieves the user ID set by SetUserIDToContext.
//
// Parameters:
//   - ctx: The request context
//
// Returns the user UUID and a boolean indicating if a non-nil user ID was found.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
