package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager()
	userID := uuid.New()

	got, ok := m.GetUserIDFromContext(m.SetUserIDToContext(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestManager_Missing(t *testing.T) {
	t.Parallel()

	m := NewManager()

	_, ok := m.GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = m.GetUserIDFromContext(m.SetUserIDToContext(context.Background(), uuid.Nil))
	assert.False(t, ok)

	_, ok = m.GetUserIDFromContext(context.WithValue(context.Background(), "user_id", uuid.New()))
	assert.False(t, ok)
}
