// Package memory keeps users and emotion logs in process. It backs DATABASE_DRIVER=memory and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/model"
)

var (
	_ model.UserStore       = (*UserRepository)(nil)
	_ model.EmotionLogStore = (*EmotionLogRepository)(nil)
)

// UserRepository stores users keyed by id with a case-insensitive email index.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return model.User{}, model.ErrAlreadyExists
	}
	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, model.ErrAlreadyExists
	}

	r.byID[user.ID] = user
	r.byEmail[email] = user.ID
	return user, nil
}

type logKey struct {
	userID uuid.UUID
	date   string
}

// EmotionLogRepository stores one entry per (user, date). Ids are assigned from a sequence and an
// overwrite keeps the id of the entry it replaces.
type EmotionLogRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[logKey]model.EmotionLog
}

func NewEmotionLogRepository() *EmotionLogRepository {
	return &EmotionLogRepository{entries: make(map[logKey]model.EmotionLog)}
}

func (r *EmotionLogRepository) Upsert(_ context.Context, entry model.EmotionLog) (model.EmotionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := logKey{userID: entry.UserID, date: entry.LogDate.String()}
	if existing, ok := r.entries[key]; ok {
		entry.ID = existing.ID
	} else {
		r.nextID++
		entry.ID = r.nextID
	}
	if entry.Memo != nil {
		memo := *entry.Memo
		entry.Memo = &memo
	}

	r.entries[key] = entry
	return entry, nil
}

func (r *EmotionLogRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.EmotionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]model.EmotionLog, 0)
	for key, entry := range r.entries {
		if key.userID == userID {
			logs = append(logs, entry)
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].LogDate.Equal(logs[j].LogDate.Time) {
			return logs[i].LogDate.After(logs[j].LogDate.Time)
		}
		return logs[i].ID > logs[j].ID
	})
	return logs, nil
}
