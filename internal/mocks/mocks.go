// Package mocks contains testify mocks of the model interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/emotion-log/internal/model"
)

var (
	_ model.UserStore       = (*UserStore)(nil)
	_ model.EmotionLogStore = (*EmotionLogStore)(nil)
	_ model.TokenManager    = (*TokenManager)(nil)
	_ model.Storage         = (*Storage)(nil)
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

type EmotionLogStore struct {
	mock.Mock
}

func (m *EmotionLogStore) Upsert(ctx context.Context, entry model.EmotionLog) (model.EmotionLog, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(model.EmotionLog), args.Error(1)
}

func (m *EmotionLogStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.EmotionLog, error) {
	args := m.Called(ctx, userID)
	logs, _ := args.Get(0).([]model.EmotionLog)
	return logs, args.Error(1)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type Storage struct {
	mock.Mock
}

func (m *Storage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}
