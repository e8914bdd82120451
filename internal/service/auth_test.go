package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/emotion-log/internal/apierrors"
	servermocks "github.com/dtroode/emotion-log/internal/mocks"
	"github.com/dtroode/emotion-log/internal/model"
	"github.com/dtroode/emotion-log/internal/testutil"
)

func newAuth(t *testing.T, users *servermocks.UserStore, tokens *servermocks.TokenManager) *Auth {
	t.Helper()

	a, err := NewAuth(users, tokens, bcrypt.MinCost, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return a
}

func mustHash(t *testing.T, password string) []byte {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func TestAuth_SignUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(*servermocks.UserStore)
		wantKind apierrors.Kind
		wantErr  bool
	}{
		{
			name: "new user",
			setup: func(users *servermocks.UserStore) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound)
				users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
					return u.Email == "a@x.com" && u.Name == "Ann" &&
						bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("12345678")) == nil
				})).Return(model.User{ID: uuid.New(), Email: "a@x.com", Name: "Ann"}, nil)
			},
		},
		{
			name: "existing user",
			setup: func(users *servermocks.UserStore) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{ID: uuid.New()}, nil)
			},
			wantKind: apierrors.KindConflict,
			wantErr:  true,
		},
		{
			name: "lost race on create",
			setup: func(users *servermocks.UserStore) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound)
				users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)
			},
			wantKind: apierrors.KindConflict,
			wantErr:  true,
		},
		{
			name: "store failure",
			setup: func(users *servermocks.UserStore) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, errors.New("db down"))
			},
			wantKind: apierrors.KindInternal,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &servermocks.UserStore{}
			tt.setup(users)

			profile, err := newAuth(t, users, &servermocks.TokenManager{}).SignUp(context.Background(),
				model.SignUpRequest{Name: " Ann ", Email: " A@X.com", Password: "12345678"})

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apierrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", profile.Email)
			users.AssertExpectations(t)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	hash := mustHash(t, "12345678")

	tests := []struct {
		name      string
		password  string
		setup     func(*servermocks.UserStore, *servermocks.TokenManager)
		wantToken string
		wantKind  apierrors.Kind
	}{
		{
			name:     "valid credentials",
			password: "12345678",
			setup: func(users *servermocks.UserStore, tokens *servermocks.TokenManager) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{ID: userID, Email: "a@x.com", PasswordHash: hash}, nil)
				tokens.On("GenerateAccessToken", userID).Return("token", nil)
			},
			wantToken: "token",
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			setup: func(users *servermocks.UserStore, _ *servermocks.TokenManager) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{ID: userID, PasswordHash: hash}, nil)
			},
			wantKind: apierrors.KindInvalidCredentials,
		},
		{
			name:     "unknown email looks the same",
			password: "12345678",
			setup: func(users *servermocks.UserStore, _ *servermocks.TokenManager) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{}, model.ErrNotFound)
			},
			wantKind: apierrors.KindInvalidCredentials,
		},
		{
			name:     "token failure",
			password: "12345678",
			setup: func(users *servermocks.UserStore, tokens *servermocks.TokenManager) {
				users.On("GetByEmail", mock.Anything, "a@x.com").Return(model.User{ID: userID, PasswordHash: hash}, nil)
				tokens.On("GenerateAccessToken", userID).Return("", errors.New("no key"))
			},
			wantKind: apierrors.KindInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &servermocks.UserStore{}
			tokens := &servermocks.TokenManager{}
			tt.setup(users, tokens)

			token, err := newAuth(t, users, tokens).Login(context.Background(),
				model.LoginRequest{Email: "a@x.com", Password: tt.password})

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apierrors.KindOf(err))
				if tt.wantKind == apierrors.KindInvalidCredentials {
					assert.Equal(t, "invalid email or password", err.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuth_Profile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &servermocks.UserStore{}
	users.On("GetByID", mock.Anything, userID).Return(model.User{ID: userID, Email: "a@x.com", Name: "Ann"}, nil)
	users.On("GetByID", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound)

	a := newAuth(t, users, &servermocks.TokenManager{})

	p, err := a.Profile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{ID: userID.String(), Email: "a@x.com", Name: "Ann"}, p)

	_, err = a.Profile(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apierrors.ErrUnauthorized))
}

func TestAuth_GetUserID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tokens := &servermocks.TokenManager{}
	tokens.On("ParseAccessToken", "good").Return(userID, nil)
	tokens.On("ParseAccessToken", "bad").Return(uuid.Nil, model.ErrTokenExpired)

	a := newAuth(t, &servermocks.UserStore{}, tokens)

	got, err := a.GetUserID("good")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = a.GetUserID("bad")
	assert.True(t, errors.Is(err, apierrors.ErrUnauthorized))
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}
