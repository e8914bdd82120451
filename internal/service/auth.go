package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
	"github.com/dtroode/emotion-log/internal/model"
)

// Auth registers users, checks their passwords and issues access tokens.
type Auth struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	hashCost     int
	logger       *logger.Logger

	// dummyHash is compared against when the email is unknown so both paths cost the same.
	dummyHash []byte
}

// NewAuth creates the auth service. hashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
func NewAuth(
	userStore model.UserStore,
	tokenManager model.TokenManager,
	hashCost int,
	logger *logger.Logger,
) (*Auth, error) {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("emotion-log-dummy-password"), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &Auth{
		userStore:    userStore,
		tokenManager: tokenManager,
		hashCost:     hashCost,
		logger:       logger,
		dummyHash:    dummy,
	}, nil
}

// SignUp creates an account. The email must not be registered yet.
func (a *Auth) SignUp(ctx context.Context, req model.SignUpRequest) (model.Profile, error) {
	email := normalizeEmail(req.Email)
	a.logger.Debug("Auth service: starting sign up", "email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.Profile{}, apierrors.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.hashCost)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			a.logger.Info("Auth service: user already exists", "email", email)
			return model.Profile{}, apierrors.NewErrEmailIsTaken(email)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Profile{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"email", email,
		"user_id", user.ID)

	return user.Profile(), nil
}

// Login returns a fresh access token for valid credentials.
// An unknown email and a wrong password produce the same error.
func (a *Auth) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	email := normalizeEmail(req.Email)
	a.logger.Debug("Auth service: starting login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user by email",
				"email", email,
				"error", err.Error())
			return "", fmt.Errorf("failed to get user by email: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(req.Password))
		a.logger.Info("Auth service: login rejected", "email", email)
		return "", apierrors.NewErrInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		a.logger.Info("Auth service: login rejected", "email", email)
		return "", apierrors.NewErrInvalidCredentials()
	}

	token, err := a.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token",
			"user_id", user.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)
	return token, nil
}

// Profile returns the public view of the user. A token whose user no longer exists is unauthorized.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Profile{}, apierrors.NewErrInvalidAuthorizationToken()
		}
		return model.Profile{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Profile(), nil
}

// GetUserID resolves an access token to its user.
func (a *Auth) GetUserID(token string) (uuid.UUID, error) {
	userID, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		a.logger.Debug("Auth service: rejected access token", "error", err.Error())
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
