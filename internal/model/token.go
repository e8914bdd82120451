package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrTokenExpired is returned by ParseAccessToken for a well-formed token past its expiry.
var ErrTokenExpired = errors.New("access token expired")

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}
