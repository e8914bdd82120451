package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/emotion-log/internal/model"
)

// Claims carries the subject user of an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT issues and verifies HS256 access tokens.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

const issuer = "emotion-log"

// NewJWT creates a token manager. Tokens expire ttl after issue.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// GenerateAccessToken signs a token for userID.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken verifies tokenString and returns its user.
// Expired tokens yield an error wrapping model.ErrTokenExpired.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("failed to parse access token: %w", model.ErrTokenExpired)
		}
		return uuid.Nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("access token is invalid")
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("access token has no user")
	}
	return claims.UserID, nil
}
