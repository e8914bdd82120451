package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account with its password hash.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile returns the public view of the user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

// Profile is the signed-in user as seen by the client. It is a cache, always refetchable.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SignUpRequest is the body of POST /api/signup.
type SignUpRequest struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}
