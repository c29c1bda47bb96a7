package dto

import (
	"time"

	"github.com/noah-isme/centerkech-api/internal/models"
)

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned after a successful login. The token is also set as a cookie.
type LoginResult struct {
	User      models.UserInfo `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// SetupRequest bootstraps the first administrator.
type SetupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// CreateUserRequest is used by administrators to add accounts.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
}

// UserEnvelope wraps a single user projection.
type UserEnvelope struct {
	User models.UserInfo `json:"user"`
}
