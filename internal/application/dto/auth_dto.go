package dto

import (
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
)

// LoginRequest credentials posted by the login form or an API client.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse bearer token for scripted clients.
type TokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      entity.Identity `json:"user"`
}

// RegisterUserRequest account creation (seed command).
type RegisterUserRequest struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"oneof=admin user"`
}
