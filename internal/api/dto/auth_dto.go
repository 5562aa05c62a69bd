package dto

import (
	"time"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Role        domain.Role `json:"role"`
	UserID      string      `json:"user_id"`
}

// AccountResponse describes the caller's account, password hash omitted.
type AccountResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ClientID  *string     `json:"client_id,omitempty"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateInitialAdminRequest payload for the one-time bootstrap.
type CreateInitialAdminRequest struct {
	Password string `json:"password"`
}
