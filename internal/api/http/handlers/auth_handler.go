package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-case-service/internal/api/dto"
	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/service"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// AuthHandler exposes login and identity endpoints for clients and
// admins alike.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        account.Role,
		UserID:      account.ID,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	account := principal.Account
	return c.JSON(dto.AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Role:      account.Role,
		ClientID:  account.CaseID,
		IsActive:  account.Active,
		CreatedAt: account.CreatedAt,
	})
}
