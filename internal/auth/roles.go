package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-case-service/internal/domain"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// RequireRole ensures the authenticated principal carries one of the
// allowed roles. Authentication itself is handled by AuthMiddleware;
// a missing principal here means the route was wired without it.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Account == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Account.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireClient ensures a client-role principal.
func RequireClient() fiber.Handler {
	return RequireRole(domain.RoleClient)
}

// RequireAdmin ensures an admin-role principal.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
