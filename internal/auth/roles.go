package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// RequireRole ensures the caller is authenticated and holds one of the
// allowed roles. Route-level guards only gate access to endpoints; which
// transitions a role may perform is decided inside the lifecycle engine.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
