package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// AuthRoleAny admits any authenticated user regardless of role.
const AuthRoleAny = "any"

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a single handler with authentication/authorization guards,
// for routes that do not share a group-level guard.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if requireUser && userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if role == AuthRoleAny {
			if !requireUser || userID != nil {
				return handler(c)
			}
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		currentRole := normalizeRoleValue(c.Locals("user_role"))
		if currentRole != role {
			// Superusers clear admin checks.
			if !(role == string(models.RoleAdmin) && currentRole == string(models.RoleSuperuser)) {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		return handler(c)
	}
}
