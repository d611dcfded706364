package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the
// allowed roles. A superuser passes any admin check.
func RequireRole(roles ...models.Role) fiber.Handler {
	check := roleChecker(roles)

	return func(c *fiber.Ctx) error {
		if !check(c) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireRoleOrRedirect guards browser-facing routes: a caller without one of
// the allowed roles is sent to the login page instead of getting a JSON 403.
func RequireRoleOrRedirect(target string, roles ...models.Role) fiber.Handler {
	check := roleChecker(roles)

	return func(c *fiber.Ctx) error {
		if !check(c) {
			return c.Redirect(target, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func roleChecker(roles []models.Role) func(*fiber.Ctx) bool {
	allowed := make(map[string]struct{}, len(roles))
	admitSuperuser := false
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
		if role == models.RoleAdmin {
			admitSuperuser = true
		}
	}

	return func(c *fiber.Ctx) bool {
		role := normalizeRoleValue(c.Locals("user_role"))
		if _, ok := allowed[role]; ok {
			return true
		}
		return admitSuperuser && role == string(models.RoleSuperuser)
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
