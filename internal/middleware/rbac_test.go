package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func roleApp(role string, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(guard)
	app.Get("/admin", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRoles(t *testing.T) {
	app := roleApp("admin", RequireRole(models.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleAdmitsSuperuserOnAdminChecks(t *testing.T) {
	app := roleApp("superuser", RequireRole(models.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsUnauthorizedRoles(t *testing.T) {
	app := roleApp("user", RequireRole(models.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleSuperuserOnlyRejectsAdmins(t *testing.T) {
	app := roleApp("admin", RequireRole(models.RoleSuperuser))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleOrRedirectSendsFailuresToLogin(t *testing.T) {
	app := roleApp("user", RequireRoleOrRedirect("/login/", models.RoleSuperuser))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login/", resp.Header.Get("Location"))
}

func TestRequireRoleOrRedirectPassesAllowedRoles(t *testing.T) {
	app := roleApp("superuser", RequireRoleOrRedirect("/login/", models.RoleSuperuser))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	app := roleApp("", RequireRole(models.RoleAdmin))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
