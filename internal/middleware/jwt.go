package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/learnhub-io/learnhub-api/internal/utils"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// rejects unauthenticated calls with a JSON 401.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authenticate(c, secret) {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// LoginRequired guards browser-facing routes. Unauthenticated requests are
// redirected to the login page with 303 See Other instead of a JSON error.
func LoginRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authenticate(c, secret) {
			return c.Redirect("/login/", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// OptionalJWT resolves the caller's identity when a token is present but
// never rejects the request.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authenticate(c, secret)
		return c.Next()
	}
}

// authenticate parses the bearer token and, on success, stores user_id and
// user_role locals. Returns false when no valid token is present.
func authenticate(c *fiber.Ctx, secret string) bool {
	authorization := c.Get("Authorization")
	if authorization == "" {
		return false
	}

	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return false
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	userID := extractUserIDFromClaims(claims)
	if userID == nil {
		return false
	}
	c.Locals("user_id", *userID)
	if role := extractUserRoleFromClaims(claims); role != "" {
		c.Locals("user_role", role)
	}

	return true
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractUserRoleFromClaims(claims jwt.MapClaims) string {
	candidates := []string{"role", "roles"}
	for _, key := range candidates {
		if value, ok := claims[key]; ok {
			if role := normalizeRole(value); role != "" {
				return role
			}
		}
	}
	return ""
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				role := strings.ToLower(strings.TrimSpace(str))
				if role != "" {
					return role
				}
			}
		}
	default:
		return ""
	}
	return ""
}
