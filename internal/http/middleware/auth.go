package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"leavedocs/internal/auth"
)

const (
	// UserIDLocalKey holds the authenticated user id.
	UserIDLocalKey = "user_id"
	// RoleLocalKey holds the authenticated user's role.
	RoleLocalKey = "user_role"
)

// Authenticate requires a valid "Authorization: Bearer <jwt>" header and
// stores the caller's user id and role in locals.
func Authenticate(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token), secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(UserIDLocalKey, claims.UserID)
		c.Locals(RoleLocalKey, claims.Role)
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not in roles. It must run after Authenticate.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(RoleLocalKey).(string)
		if !slices.Contains(roles, role) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}
