package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "milkcart/internal/log"
	"milkcart/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// RequireAuth resolves the bearer token to a typed identity once per
// request and stores it in Locals for handlers downstream.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		u, err := auth.ResolveSession(tok)
		if err != nil {
			applog.Security(c, "auth.token.reject", nil)
			return fail(c, "auth.token.reject", err)
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}

// RequireAdmin stacks on RequireAuth and enforces the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return fail(c, "access.denied.admin", services.ErrPermissionDenied)
		}
		return c.Next()
	}
}
