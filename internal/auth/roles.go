package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireVolunteer ensures any authenticated account. Every protected
// route goes through this or RequireAdmin, never ad-hoc role checks in
// handlers.
func RequireVolunteer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds the admin capability.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !principal.User.IsAdmin() {
			return fiber.NewError(http.StatusForbidden, "admin required")
		}
		return c.Next()
	}
}
