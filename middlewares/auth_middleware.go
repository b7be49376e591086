package middlewares

import (
	"strings"

	"naform.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware korumalı rotalar için bearer token kapısı üretir.
// İmza anahtarı yapılandırılmamışsa kapı tamamen açıktır (geliştirme modu).
func AuthMiddleware(auth services.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.Enabled() {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authentication required",
			})
		}

		username, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		c.Locals("username", username)
		return c.Next()
	}
}
