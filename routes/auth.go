package routes

import (
	"naform.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, h *Handlers) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/login", h.Auth.Login)
	authGroup.Get("/validate", middlewares.AuthMiddleware(h.AuthService), h.Auth.Validate)
}
