package routes

import (
	"naform.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerWebhookRoutes yönetici webhook testi ucunu tanımlar.
// Keyfi adrese POST attırabildiği için her zaman kimlik kapısının arkasındadır.
func registerWebhookRoutes(app *fiber.App, h *Handlers) {
	app.Post("/api/webhook/test", middlewares.AuthMiddleware(h.AuthService), h.Webhook.Test)
}
