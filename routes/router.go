package routes

import (
	"naform.link/configs"
	api_handlers "naform.link/handlers/api" // İsim çakışmasını önlemek için alias
	"naform.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers rota kaydı için gereken handler örnekleri.
// main başlangıçta bir kez kurar ve buraya geçirir.
type Handlers struct {
	Form       *api_handlers.FormHandler
	Submission *api_handlers.SubmissionHandler
	Webhook    *api_handlers.WebhookHandler
	Auth       *api_handlers.AuthHandler

	AuthService services.IAuthService
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, cfg *configs.Config, h *Handlers) {
	// --- Genel Middleware'ler ---
	app.Use(recoverMiddleware.New()) // Panic yakalama
	app.Use(logger.New())            // İstek loglama
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- Canlılık Probu ---
	app.Get("/api/health", api_handlers.Health)

	// --- Rota Grupları ---
	registerAuthRoutes(app, h)
	registerFormRoutes(app, h)
	registerWebhookRoutes(app, h)

	// --- 404 Handler ---
	// En sonda, eşleşmeyen tüm rotaları yakalar.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "Kaynak bulunamadı",
	})
}
