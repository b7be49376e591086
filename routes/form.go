package routes

import (
	"naform.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerFormRoutes /api/forms altındaki rotaları tanımlar.
// Yönetici işlemleri bearer token kapısının arkasındadır; public servis
// (slug ile okuma, gönderim) ve kimlikle okuma açıktır.
func registerFormRoutes(app *fiber.App, h *Handlers) {
	authGate := middlewares.AuthMiddleware(h.AuthService)

	formGroup := app.Group("/api/forms")

	// Sabit yollar parametreli yollardan önce kaydedilmeli.
	formGroup.Get("/", authGate, h.Form.ListForms)                // GET  /api/forms
	formGroup.Post("/generate", authGate, h.Form.GenerateForm)    // POST /api/forms/generate
	formGroup.Get("/slug/:slug", h.Form.GetFormBySlug)            // GET  /api/forms/slug/{slug}

	formGroup.Get("/:formId", h.Form.GetForm)                     // GET  /api/forms/{id}
	formGroup.Get("/:formId/definition", h.Form.GetForm)          // GET  /api/forms/{id}/definition
	formGroup.Patch("/:formId", authGate, h.Form.UpdateForm)      // PATCH /api/forms/{id}
	formGroup.Post("/:formId/archive", authGate, h.Form.ToggleArchive) // POST /api/forms/{id}/archive

	formGroup.Post("/:formId/submit", h.Submission.Submit)                          // POST /api/forms/{id}/submit
	formGroup.Get("/:formId/submissions", authGate, h.Submission.GetSubmissions)    // GET  /api/forms/{id}/submissions
	formGroup.Get("/:formId/submissions/csv", authGate, h.Submission.DownloadCSV)   // GET  /api/forms/{id}/submissions/csv
}
