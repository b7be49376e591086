package handlers

import (
	"time"

	"naform.link/models"

	"github.com/gofiber/fiber/v2"
)

// Health canlılık probu.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"server":    models.SubmissionSource + " API",
	})
}
