package handlers

import (
	"naform.link/configs/configslog"
	"naform.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler webhook test ucu için handler. Gönderim sırasındaki webhook
// çağrılarının aksine bu yolun sonucu çağırana senkron döner.
type WebhookHandler struct {
	service services.IWebhookService
}

// NewWebhookHandler yeni bir WebhookHandler örneği oluşturur (DI ile).
func NewWebhookHandler(service services.IWebhookService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

type webhookTestRequest struct {
	WebhookURL string                 `json:"webhookUrl"`
	TestData   map[string]interface{} `json:"testData"`
}

// Test verilen adrese örnek bir zarf gönderir ve uzak durum kodunu raporlar.
func (h *WebhookHandler) Test(c *fiber.Ctx) error {
	var req webhookTestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	status, err := h.service.Test(c.UserContext(), req.WebhookURL, req.TestData)
	if err != nil {
		configslog.SLog.Warnf("Webhook testi başarısız: url=%s (%v)", req.WebhookURL, err)
		resp := fiber.Map{"success": false, "error": err.Error()}
		if status != 0 {
			resp["status"] = status
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	configslog.Log.Info("Webhook testi başarılı", zap.String("url", req.WebhookURL), zap.Int("status", status))
	return c.JSON(fiber.Map{
		"success": true,
		"status":  status,
		"message": "Webhook test successful",
	})
}
