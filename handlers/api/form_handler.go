package handlers // handlers/api paketi

import (
	"errors"

	"naform.link/configs"
	"naform.link/configs/configslog"
	"naform.link/models"
	"naform.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormHandler form yönetimi uç noktaları için handler.
type FormHandler struct {
	cfg     *configs.Config
	service services.IFormService
}

// NewFormHandler yeni bir FormHandler örneği oluşturur (DI ile).
func NewFormHandler(cfg *configs.Config, service services.IFormService) *FormHandler {
	return &FormHandler{cfg: cfg, service: service}
}

// ListForms tüm formları gönderim sayılarıyla listeler (yönetici görünümü).
// Bozuk dosyalar sessizce atlanır; liste en yeniden eskiye sıralıdır.
func (h *FormHandler) ListForms(c *fiber.Ctx) error {
	forms, err := h.service.ListForms(c.UserContext())
	if err != nil {
		configslog.Log.Error("ListForms hatası", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to list forms",
		})
	}
	return c.JSON(fiber.Map{"success": true, "forms": forms})
}

// generateRequest form üretim isteğinin gövdesi.
type generateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhookUrl"`
}

// GenerateForm dış üreticiden şema alıp yeni bir form oluşturur.
func (h *FormHandler) GenerateForm(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.Name == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Form name and description are required",
		})
	}

	cfg, err := h.service.CreateFromPrompt(c.UserContext(), req.Name, req.Description, req.WebhookURL)
	if err != nil {
		return h.generateError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"formId":         cfg.ID,
		"formName":       cfg.Name,
		"formDefinition": cfg.FormDefinition,
		"message":        "Form generated successfully",
		"config":         cfg,
	})
}

// generateError üretim hatalarını çağırana güvenli mesajlara çevirir.
// Ham upstream hata metni sadece geliştirme modunda sızar.
func (h *FormHandler) generateError(c *fiber.Ctx, err error) error {
	configslog.Log.Error("Form üretim hatası", zap.Error(err))

	status := fiber.StatusInternalServerError
	message := "Failed to generate form"

	switch {
	case errors.Is(err, services.ErrGeneratorUnavailable):
		status = fiber.StatusServiceUnavailable
		message = "Form generation is currently unavailable. Generator API key is not configured."
	case errors.Is(err, services.ErrGeneratorBadJSON), errors.Is(err, services.ErrGeneratorIncomplete):
		message = "AI generated invalid form structure"
	case errors.Is(err, services.ErrFormNameRequired), errors.Is(err, services.ErrFormInvalidInput):
		status = fiber.StatusBadRequest
		message = err.Error()
	}

	resp := fiber.Map{"success": false, "error": message}
	if h.cfg.IsDevelopment() {
		resp["details"] = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// GetForm kimliğe göre tek formu yapılandırması ve tanımıyla döner.
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	cfg, err := h.service.GetForm(c.UserContext(), c.Params("formId"))
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Form not found",
			})
		}
		configslog.Log.Error("GetForm hatası", zap.String("id", c.Params("formId")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read form",
		})
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"formConfig":     cfg,
		"formDefinition": cfg.FormDefinition,
	})
}

// GetFormBySlug public servis ucu: slug eşleşen formu sadece herkese açıksa döner.
// Arşivlenmiş formlar isPublic bayrağından bağımsız olarak 403 alır.
func (h *FormHandler) GetFormBySlug(c *fiber.Ctx) error {
	cfg, err := h.service.GetFormBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFormNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Form not found",
			})
		case errors.Is(err, services.ErrFormNotPublic):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Form is not publicly accessible",
			})
		}
		configslog.Log.Error("GetFormBySlug hatası", zap.String("slug", c.Params("slug")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Error reading forms directory",
		})
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"formConfig":     cfg,
		"formDefinition": cfg.FormDefinition,
	})
}

// UpdateForm kısmi güncelleme (PATCH) uygular. Durum enum'u burada, HTTP
// sınırında doğrulanır; durum makinesi geçersiz değer görmez.
func (h *FormHandler) UpdateForm(c *fiber.Ctx) error {
	var upd models.FormUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if upd.Status != nil && !models.FormStatus(*upd.Status).IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid status value, must be one of: Internal, Public, Archived",
		})
	}

	cfg, err := h.service.UpdateForm(c.UserContext(), c.Params("formId"), &upd)
	if err != nil {
		return h.updateError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Form updated successfully",
		"formConfig": cfg,
	})
}

// ToggleArchive yönetici arşiv aksiyonu: Archived <-> Internal.
func (h *FormHandler) ToggleArchive(c *fiber.Ctx) error {
	cfg, err := h.service.ToggleArchive(c.UserContext(), c.Params("formId"))
	if err != nil {
		return h.updateError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "formConfig": cfg})
}

func (h *FormHandler) updateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrFormNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Form not found",
		})
	case errors.Is(err, services.ErrFormSlugInvalid),
		errors.Is(err, services.ErrFormSlugTaken),
		errors.Is(err, services.ErrFormInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	configslog.Log.Error("UpdateForm hatası", zap.String("id", c.Params("formId")), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Failed to update form",
	})
}
