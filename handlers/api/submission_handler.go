package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"naform.link/configs/configslog"
	"naform.link/pkg/slugify"
	"naform.link/repositories"
	"naform.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmissionHandler gönderim uç noktaları için handler.
// CSV okumaları servis katmanına iş kuralı eklemediğinden depoya doğrudan iner.
type SubmissionHandler struct {
	service     services.ISubmissionService
	submissions repositories.ISubmissionRepository
}

// NewSubmissionHandler yeni bir SubmissionHandler örneği oluşturur (DI ile).
func NewSubmissionHandler(service services.ISubmissionService, submissions repositories.ISubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{service: service, submissions: submissions}
}

// bodyControlFields istek gövdesinde taşınsa bile kayda geçmeyen alanlar.
// Pano istemcisi form tanımını ve webhook adresini gövdeye ekleyebilir;
// webhook adresi her durumda saklanan yapılandırmadan okunur, gövdeden asla.
var bodyControlFields = []string{"formDefinition", "webhookUrl", "formId"}

// Submit tek bir form gönderimini kabul eder: alanları CSV'ye ekler, dosyaları
// kaydeder, webhook'u ayrık görevde tetikler. Kayıt denendiği anda yanıt
// başarılıdır; iç kayıt hataları yanıtı değiştirmez.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	formID := c.Params("formId")
	if !slugify.IsValid(formID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Form not found",
		})
	}

	fields := map[string]interface{}{}
	var files map[string][]*multipart.FileHeader

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, values := range form.Value {
			if isControlField(key) {
				continue
			}
			if len(values) == 1 {
				fields[key] = values[0]
			} else {
				fields[key] = values
			}
		}
		files = form.File
	} else {
		var raw map[string]interface{}
		if err := c.BodyParser(&raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid request body",
			})
		}
		for key, value := range raw {
			if isControlField(key) {
				continue
			}
			fields[key] = value
		}
	}

	result, err := h.service.Submit(c.UserContext(), formID, fields, files)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionFormNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Form not found",
			})
		}
		configslog.Log.Error("Submit hatası", zap.String("formId", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Form submission failed",
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Form submitted successfully",
		"submissionId":  result.SubmissionID,
		"filesUploaded": result.FilesUploaded,
	})
}

// GetSubmissions formun gönderim özetini döner (toplam sayı ve son satır).
func (h *SubmissionHandler) GetSubmissions(c *fiber.Ctx) error {
	formID := c.Params("formId")
	if !slugify.IsValid(formID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Form not found",
		})
	}

	count, err := h.submissions.CountRows(c.UserContext(), formID)
	if err != nil {
		configslog.Log.Error("GetSubmissions hatası", zap.String("formId", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read submissions",
		})
	}
	if count == 0 {
		return c.JSON(fiber.Map{
			"success":          true,
			"totalSubmissions": 0,
			"message":          "No submissions yet",
		})
	}

	last, err := h.submissions.LastRow(c.UserContext(), formID)
	if err != nil {
		last = ""
	}
	return c.JSON(fiber.Map{
		"success":          true,
		"totalSubmissions": count,
		"lastSubmission":   last,
	})
}

// DownloadCSV ham CSV dosyasını indirme olarak döner; hiç gönderim yoksa 404.
func (h *SubmissionHandler) DownloadCSV(c *fiber.Ctx) error {
	formID := c.Params("formId")
	if !slugify.IsValid(formID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No responses found for this form",
		})
	}

	data, err := h.submissions.ReadCSV(c.UserContext(), formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "No responses found for this form",
			})
		}
		configslog.Log.Error("DownloadCSV hatası", zap.String("formId", formID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read responses",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", formID+"-responses.csv"))
	return c.Send(data)
}

func isControlField(key string) bool {
	for _, f := range bodyControlFields {
		if key == f {
			return true
		}
	}
	return false
}
