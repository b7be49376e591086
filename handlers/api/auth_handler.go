package handlers

import (
	"errors"

	"naform.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler tek statik yönetici kimliği için giriş/doğrulama uçları.
type AuthHandler struct {
	service services.IAuthService
}

// NewAuthHandler yeni bir AuthHandler örneği oluşturur (DI ile).
func NewAuthHandler(service services.IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login kimlik bilgilerini doğrular ve bearer token üretir.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Authentication is not configured on this server",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid username or password",
		})
	}

	return c.JSON(fiber.Map{"success": true, "token": token})
}

// Validate korumalı rotadan geçen tokenın hâlâ geçerli olduğunu onaylar.
// Pano açılışta kaydedilmiş tokenı bu uçla sınar.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	resp := fiber.Map{"success": true}
	if username, ok := c.Locals("username").(string); ok {
		resp["username"] = username
	}
	return c.JSON(resp)
}
