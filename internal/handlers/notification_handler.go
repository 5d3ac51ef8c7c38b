package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/repository"
)

type NotificationHandler struct {
	tokenRepo *repository.DeviceTokenRepository
}

func NewNotificationHandler(tokenRepo *repository.DeviceTokenRepository) *NotificationHandler {
	return &NotificationHandler{tokenRepo: tokenRepo}
}

type deviceTokenRequest struct {
	Token string `json:"token"`
}

func (h *NotificationHandler) RegisterToken(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req deviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token must not be empty"})
	}

	deviceToken, err := h.tokenRepo.Upsert(c.Context(), userID, req.Token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register device token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"device_token": deviceToken})
}

func (h *NotificationHandler) UnregisterToken(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req deviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token must not be empty"})
	}

	if err := h.tokenRepo.Delete(c.Context(), userID, req.Token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove device token"})
	}

	return c.JSON(fiber.Map{"message": "Device token removed"})
}
