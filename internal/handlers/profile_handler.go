package handlers

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/services"
)

type profileApplicationService interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, userID int64, displayName string) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, filename string) (*models.Profile, error)
}

type ProfileHandler struct {
	profileService profileApplicationService
}

func NewProfileHandler(profileService profileApplicationService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateDisplayName(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.profileService.UpdateDisplayName(c.Context(), userID, req.DisplayName)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read avatar file"})
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(c.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"error": "Avatar storage is not configured"})
		}
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"profile": profile})
}
