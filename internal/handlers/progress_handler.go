package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
)

type progressApplicationService interface {
	GetDailyProgress(ctx context.Context, userID int64, date string) (*models.DailyProgress, error)
	GetWeekProgress(ctx context.Context, userID int64, date string) ([]models.DailyProgress, error)
	GetMonthProgress(ctx context.Context, userID int64, date string) ([]models.DailyProgress, error)
	GetMonthlyReport(ctx context.Context, userID int64) (*models.MonthlyReport, error)
}

type ProgressHandler struct {
	progressService progressApplicationService
}

func NewProgressHandler(progressService progressApplicationService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Daily(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	progress, err := h.progressService.GetDailyProgress(c.Context(), userID, c.Params("date"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"progress": progress})
}

func (h *ProgressHandler) Week(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	days, err := h.progressService.GetWeekProgress(c.Context(), userID, c.Query("date"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"days": days})
}

func (h *ProgressHandler) Month(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	days, err := h.progressService.GetMonthProgress(c.Context(), userID, c.Query("date"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"days": days})
}

func (h *ProgressHandler) MonthlyReport(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	report, err := h.progressService.GetMonthlyReport(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"report": report})
}
