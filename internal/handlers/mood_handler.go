package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
)

type moodApplicationService interface {
	SetMood(ctx context.Context, userID int64, date string, mood int, notes *string, tags []string) (*models.MoodEntry, error)
	GetMoodForDate(ctx context.Context, userID int64, date string) (*models.MoodEntry, error)
	GetTodayMood(ctx context.Context, userID int64) (*models.MoodEntry, error)
	GetAverageMood(ctx context.Context, userID int64, windowDays int) (*float64, error)
	WeekMoodSeries(ctx context.Context, userID int64) ([]models.DailyMood, error)
	MonthMoodSeries(ctx context.Context, userID int64) ([]models.DailyMood, error)
}

type MoodHandler struct {
	moodService moodApplicationService
}

func NewMoodHandler(moodService moodApplicationService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

type setMoodRequest struct {
	Date  string   `json:"date"`
	Mood  int      `json:"mood"`
	Notes *string  `json:"notes"`
	Tags  []string `json:"tags"`
}

func (h *MoodHandler) Set(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req setMoodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entry, err := h.moodService.SetMood(c.Context(), userID, req.Date, req.Mood, req.Notes, req.Tags)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"mood": entry})
}

func (h *MoodHandler) GetByDate(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entry, err := h.moodService.GetMoodForDate(c.Context(), userID, c.Params("date"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"mood": entry})
}

func (h *MoodHandler) GetToday(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entry, err := h.moodService.GetTodayMood(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"mood": entry})
}

func (h *MoodHandler) Average(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	windowDays := parsePositiveInt(c.Query("days"), 7)
	average, err := h.moodService.GetAverageMood(c.Context(), userID, windowDays)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"average": average,
		"days":    windowDays,
	})
}

func (h *MoodHandler) WeekSeries(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	series, err := h.moodService.WeekMoodSeries(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"series": series})
}

func (h *MoodHandler) MonthSeries(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	series, err := h.moodService.MonthMoodSeries(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"series": series})
}
