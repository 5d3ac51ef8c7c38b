package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/services"
)

type habitApplicationService interface {
	AddHabit(ctx context.Context, userID int64, name, category, frequency string) (*models.Habit, error)
	ListHabits(ctx context.Context, userID int64, category string) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID int64, input services.UpdateHabitInput) (*models.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID int64) error
	ToggleCompletion(ctx context.Context, userID, habitID int64, date string, durationSeconds *int) (*models.HabitCompletion, error)
	IsCompleted(ctx context.Context, userID, habitID int64, date string) (bool, error)
	GetCompletionDuration(ctx context.Context, userID, habitID int64, date string) (*int, error)
	TodayStats(ctx context.Context, userID int64) (*models.TodayStats, error)
}

type HabitHandler struct {
	habitService habitApplicationService
}

func NewHabitHandler(habitService habitApplicationService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

type createHabitRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
}

type updateHabitRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Frequency *string `json:"frequency"`
}

type toggleCompletionRequest struct {
	Date            string `json:"date"`
	DurationSeconds *int   `json:"duration_seconds"`
}

func (h *HabitHandler) Create(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	habit, err := h.habitService.AddHabit(c.Context(), userID, req.Name, req.Category, req.Frequency)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"habit": habit})
}

func (h *HabitHandler) List(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	habits, err := h.habitService.ListHabits(c.Context(), userID, c.Query("category"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"habits": habits})
}

func (h *HabitHandler) Update(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	habitID, err := c.ParamsInt("id")
	if err != nil || habitID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid habit ID"})
	}

	var req updateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	habit, err := h.habitService.UpdateHabit(c.Context(), userID, int64(habitID), services.UpdateHabitInput{
		Name:      req.Name,
		Category:  req.Category,
		Frequency: req.Frequency,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"habit": habit})
}

func (h *HabitHandler) Delete(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	habitID, err := c.ParamsInt("id")
	if err != nil || habitID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid habit ID"})
	}

	if err := h.habitService.DeleteHabit(c.Context(), userID, int64(habitID)); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Habit deleted"})
}

// ToggleCompletion flips the completion record for one habit on one day.
func (h *HabitHandler) ToggleCompletion(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	habitID, err := c.ParamsInt("id")
	if err != nil || habitID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid habit ID"})
	}

	var req toggleCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	completion, err := h.habitService.ToggleCompletion(c.Context(), userID, int64(habitID), req.Date, req.DurationSeconds)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"completion": completion})
}

func (h *HabitHandler) GetCompletion(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	habitID, err := c.ParamsInt("id")
	if err != nil || habitID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid habit ID"})
	}

	date := c.Query("date")
	completed, err := h.habitService.IsCompleted(c.Context(), userID, int64(habitID), date)
	if err != nil {
		return mapServiceError(c, err)
	}
	duration, err := h.habitService.GetCompletionDuration(c.Context(), userID, int64(habitID), date)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"completed":        completed,
		"duration_seconds": duration,
	})
}

func (h *HabitHandler) TodayStats(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	stats, err := h.habitService.TodayStats(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"stats": stats})
}
