package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/services"
)

type stubHabitService struct {
	habit        *models.Habit
	habits       []models.Habit
	completion   *models.HabitCompletion
	stats        *models.TodayStats
	err          error
	lastUserID   int64
	lastHabitID  int64
	lastCategory string
	lastDate     string
}

func (s *stubHabitService) AddHabit(_ context.Context, userID int64, name, category, frequency string) (*models.Habit, error) {
	s.lastUserID = userID
	s.lastCategory = category
	return s.habit, s.err
}

func (s *stubHabitService) ListHabits(_ context.Context, userID int64, category string) ([]models.Habit, error) {
	s.lastUserID = userID
	s.lastCategory = category
	return s.habits, s.err
}

func (s *stubHabitService) UpdateHabit(_ context.Context, userID, habitID int64, _ services.UpdateHabitInput) (*models.Habit, error) {
	s.lastUserID = userID
	s.lastHabitID = habitID
	return s.habit, s.err
}

func (s *stubHabitService) DeleteHabit(_ context.Context, userID, habitID int64) error {
	s.lastUserID = userID
	s.lastHabitID = habitID
	return s.err
}

func (s *stubHabitService) ToggleCompletion(_ context.Context, userID, habitID int64, date string, _ *int) (*models.HabitCompletion, error) {
	s.lastUserID = userID
	s.lastHabitID = habitID
	s.lastDate = date
	return s.completion, s.err
}

func (s *stubHabitService) IsCompleted(_ context.Context, _, _ int64, _ string) (bool, error) {
	if s.completion == nil {
		return false, s.err
	}
	return s.completion.Completed, s.err
}

func (s *stubHabitService) GetCompletionDuration(_ context.Context, _, _ int64, _ string) (*int, error) {
	if s.completion == nil {
		return nil, s.err
	}
	return s.completion.DurationSeconds, s.err
}

func (s *stubHabitService) TodayStats(_ context.Context, userID int64) (*models.TodayStats, error) {
	s.lastUserID = userID
	return s.stats, s.err
}

func newHabitTestApp(service habitApplicationService) *fiber.App {
	handler := NewHabitHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/habits", handler.Create)
	app.Get("/api/v1/habits", handler.List)
	app.Get("/api/v1/habits/today", handler.TodayStats)
	app.Post("/api/v1/habits/:id/toggle", handler.ToggleCompletion)
	app.Delete("/api/v1/habits/:id", handler.Delete)
	return app
}

func TestCreateHabitReturnsCreated(t *testing.T) {
	service := &stubHabitService{
		habit: &models.Habit{ID: 3, UserID: 42, Name: "Meditate", Category: "health", Frequency: "daily"},
	}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/habits",
		strings.NewReader(`{"name":"Meditate","category":"health","frequency":"daily"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected user 42, got %d", service.lastUserID)
	}

	var body struct {
		Habit models.Habit `json:"habit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Habit.ID != 3 || body.Habit.Name != "Meditate" {
		t.Fatalf("unexpected habit %+v", body.Habit)
	}
}

func TestCreateHabitValidationError(t *testing.T) {
	service := &stubHabitService{err: services.ErrValidation}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/habits",
		strings.NewReader(`{"name":"","category":"health","frequency":"daily"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListHabitsPassesCategoryFilter(t *testing.T) {
	service := &stubHabitService{habits: []models.Habit{{ID: 1, Category: "work"}}}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits?category=work", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastCategory != "work" {
		t.Fatalf("expected category filter %q, got %q", "work", service.lastCategory)
	}
}

func TestToggleCompletionRoutesIDAndDate(t *testing.T) {
	service := &stubHabitService{
		completion: &models.HabitCompletion{HabitID: 7, Date: "2025-03-04", Completed: true},
	}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/habits/7/toggle",
		strings.NewReader(`{"date":"2025-03-04"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastHabitID != 7 || service.lastDate != "2025-03-04" {
		t.Fatalf("unexpected routing: habit %d date %q", service.lastHabitID, service.lastDate)
	}
}

func TestDeleteHabitNotFoundMapsTo404(t *testing.T) {
	service := &stubHabitService{err: services.ErrNotFound}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/habits/9", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTodayStatsReturnsSummary(t *testing.T) {
	service := &stubHabitService{
		stats: &models.TodayStats{Total: 4, Completed: 3, Pending: 1, Rate: 75},
	}
	app := newHabitTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/today", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Stats models.TodayStats `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Stats.Rate != 75 {
		t.Fatalf("unexpected stats %+v", body.Stats)
	}
}
