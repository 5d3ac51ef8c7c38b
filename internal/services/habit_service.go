package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type habitRepo interface {
	Create(ctx context.Context, input repository.CreateHabitInput) (*models.Habit, error)
	GetByIDForUser(ctx context.Context, habitID, userID int64) (*models.Habit, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Habit, error)
	Update(ctx context.Context, habitID, userID int64, input repository.UpdateHabitInput) (*models.Habit, error)
	Delete(ctx context.Context, habitID, userID int64) (bool, error)
}

type completionRepo interface {
	Toggle(ctx context.Context, habitID int64, date time.Time, durationSeconds *int) (*models.HabitCompletion, error)
	Get(ctx context.Context, habitID int64, date time.Time) (*models.HabitCompletion, error)
	CompletedHabitIDs(ctx context.Context, userID int64, date time.Time) (map[int64]struct{}, error)
}

type HabitService struct {
	habitRepo      habitRepo
	completionRepo completionRepo
	now            func() time.Time
}

func NewHabitService(habitRepo habitRepo, completionRepo completionRepo) *HabitService {
	return &HabitService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		now:            time.Now,
	}
}

func validCategory(category string) bool {
	for _, c := range models.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func validFrequency(frequency string) bool {
	return frequency == models.FrequencyDaily ||
		frequency == models.FrequencyWeekly ||
		frequency == models.FrequencyMonthly
}

func (s *HabitService) AddHabit(ctx context.Context, userID int64, name, category, frequency string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if !validCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if !validFrequency(frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, frequency)
	}

	return s.habitRepo.Create(ctx, repository.CreateHabitInput{
		UserID:    userID,
		Name:      name,
		Category:  category,
		Frequency: frequency,
	})
}

type UpdateHabitInput struct {
	Name      *string
	Category  *string
	Frequency *string
}

func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID int64, input UpdateHabitInput) (*models.Habit, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		input.Name = &trimmed
	}
	if input.Category != nil && !validCategory(*input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *input.Category)
	}
	if input.Frequency != nil && !validFrequency(*input.Frequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, *input.Frequency)
	}

	habit, err := s.habitRepo.Update(ctx, habitID, userID, repository.UpdateHabitInput{
		Name:      input.Name,
		Category:  input.Category,
		Frequency: input.Frequency,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: habit %d", ErrNotFound, habitID)
		}
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID int64) error {
	deleted, err := s.habitRepo.Delete(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: habit %d", ErrNotFound, habitID)
	}
	return nil
}

func (s *HabitService) ListHabits(ctx context.Context, userID int64, category string) ([]models.Habit, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return habits, nil
	}

	filtered := make([]models.Habit, 0, len(habits))
	for _, habit := range habits {
		if habit.Category == category {
			filtered = append(filtered, habit)
		}
	}
	return filtered, nil
}

// ToggleCompletion flips the (habit, date) completion record, creating it
// as completed when absent. The flip itself happens in a single statement
// in the store; two rapid toggles flip twice, which callers must guard
// against themselves.
func (s *HabitService) ToggleCompletion(ctx context.Context, userID, habitID int64, date string, durationSeconds *int) (*models.HabitCompletion, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if durationSeconds != nil && *durationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration_seconds must not be negative", ErrValidation)
	}

	if _, err := s.habitRepo.GetByIDForUser(ctx, habitID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: habit %d", ErrNotFound, habitID)
		}
		return nil, err
	}

	return s.completionRepo.Toggle(ctx, habitID, day, durationSeconds)
}

func (s *HabitService) IsCompleted(ctx context.Context, userID, habitID int64, date string) (bool, error) {
	completion, err := s.getCompletion(ctx, userID, habitID, date)
	if err != nil {
		return false, err
	}
	if completion == nil {
		return false, nil
	}
	return completion.Completed, nil
}

func (s *HabitService) GetCompletionDuration(ctx context.Context, userID, habitID int64, date string) (*int, error) {
	completion, err := s.getCompletion(ctx, userID, habitID, date)
	if err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, nil
	}
	return completion.DurationSeconds, nil
}

func (s *HabitService) getCompletion(ctx context.Context, userID, habitID int64, date string) (*models.HabitCompletion, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	if _, err := s.habitRepo.GetByIDForUser(ctx, habitID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: habit %d", ErrNotFound, habitID)
		}
		return nil, err
	}

	completion, err := s.completionRepo.Get(ctx, habitID, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return completion, nil
}

// TodayStats summarizes the user's daily-frequency habits for the current
// day.
func (s *HabitService) TodayStats(ctx context.Context, userID int64) (*models.TodayStats, error) {
	today := dateutil.TruncateDay(s.now())

	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedIDs, err := s.completionRepo.CompletedHabitIDs(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	total := 0
	completed := 0
	for _, habit := range habits {
		if habit.Frequency != models.FrequencyDaily {
			continue
		}
		total++
		if _, ok := completedIDs[habit.ID]; ok {
			completed++
		}
	}

	stats := &models.TodayStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.Rate = int(float64(completed)/float64(total)*100 + 0.5)
	}
	return stats, nil
}
