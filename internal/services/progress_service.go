package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type habitLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Habit, error)
}

type completionLister interface {
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.HabitCompletion, error)
}

type moodLister interface {
	ListSince(ctx context.Context, userID int64, cutoff time.Time) ([]models.MoodEntry, error)
}

// ProgressService loads the raw records for a window and hands them to the
// pure aggregation layer. Nothing here is cached.
type ProgressService struct {
	habitRepo      habitLister
	completionRepo completionLister
	moodRepo       moodLister
	now            func() time.Time
}

func NewProgressService(habitRepo habitLister, completionRepo completionLister, moodRepo moodLister) *ProgressService {
	return &ProgressService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		moodRepo:       moodRepo,
		now:            time.Now,
	}
}

func (s *ProgressService) GetDailyProgress(ctx context.Context, userID int64, date string) (*models.DailyProgress, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, errInvalidDate()
	}

	habits, index, err := s.load(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}

	progress := DailyProgress(habits, index, day)
	return &progress, nil
}

func (s *ProgressService) GetWeekProgress(ctx context.Context, userID int64, date string) ([]models.DailyProgress, error) {
	reference, err := s.parseOrToday(date)
	if err != nil {
		return nil, err
	}

	habits, index, err := s.load(ctx, userID, dateutil.StartOfISOWeek(reference), dateutil.EndOfISOWeek(reference))
	if err != nil {
		return nil, err
	}

	return WeekProgress(habits, index, reference), nil
}

func (s *ProgressService) GetMonthProgress(ctx context.Context, userID int64, date string) ([]models.DailyProgress, error) {
	reference, err := s.parseOrToday(date)
	if err != nil {
		return nil, err
	}

	today := dateutil.TruncateDay(s.now())
	habits, index, err := s.load(ctx, userID, dateutil.StartOfMonth(reference), dateutil.MinDay(today, dateutil.EndOfMonth(reference)))
	if err != nil {
		return nil, err
	}

	return MonthProgress(habits, index, reference, today), nil
}

// GetMonthlyReport assembles the 30-day lookback report: totals, streaks,
// best week, most consistent habit and highest-mood days.
func (s *ProgressService) GetMonthlyReport(ctx context.Context, userID int64) (*models.MonthlyReport, error) {
	today := dateutil.TruncateDay(s.now())
	from := today.AddDate(0, 0, -29)

	habits, index, err := s.load(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}

	window := dateutil.DaysBetween(from, today)
	days := make([]models.DailyProgress, 0, len(window))
	for _, day := range window {
		days = append(days, DailyProgress(habits, index, day))
	}

	totalTasks := 0
	completedTasks := 0
	for _, day := range days {
		totalTasks += day.Total
		completedTasks += day.Completed
	}

	report := &models.MonthlyReport{
		TotalTasks:          totalTasks,
		CompletedTasks:      completedTasks,
		PendingTasks:        totalTasks - completedTasks,
		CurrentStreak:       CurrentStreak(days),
		LongestStreak:       LongestStreak(days),
		BestWeek:            BestWeek(days),
		MostConsistentHabit: MostConsistentHabit(habits, index, window),
	}
	if totalTasks > 0 {
		report.CompletionRate = int(float64(completedTasks)/float64(totalTasks)*100 + 0.5)
	}

	entries, err := s.moodRepo.ListSince(ctx, userID, today.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	report.HighestMoodDays = HighestMoodDays(entries, today)

	return report, nil
}

func (s *ProgressService) load(ctx context.Context, userID int64, from, to time.Time) ([]models.Habit, CompletionIndex, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	completions, err := s.completionRepo.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	return habits, NewCompletionIndex(completions), nil
}

func (s *ProgressService) parseOrToday(date string) (time.Time, error) {
	if date == "" {
		return dateutil.TruncateDay(s.now()), nil
	}
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return time.Time{}, errInvalidDate()
	}
	return day, nil
}

func errInvalidDate() error {
	return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
}
