package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type moodRepo interface {
	Upsert(ctx context.Context, input repository.UpsertMoodInput) (*models.MoodEntry, error)
	GetByDate(ctx context.Context, userID int64, date time.Time) (*models.MoodEntry, error)
	ListSince(ctx context.Context, userID int64, cutoff time.Time) ([]models.MoodEntry, error)
}

type MoodService struct {
	moodRepo moodRepo
	now      func() time.Time
}

func NewMoodService(moodRepo moodRepo) *MoodService {
	return &MoodService{
		moodRepo: moodRepo,
		now:      time.Now,
	}
}

// SetMood saves the entry for the given day, overwriting any existing one
// (upsert, never append).
func (s *MoodService) SetMood(ctx context.Context, userID int64, date string, mood int, notes *string, tags []string) (*models.MoodEntry, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if mood < 1 || mood > 10 {
		return nil, fmt.Errorf("%w: mood must be between 1 and 10", ErrValidation)
	}

	return s.moodRepo.Upsert(ctx, repository.UpsertMoodInput{
		UserID: userID,
		Date:   day,
		Mood:   mood,
		Notes:  notes,
		Tags:   tags,
	})
}

func (s *MoodService) GetMoodForDate(ctx context.Context, userID int64, date string) (*models.MoodEntry, error) {
	day, err := dateutil.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	entry, err := s.moodRepo.GetByDate(ctx, userID, day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (s *MoodService) GetTodayMood(ctx context.Context, userID int64) (*models.MoodEntry, error) {
	return s.GetMoodForDate(ctx, userID, dateutil.FormatDay(s.now()))
}

// GetAverageMood averages entries with date >= today-windowDays, rounded
// to one decimal place. Nil means no entries in the window.
func (s *MoodService) GetAverageMood(ctx context.Context, userID int64, windowDays int) (*float64, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window must be positive", ErrValidation)
	}

	cutoff := dateutil.TruncateDay(s.now()).AddDate(0, 0, -windowDays)
	entries, err := s.moodRepo.ListSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sum := 0
	for _, entry := range entries {
		sum += entry.Mood
	}
	average := math.Round(float64(sum)/float64(len(entries))*10) / 10
	return &average, nil
}

// WeekMoodSeries returns one point per day for the trailing seven days,
// nil mood on days without an entry.
func (s *MoodService) WeekMoodSeries(ctx context.Context, userID int64) ([]models.DailyMood, error) {
	return s.moodSeries(ctx, userID, 7)
}

// MonthMoodSeries does the same over the trailing thirty days.
func (s *MoodService) MonthMoodSeries(ctx context.Context, userID int64) ([]models.DailyMood, error) {
	return s.moodSeries(ctx, userID, 30)
}

func (s *MoodService) moodSeries(ctx context.Context, userID int64, days int) ([]models.DailyMood, error) {
	today := dateutil.TruncateDay(s.now())
	cutoff := today.AddDate(0, 0, -(days - 1))

	entries, err := s.moodRepo.ListSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int, len(entries))
	for _, entry := range entries {
		byDate[entry.Date] = entry.Mood
	}

	series := make([]models.DailyMood, 0, days)
	for _, day := range dateutil.DaysBetween(cutoff, today) {
		point := models.DailyMood{Date: dateutil.FormatDay(day)}
		if mood, ok := byDate[point.Date]; ok {
			m := mood
			point.Mood = &m
		}
		series = append(series, point)
	}
	return series, nil
}
