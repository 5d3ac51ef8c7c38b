package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
)

type stubMoodRepo struct {
	entries  []models.MoodEntry
	upserted *repository.UpsertMoodInput
}

func (s *stubMoodRepo) Upsert(_ context.Context, input repository.UpsertMoodInput) (*models.MoodEntry, error) {
	s.upserted = &input
	return &models.MoodEntry{
		ID:     1,
		UserID: input.UserID,
		Date:   input.Date.Format("2006-01-02"),
		Mood:   input.Mood,
		Notes:  input.Notes,
		Tags:   input.Tags,
	}, nil
}

func (s *stubMoodRepo) GetByDate(_ context.Context, userID int64, date time.Time) (*models.MoodEntry, error) {
	formatted := date.Format("2006-01-02")
	for _, entry := range s.entries {
		if entry.UserID == userID && entry.Date == formatted {
			return &entry, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubMoodRepo) ListSince(_ context.Context, userID int64, cutoff time.Time) ([]models.MoodEntry, error) {
	formatted := cutoff.Format("2006-01-02")
	result := make([]models.MoodEntry, 0)
	for _, entry := range s.entries {
		if entry.UserID == userID && entry.Date >= formatted {
			result = append(result, entry)
		}
	}
	return result, nil
}

func newMoodServiceAt(repo *stubMoodRepo, today string) *MoodService {
	service := NewMoodService(repo)
	service.now = func() time.Time {
		t, err := time.Parse("2006-01-02", today)
		if err != nil {
			panic(err)
		}
		return t.Add(12 * time.Hour)
	}
	return service
}

func TestSetMoodValidatesRange(t *testing.T) {
	service := NewMoodService(&stubMoodRepo{})

	for _, mood := range []int{0, 11, -3} {
		if _, err := service.SetMood(context.Background(), 1, "2025-03-04", mood, nil, nil); !errors.Is(err, ErrValidation) {
			t.Fatalf("mood %d: expected ErrValidation, got %v", mood, err)
		}
	}

	if _, err := service.SetMood(context.Background(), 1, "not-a-date", 5, nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad date, got %v", err)
	}
}

func TestSetMoodUpserts(t *testing.T) {
	repo := &stubMoodRepo{}
	service := NewMoodService(repo)

	notes := "long walk"
	entry, err := service.SetMood(context.Background(), 1, "2025-03-04", 8, &notes, []string{"outdoors"})
	if err != nil {
		t.Fatalf("SetMood: %v", err)
	}
	if entry.Mood != 8 || entry.Date != "2025-03-04" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if repo.upserted == nil || repo.upserted.UserID != 1 {
		t.Fatalf("expected upsert for user 1, got %+v", repo.upserted)
	}
}

func TestGetMoodForDateMissingIsNil(t *testing.T) {
	service := NewMoodService(&stubMoodRepo{})

	entry, err := service.GetMoodForDate(context.Background(), 1, "2025-03-04")
	if err != nil {
		t.Fatalf("GetMoodForDate: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for missing entry, got %+v", entry)
	}
}

func TestGetAverageMoodRoundsToOneDecimal(t *testing.T) {
	repo := &stubMoodRepo{entries: []models.MoodEntry{
		{UserID: 1, Date: "2025-03-01", Mood: 7},
		{UserID: 1, Date: "2025-03-02", Mood: 8},
		{UserID: 1, Date: "2025-03-03", Mood: 8},
	}}
	service := newMoodServiceAt(repo, "2025-03-04")

	average, err := service.GetAverageMood(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("GetAverageMood: %v", err)
	}
	if average == nil || *average != 7.7 {
		t.Fatalf("expected 7.7, got %v", average)
	}
}

func TestGetAverageMoodEmptyWindow(t *testing.T) {
	service := newMoodServiceAt(&stubMoodRepo{}, "2025-03-04")

	average, err := service.GetAverageMood(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("GetAverageMood: %v", err)
	}
	if average != nil {
		t.Fatalf("expected nil average, got %v", *average)
	}
}

func TestWeekMoodSeriesFillsGapsWithNil(t *testing.T) {
	repo := &stubMoodRepo{entries: []models.MoodEntry{
		{UserID: 1, Date: "2025-03-02", Mood: 6},
		{UserID: 1, Date: "2025-03-04", Mood: 9},
	}}
	service := newMoodServiceAt(repo, "2025-03-04")

	series, err := service.WeekMoodSeries(context.Background(), 1)
	if err != nil {
		t.Fatalf("WeekMoodSeries: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series))
	}
	if series[0].Date != "2025-02-26" || series[6].Date != "2025-03-04" {
		t.Fatalf("unexpected window %s..%s", series[0].Date, series[6].Date)
	}
	if series[0].Mood != nil {
		t.Fatalf("expected nil mood on empty day, got %v", *series[0].Mood)
	}
	if series[6].Mood == nil || *series[6].Mood != 9 {
		t.Fatalf("expected mood 9 on 2025-03-04, got %v", series[6].Mood)
	}
}
