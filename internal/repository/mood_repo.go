package repository

import (
	"context"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type MoodRepository struct {
	db DBTX
}

func NewMoodRepository(db DBTX) *MoodRepository {
	return &MoodRepository{db: db}
}

type UpsertMoodInput struct {
	UserID int64
	Date   time.Time
	Mood   int
	Notes  *string
	Tags   []string
}

// Upsert saves the mood entry for (user, date), overwriting mood, notes,
// tags and timestamp when the date already has one.
func (r *MoodRepository) Upsert(ctx context.Context, input UpsertMoodInput) (*models.MoodEntry, error) {
	query := `
		INSERT INTO mood_entries (user_id, date, mood, notes, tags)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET
			mood = EXCLUDED.mood,
			notes = EXCLUDED.notes,
			tags = EXCLUDED.tags,
			created_at = NOW()
		RETURNING id, user_id, date, mood, notes, tags, created_at
	`

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var entry models.MoodEntry
	var day time.Time
	err := r.db.QueryRow(ctx, query, input.UserID, input.Date, input.Mood, input.Notes, tags).Scan(
		&entry.ID,
		&entry.UserID,
		&day,
		&entry.Mood,
		&entry.Notes,
		&entry.Tags,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Date = dateutil.FormatDay(day)

	return &entry, nil
}

func (r *MoodRepository) GetByDate(ctx context.Context, userID int64, date time.Time) (*models.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, tags, created_at
		FROM mood_entries
		WHERE user_id = $1 AND date = $2
	`

	var entry models.MoodEntry
	var day time.Time
	err := r.db.QueryRow(ctx, query, userID, date).Scan(
		&entry.ID,
		&entry.UserID,
		&day,
		&entry.Mood,
		&entry.Notes,
		&entry.Tags,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Date = dateutil.FormatDay(day)

	return &entry, nil
}

// ListSince returns the user's entries with date >= cutoff, oldest first.
func (r *MoodRepository) ListSince(ctx context.Context, userID int64, cutoff time.Time) ([]models.MoodEntry, error) {
	query := `
		SELECT id, user_id, date, mood, notes, tags, created_at
		FROM mood_entries
		WHERE user_id = $1 AND date >= $2
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.MoodEntry, 0)
	for rows.Next() {
		var entry models.MoodEntry
		var day time.Time
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&day,
			&entry.Mood,
			&entry.Notes,
			&entry.Tags,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Date = dateutil.FormatDay(day)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
