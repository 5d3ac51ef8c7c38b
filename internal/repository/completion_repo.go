package repository

import (
	"context"
	"time"

	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/pkg/dateutil"
)

type CompletionRepository struct {
	db DBTX
}

func NewCompletionRepository(db DBTX) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Toggle flips the completion state for (habitID, date) in a single
// statement so the read-modify-write cannot lose updates. A missing record
// is created as completed. Flipping to completed keeps the stored duration
// unless a new one is supplied; flipping to incomplete always clears it.
func (r *CompletionRepository) Toggle(ctx context.Context, habitID int64, date time.Time, durationSeconds *int) (*models.HabitCompletion, error) {
	query := `
		INSERT INTO habit_completions (habit_id, date, completed, duration_seconds)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (habit_id, date) DO UPDATE SET
			completed = NOT habit_completions.completed,
			duration_seconds = CASE
				WHEN habit_completions.completed THEN NULL
				ELSE COALESCE($3, habit_completions.duration_seconds)
			END
		RETURNING habit_id, date, completed, duration_seconds
	`

	var completion models.HabitCompletion
	var day time.Time
	err := r.db.QueryRow(ctx, query, habitID, date, durationSeconds).Scan(
		&completion.HabitID,
		&day,
		&completion.Completed,
		&completion.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}
	completion.Date = dateutil.FormatDay(day)

	return &completion, nil
}

func (r *CompletionRepository) Get(ctx context.Context, habitID int64, date time.Time) (*models.HabitCompletion, error) {
	query := `
		SELECT habit_id, date, completed, duration_seconds
		FROM habit_completions
		WHERE habit_id = $1 AND date = $2
	`

	var completion models.HabitCompletion
	var day time.Time
	err := r.db.QueryRow(ctx, query, habitID, date).Scan(
		&completion.HabitID,
		&day,
		&completion.Completed,
		&completion.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}
	completion.Date = dateutil.FormatDay(day)

	return &completion, nil
}

// ListByUserBetween returns all completion records for the user's habits
// with dates in [from, to] inclusive.
func (r *CompletionRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.HabitCompletion, error) {
	query := `
		SELECT hc.habit_id, hc.date, hc.completed, hc.duration_seconds
		FROM habit_completions hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE h.user_id = $1
		  AND hc.date BETWEEN $2 AND $3
		ORDER BY hc.date, hc.habit_id
	`

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]models.HabitCompletion, 0)
	for rows.Next() {
		var completion models.HabitCompletion
		var day time.Time
		if err := rows.Scan(
			&completion.HabitID,
			&day,
			&completion.Completed,
			&completion.DurationSeconds,
		); err != nil {
			return nil, err
		}
		completion.Date = dateutil.FormatDay(day)
		completions = append(completions, completion)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completions, nil
}

// CompletedHabitIDs returns the ids of the user's habits marked completed
// on the given date. Duration does not matter here; completed = TRUE is
// enough to satisfy a habit.
func (r *CompletionRepository) CompletedHabitIDs(ctx context.Context, userID int64, date time.Time) (map[int64]struct{}, error) {
	query := `
		SELECT hc.habit_id
		FROM habit_completions hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE h.user_id = $1
		  AND hc.date = $2
		  AND hc.completed = TRUE
	`

	rows, err := r.db.Query(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
