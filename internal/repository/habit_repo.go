package repository

import (
	"context"

	"github.com/ssingh799/habit-flow/internal/models"
)

type HabitRepository struct {
	db DBTX
}

func NewHabitRepository(db DBTX) *HabitRepository {
	return &HabitRepository{db: db}
}

type CreateHabitInput struct {
	UserID    int64
	Name      string
	Category  string
	Frequency string
}

func (r *HabitRepository) Create(ctx context.Context, input CreateHabitInput) (*models.Habit, error) {
	query := `
		INSERT INTO habits (user_id, name, category, frequency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, category, frequency, created_at, updated_at
	`

	var habit models.Habit
	err := r.db.QueryRow(ctx, query, input.UserID, input.Name, input.Category, input.Frequency).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Category,
		&habit.Frequency,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

func (r *HabitRepository) GetByIDForUser(ctx context.Context, habitID, userID int64) (*models.Habit, error) {
	query := `
		SELECT id, user_id, name, category, frequency, created_at, updated_at
		FROM habits
		WHERE id = $1 AND user_id = $2
	`

	var habit models.Habit
	err := r.db.QueryRow(ctx, query, habitID, userID).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Category,
		&habit.Frequency,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int64) ([]models.Habit, error) {
	query := `
		SELECT id, user_id, name, category, frequency, created_at, updated_at
		FROM habits
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := make([]models.Habit, 0)
	for rows.Next() {
		var habit models.Habit
		if err := rows.Scan(
			&habit.ID,
			&habit.UserID,
			&habit.Name,
			&habit.Category,
			&habit.Frequency,
			&habit.CreatedAt,
			&habit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return habits, nil
}

type UpdateHabitInput struct {
	Name      *string
	Category  *string
	Frequency *string
}

func (r *HabitRepository) Update(ctx context.Context, habitID, userID int64, input UpdateHabitInput) (*models.Habit, error) {
	query := `
		UPDATE habits
		SET name = COALESCE($3, name),
		    category = COALESCE($4, category),
		    frequency = COALESCE($5, frequency),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, category, frequency, created_at, updated_at
	`

	var habit models.Habit
	err := r.db.QueryRow(ctx, query, habitID, userID, input.Name, input.Category, input.Frequency).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Category,
		&habit.Frequency,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

// Delete removes a habit; its completions go with it through the
// ON DELETE CASCADE constraint, so callers never observe one without the
// other.
func (r *HabitRepository) Delete(ctx context.Context, habitID, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM habits
		WHERE id = $1 AND user_id = $2
	`, habitID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
