package repository

import (
	"context"

	"github.com/ssingh799/habit-flow/internal/models"
)

type DeviceTokenRepository struct {
	db DBTX
}

func NewDeviceTokenRepository(db DBTX) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

// Upsert registers a device token; re-registering the same token for the
// same user is a no-op.
func (r *DeviceTokenRepository) Upsert(ctx context.Context, userID int64, token string) (*models.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (user_id, token) DO UPDATE SET token = EXCLUDED.token
		RETURNING id, user_id, token, created_at
	`

	var deviceToken models.DeviceToken
	err := r.db.QueryRow(ctx, query, userID, token).Scan(
		&deviceToken.ID,
		&deviceToken.UserID,
		&deviceToken.Token,
		&deviceToken.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &deviceToken, nil
}

func (r *DeviceTokenRepository) Delete(ctx context.Context, userID int64, token string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM device_tokens
		WHERE user_id = $1 AND token = $2
	`, userID, token)
	return err
}

func (r *DeviceTokenRepository) ListAll(ctx context.Context) ([]models.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM device_tokens
		ORDER BY user_id, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]models.DeviceToken, 0)
	for rows.Next() {
		var deviceToken models.DeviceToken
		if err := rows.Scan(
			&deviceToken.ID,
			&deviceToken.UserID,
			&deviceToken.Token,
			&deviceToken.CreatedAt,
		); err != nil {
			return nil, err
		}
		tokens = append(tokens, deviceToken)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}
