package repository

import (
	"context"

	"github.com/ssingh799/habit-flow/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, userID int64, displayName *string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, display_name)
		VALUES ($1, $2)
		RETURNING user_id, display_name, avatar_url, created_at, updated_at
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, displayName).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT user_id, display_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *ProfileRepository) UpdateDisplayName(ctx context.Context, userID int64, displayName string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET display_name = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, display_name, avatar_url, created_at, updated_at
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, displayName).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET avatar_url = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, display_name, avatar_url, created_at, updated_at
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, avatarURL).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// Search matches display names case-insensitively by substring, excluding
// the caller's own profile.
func (r *ProfileRepository) Search(ctx context.Context, callerID int64, query string) ([]models.Profile, error) {
	sql := `
		SELECT user_id, display_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE user_id <> $1
		  AND display_name ILIKE '%' || $2 || '%'
		ORDER BY display_name
	`

	rows, err := r.db.Query(ctx, sql, callerID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(
			&profile.UserID,
			&profile.DisplayName,
			&profile.AvatarURL,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
