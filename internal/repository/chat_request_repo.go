package repository

import (
	"context"

	"github.com/ssingh799/habit-flow/internal/models"
)

type ChatRequestRepository struct {
	db DBTX
}

func NewChatRequestRepository(db DBTX) *ChatRequestRepository {
	return &ChatRequestRepository{db: db}
}

func (r *ChatRequestRepository) Create(ctx context.Context, fromUserID, toUserID int64) (*models.ChatRequest, error) {
	query := `
		INSERT INTO chat_requests (from_user_id, to_user_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, from_user_id, to_user_id, status, created_at
	`

	var request models.ChatRequest
	err := r.db.QueryRow(ctx, query, fromUserID, toUserID).Scan(
		&request.ID,
		&request.FromUserID,
		&request.ToUserID,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *ChatRequestRepository) GetByID(ctx context.Context, requestID int64) (*models.ChatRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM chat_requests
		WHERE id = $1
	`

	var request models.ChatRequest
	err := r.db.QueryRow(ctx, query, requestID).Scan(
		&request.ID,
		&request.FromUserID,
		&request.ToUserID,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// FindActiveBetween looks for a pending or accepted request between the two
// users in either direction.
func (r *ChatRequestRepository) FindActiveBetween(ctx context.Context, userA, userB int64) (*models.ChatRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM chat_requests
		WHERE status IN ('pending', 'accepted')
		  AND ((from_user_id = $1 AND to_user_id = $2)
		    OR (from_user_id = $2 AND to_user_id = $1))
		LIMIT 1
	`

	var request models.ChatRequest
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&request.ID,
		&request.FromUserID,
		&request.ToUserID,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// UpdateStatusIfCurrent transitions the request only when it still holds
// the expected status, returning pgx.ErrNoRows otherwise.
func (r *ChatRequestRepository) UpdateStatusIfCurrent(ctx context.Context, requestID int64, currentStatus, nextStatus string) (*models.ChatRequest, error) {
	query := `
		UPDATE chat_requests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, from_user_id, to_user_id, status, created_at
	`

	var request models.ChatRequest
	err := r.db.QueryRow(ctx, query, requestID, currentStatus, nextStatus).Scan(
		&request.ID,
		&request.FromUserID,
		&request.ToUserID,
		&request.Status,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *ChatRequestRepository) ListPendingForRecipient(ctx context.Context, toUserID int64) ([]models.ChatRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM chat_requests
		WHERE to_user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, toUserID)
}

func (r *ChatRequestRepository) ListBySender(ctx context.Context, fromUserID int64) ([]models.ChatRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at
		FROM chat_requests
		WHERE from_user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, fromUserID)
}

func (r *ChatRequestRepository) list(ctx context.Context, query string, arg any) ([]models.ChatRequest, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.ChatRequest, 0)
	for rows.Next() {
		var request models.ChatRequest
		if err := rows.Scan(
			&request.ID,
			&request.FromUserID,
			&request.ToUserID,
			&request.Status,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
