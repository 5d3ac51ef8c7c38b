package repository

import (
	"context"

	"github.com/ssingh799/habit-flow/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, conversationID, senderID int64, content string) (*models.Message, error) {
	query := `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender_id, content, created_at
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, conversationID, senderID, content).Scan(
		&message.ID,
		&message.ConversationID,
		&message.SenderID,
		&message.Content,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListByConversation returns messages oldest first; within a conversation
// messages are immutable and ordered by created_at.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64, limit, offset int) ([]models.Message, int, error) {
	totalQuery := `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1
	`

	var total int
	if err := r.db.QueryRow(ctx, totalQuery, conversationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.SenderID,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
