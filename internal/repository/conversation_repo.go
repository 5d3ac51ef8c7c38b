package repository

import (
	"context"
	"database/sql"

	"github.com/ssingh799/habit-flow/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, user1ID, user2ID int64) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (user1_id, user2_id)
		VALUES ($1, $2)
		RETURNING id, user1_id, user2_id, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, user1ID, user2ID).Scan(
		&conversation.ID,
		&conversation.User1ID,
		&conversation.User2ID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// GetByPair finds the conversation between two users regardless of which
// side created it.
func (r *ConversationRepository) GetByPair(ctx context.Context, userA, userB int64) (*models.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at, updated_at
		FROM conversations
		WHERE (user1_id = $1 AND user2_id = $2)
		   OR (user1_id = $2 AND user2_id = $1)
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, userA, userB).Scan(
		&conversation.ID,
		&conversation.User1ID,
		&conversation.User2ID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByIDForParticipant(ctx context.Context, conversationID, participantID int64) (*models.Conversation, error) {
	query := `
		SELECT id, user1_id, user2_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND (user1_id = $2 OR user2_id = $2)
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID, participantID).Scan(
		&conversation.ID,
		&conversation.User1ID,
		&conversation.User2ID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// ListForParticipant returns the caller's conversations joined with the
// counterpart's profile and most recent message, newest activity first.
func (r *ConversationRepository) ListForParticipant(ctx context.Context, participantID int64) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.user1_id,
			c.user2_id,
			c.created_at,
			c.updated_at,
			p.user_id,
			p.display_name,
			p.avatar_url,
			p.created_at,
			p.updated_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.content,
			lm.created_at
		FROM conversations c
		LEFT JOIN profiles p
			ON p.user_id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, content, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY c.updated_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var profileUserID sql.NullInt64
		var profileDisplayName sql.NullString
		var profileAvatarURL sql.NullString
		var profileCreatedAt sql.NullTime
		var profileUpdatedAt sql.NullTime
		var messageID sql.NullInt64
		var messageConversationID sql.NullInt64
		var messageSenderID sql.NullInt64
		var messageContent sql.NullString
		var messageCreatedAt sql.NullTime

		if err := rows.Scan(
			&summary.ID,
			&summary.User1ID,
			&summary.User2ID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&profileUserID,
			&profileDisplayName,
			&profileAvatarURL,
			&profileCreatedAt,
			&profileUpdatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageContent,
			&messageCreatedAt,
		); err != nil {
			return nil, err
		}

		if profileUserID.Valid {
			profile := &models.Profile{
				UserID:    profileUserID.Int64,
				CreatedAt: profileCreatedAt.Time,
				UpdatedAt: profileUpdatedAt.Time,
			}
			if profileDisplayName.Valid {
				name := profileDisplayName.String
				profile.DisplayName = &name
			}
			if profileAvatarURL.Valid {
				url := profileAvatarURL.String
				profile.AvatarURL = &url
			}
			summary.OtherUser = profile
		}

		if messageID.Valid {
			summary.LastMessage = &models.Message{
				ID:             messageID.Int64,
				ConversationID: messageConversationID.Int64,
				SenderID:       messageSenderID.Int64,
				Content:        messageContent.String,
				CreatedAt:      messageCreatedAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}
