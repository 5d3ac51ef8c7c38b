package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/repository"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ChatService struct {
	db               txBeginner
	requestRepo      *repository.ChatRequestRepository
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	profileRepo      *repository.ProfileRepository
}

// ChatDelivery carries a stored message plus the routing data the realtime
// hub needs to fan it out.
type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.Message
	RecipientID  int64
}

func NewChatService(
	db txBeginner,
	requestRepo *repository.ChatRequestRepository,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	profileRepo *repository.ProfileRepository,
) *ChatService {
	return &ChatService{
		db:               db,
		requestRepo:      requestRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		profileRepo:      profileRepo,
	}
}

// SearchUsers matches display names case-insensitively by substring,
// excluding the caller. An empty query yields an empty result set, never
// all users.
func (s *ChatService) SearchUsers(ctx context.Context, actorID int64, query string) ([]models.Profile, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []models.Profile{}, nil
	}
	return s.profileRepo.Search(ctx, actorID, trimmed)
}

// SendChatRequest inserts a pending request unless an active request in
// either direction, or a conversation, already links the pair.
func (s *ChatService) SendChatRequest(ctx context.Context, actorID, toUserID int64) (*models.ChatRequest, error) {
	if toUserID <= 0 || toUserID == actorID {
		return nil, fmt.Errorf("%w: invalid recipient", ErrValidation)
	}

	if _, err := s.profileRepo.GetByUserID(ctx, toUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, toUserID)
		}
		return nil, err
	}

	existing, err := s.requestRepo.FindActiveBetween(ctx, actorID, toUserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an active request already exists between these users", ErrConflict)
	}

	conversation, err := s.conversationRepo.GetByPair(ctx, actorID, toUserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if conversation != nil {
		return nil, fmt.Errorf("%w: a conversation already exists between these users", ErrConflict)
	}

	return s.requestRepo.Create(ctx, actorID, toUserID)
}

// AcceptChatRequest transitions a pending request to accepted and creates
// the conversation, both inside one transaction so no accepted request is
// left without its conversation. Requests found already accepted without a
// conversation (written by a non-transactional client) surface
// ErrAcceptIncomplete; RepairConversation recovers them.
func (s *ChatService) AcceptChatRequest(ctx context.Context, actorID, requestID int64) (*models.Conversation, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.ToUserID != actorID {
		return nil, ErrForbidden
	}

	switch request.Status {
	case models.RequestRejected:
		return nil, fmt.Errorf("%w: request already rejected", ErrConflict)
	case models.RequestAccepted:
		if _, err := s.conversationRepo.GetByPair(ctx, request.FromUserID, request.ToUserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrAcceptIncomplete
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: request already accepted", ErrConflict)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txRequestRepo := repository.NewChatRequestRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	if _, err := txRequestRepo.UpdateStatusIfCurrent(ctx, requestID, models.RequestPending, models.RequestAccepted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: request is no longer pending", ErrConflict)
		}
		return nil, err
	}

	conversation, err := txConversationRepo.Create(ctx, request.FromUserID, request.ToUserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return conversation, nil
}

// RepairConversation creates the conversation missing from an accepted
// request. It is idempotent: an already existing conversation is returned
// as-is.
func (s *ChatService) RepairConversation(ctx context.Context, actorID, requestID int64) (*models.Conversation, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.FromUserID != actorID && request.ToUserID != actorID {
		return nil, ErrForbidden
	}
	if request.Status != models.RequestAccepted {
		return nil, fmt.Errorf("%w: only accepted requests can be repaired", ErrConflict)
	}

	conversation, err := s.conversationRepo.GetByPair(ctx, request.FromUserID, request.ToUserID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return s.conversationRepo.Create(ctx, request.FromUserID, request.ToUserID)
}

// RejectChatRequest is terminal; no conversation is ever created.
func (s *ChatService) RejectChatRequest(ctx context.Context, actorID, requestID int64) (*models.ChatRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}
	if request.ToUserID != actorID {
		return nil, ErrForbidden
	}

	rejected, err := s.requestRepo.UpdateStatusIfCurrent(ctx, requestID, models.RequestPending, models.RequestRejected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: request is no longer pending", ErrConflict)
		}
		return nil, err
	}
	return rejected, nil
}

func (s *ChatService) ListReceivedRequests(ctx context.Context, actorID int64) ([]models.ChatRequest, error) {
	requests, err := s.requestRepo.ListPendingForRecipient(ctx, actorID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		profile, err := s.profileRepo.GetByUserID(ctx, requests[i].FromUserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		requests[i].FromProfile = profile
	}
	return requests, nil
}

func (s *ChatService) ListSentRequests(ctx context.Context, actorID int64) ([]models.ChatRequest, error) {
	requests, err := s.requestRepo.ListBySender(ctx, actorID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		profile, err := s.profileRepo.GetByUserID(ctx, requests[i].ToUserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		requests[i].ToProfile = profile
	}
	return requests, nil
}

func (s *ChatService) ListConversations(ctx context.Context, actorID int64) ([]models.ConversationSummary, error) {
	return s.conversationRepo.ListForParticipant(ctx, actorID)
}

func (s *ChatService) GetConversationForParticipant(ctx context.Context, actorID, conversationID int64) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: conversation %d", ErrNotFound, conversationID)
		}
		return nil, err
	}
	return conversation, nil
}

func (s *ChatService) ListMessages(ctx context.Context, actorID, conversationID int64, page, limit int) ([]models.Message, int, error) {
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid pagination", ErrValidation)
	}

	if _, err := s.GetConversationForParticipant(ctx, actorID, conversationID); err != nil {
		return nil, 0, err
	}

	return s.messageRepo.ListByConversation(ctx, conversationID, limit, (page-1)*limit)
}

// SendMessage stores the message and bumps the conversation's updated_at
// in one transaction; the two writes succeed or fail together.
func (s *ChatService) SendMessage(ctx context.Context, actorID, conversationID int64, content string) (*ChatDelivery, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", ErrValidation)
	}

	conversation, err := s.GetConversationForParticipant(ctx, actorID, conversationID)
	if err != nil {
		return nil, err
	}

	recipientID := conversation.User1ID
	if actorID == conversation.User1ID {
		recipientID = conversation.User2ID
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, conversationID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  recipientID,
	}, nil
}
