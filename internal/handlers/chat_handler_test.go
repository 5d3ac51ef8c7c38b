package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/services"
	chatws "github.com/ssingh799/habit-flow/internal/websocket"
)

type stubChatService struct {
	profiles           []models.Profile
	request            *models.ChatRequest
	requests           []models.ChatRequest
	conversation       *models.Conversation
	conversations      []models.ConversationSummary
	messages           []models.Message
	messagesTotal      int
	delivery           *services.ChatDelivery
	err                error
	lastActorID        int64
	lastTargetID       int64
	lastRequestID      int64
	lastConversationID int64
	lastQuery          string
	lastPage           int
	lastLimit          int
}

func (s *stubChatService) SearchUsers(_ context.Context, actorID int64, query string) ([]models.Profile, error) {
	s.lastActorID = actorID
	s.lastQuery = query
	return s.profiles, s.err
}

func (s *stubChatService) SendChatRequest(_ context.Context, actorID, toUserID int64) (*models.ChatRequest, error) {
	s.lastActorID = actorID
	s.lastTargetID = toUserID
	return s.request, s.err
}

func (s *stubChatService) AcceptChatRequest(_ context.Context, actorID, requestID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.conversation, s.err
}

func (s *stubChatService) RejectChatRequest(_ context.Context, actorID, requestID int64) (*models.ChatRequest, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.request, s.err
}

func (s *stubChatService) RepairConversation(_ context.Context, actorID, requestID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastRequestID = requestID
	return s.conversation, s.err
}

func (s *stubChatService) ListReceivedRequests(_ context.Context, actorID int64) ([]models.ChatRequest, error) {
	s.lastActorID = actorID
	return s.requests, s.err
}

func (s *stubChatService) ListSentRequests(_ context.Context, actorID int64) ([]models.ChatRequest, error) {
	s.lastActorID = actorID
	return s.requests, s.err
}

func (s *stubChatService) ListConversations(_ context.Context, actorID int64) ([]models.ConversationSummary, error) {
	s.lastActorID = actorID
	return s.conversations, s.err
}

func (s *stubChatService) GetConversationForParticipant(_ context.Context, actorID, conversationID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastConversationID = conversationID
	return s.conversation, s.err
}

func (s *stubChatService) ListMessages(_ context.Context, actorID, conversationID int64, page, limit int) ([]models.Message, int, error) {
	s.lastActorID = actorID
	s.lastConversationID = conversationID
	s.lastPage = page
	s.lastLimit = limit
	return s.messages, s.messagesTotal, s.err
}

func (s *stubChatService) SendMessage(_ context.Context, actorID, conversationID int64, _ string) (*services.ChatDelivery, error) {
	s.lastActorID = actorID
	s.lastConversationID = conversationID
	return s.delivery, s.err
}

func newChatTestApp(service chatApplicationService) *fiber.App {
	handler := NewChatHandler(service, chatws.NewHub(), "secret")

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/users/search", handler.SearchUsers)
	app.Post("/api/v1/chat/requests", handler.SendRequest)
	app.Post("/api/v1/chat/requests/:id/accept", handler.AcceptRequest)
	app.Post("/api/v1/chat/requests/:id/repair", handler.RepairRequest)
	app.Get("/api/v1/conversations", handler.ListConversations)
	app.Get("/api/v1/conversations/:id/messages", handler.ListMessages)
	return app
}

func TestSearchUsersForwardsQuery(t *testing.T) {
	display := "Sam"
	service := &stubChatService{profiles: []models.Profile{{UserID: 7, DisplayName: &display}}}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?q=sam", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastQuery != "sam" {
		t.Fatalf("unexpected call: actor %d query %q", service.lastActorID, service.lastQuery)
	}
}

func TestSendRequestReturnsCreated(t *testing.T) {
	service := &stubChatService{
		request: &models.ChatRequest{ID: 5, FromUserID: 42, ToUserID: 7, Status: models.RequestPending},
	}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/requests",
		strings.NewReader(`{"to_user_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastTargetID != 7 {
		t.Fatalf("expected target 7, got %d", service.lastTargetID)
	}
}

func TestSendRequestConflictMapsTo409(t *testing.T) {
	service := &stubChatService{err: services.ErrConflict}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/requests",
		strings.NewReader(`{"to_user_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestAcceptRequestIncompleteAdvertisesRepair(t *testing.T) {
	service := &stubChatService{err: services.ErrAcceptIncomplete}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/requests/5/accept", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var body struct {
		Repair string `json:"repair"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Repair == "" {
		t.Fatal("expected a repair hint in the response")
	}
}

func TestRepairRequestReturnsConversation(t *testing.T) {
	service := &stubChatService{
		conversation: &models.Conversation{ID: 9, User1ID: 42, User2ID: 7},
	}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/requests/5/repair", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastRequestID != 5 {
		t.Fatalf("expected request 5, got %d", service.lastRequestID)
	}
}

func TestListMessagesReturnsPagination(t *testing.T) {
	service := &stubChatService{
		messages: []models.Message{
			{ID: 5, ConversationID: 11, SenderID: 7, Content: "Hi", CreatedAt: time.Now().UTC()},
		},
		messagesTotal: 12,
	}
	app := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/11/messages?page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastConversationID != 11 || service.lastPage != 2 || service.lastLimit != 5 {
		t.Fatalf("unexpected call: conversation %d page %d limit %d",
			service.lastConversationID, service.lastPage, service.lastLimit)
	}

	var body struct {
		Messages   []models.Message      `json:"messages"`
		Pagination models.PaginationMeta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Pagination.Total != 12 || body.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination %+v", body.Pagination)
	}
}
