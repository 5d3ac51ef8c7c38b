package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/ssingh799/habit-flow/internal/models"
	"github.com/ssingh799/habit-flow/internal/services"
	chatws "github.com/ssingh799/habit-flow/internal/websocket"
	"github.com/ssingh799/habit-flow/pkg/utils"
)

type chatApplicationService interface {
	SearchUsers(ctx context.Context, actorID int64, query string) ([]models.Profile, error)
	SendChatRequest(ctx context.Context, actorID, toUserID int64) (*models.ChatRequest, error)
	AcceptChatRequest(ctx context.Context, actorID, requestID int64) (*models.Conversation, error)
	RejectChatRequest(ctx context.Context, actorID, requestID int64) (*models.ChatRequest, error)
	RepairConversation(ctx context.Context, actorID, requestID int64) (*models.Conversation, error)
	ListReceivedRequests(ctx context.Context, actorID int64) ([]models.ChatRequest, error)
	ListSentRequests(ctx context.Context, actorID int64) ([]models.ChatRequest, error)
	ListConversations(ctx context.Context, actorID int64) ([]models.ConversationSummary, error)
	GetConversationForParticipant(ctx context.Context, actorID, conversationID int64) (*models.Conversation, error)
	ListMessages(ctx context.Context, actorID, conversationID int64, page, limit int) ([]models.Message, int, error)
	SendMessage(ctx context.Context, actorID, conversationID int64, content string) (*services.ChatDelivery, error)
}

type ChatHandler struct {
	chatService chatApplicationService
	hub         *chatws.Hub
	jwtSecret   string
}

func NewChatHandler(chatService chatApplicationService, hub *chatws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
		jwtSecret:   jwtSecret,
	}
}

type sendRequestBody struct {
	ToUserID int64 `json:"to_user_id"`
}

type sendMessageBody struct {
	Content string `json:"content"`
}

func (h *ChatHandler) SearchUsers(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profiles, err := h.chatService.SearchUsers(c.Context(), userID, c.Query("q"))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": profiles})
}

func (h *ChatHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var body sendRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	request, err := h.chatService.SendChatRequest(c.Context(), userID, body.ToUserID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": request})
}

func (h *ChatHandler) AcceptRequest(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	conversation, err := h.chatService.AcceptChatRequest(c.Context(), userID, int64(requestID))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"conversation": conversation})
}

func (h *ChatHandler) RejectRequest(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	request, err := h.chatService.RejectChatRequest(c.Context(), userID, int64(requestID))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"request": request})
}

// RepairRequest recreates the conversation for an accepted request whose
// conversation write was lost.
func (h *ChatHandler) RepairRequest(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	conversation, err := h.chatService.RepairConversation(c.Context(), userID, int64(requestID))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"conversation": conversation})
}

func (h *ChatHandler) ListReceivedRequests(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requests, err := h.chatService.ListReceivedRequests(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *ChatHandler) ListSentRequests(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	requests, err := h.chatService.ListSentRequests(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.chatService.ListConversations(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	conversationID, err := c.ParamsInt("id")
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	messages, total, err := h.chatService.ListMessages(c.Context(), userID, int64(conversationID), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"messages":   messages,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	conversationID, err := c.ParamsInt("id")
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	var body sendMessageBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	delivery, err := h.chatService.SendMessage(c.Context(), userID, int64(conversationID), body.Content)
	if err != nil {
		return mapServiceError(c, err)
	}

	h.hub.Publish(delivery.Message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": delivery.Message})
}

// WebSocketAuth gates the upgrade: the caller must present a valid token
// (query param or bearer header) and be a participant of the conversation
// named in the path.
func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	conversationID, err := c.ParamsInt("id")
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	if _, err := h.chatService.GetConversationForParticipant(c.Context(), userID, int64(conversationID)); err != nil {
		return mapServiceError(c, err)
	}

	c.Locals("ws_user_id", userID)
	c.Locals("ws_conversation_id", int64(conversationID))
	return c.Next()
}

// HandleWebSocket binds the upgraded connection to the conversation's live
// feed. Membership was checked by WebSocketAuth before the upgrade.
func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("ws_user_id").(int64)
	if !ok {
		_ = conn.Close()
		return
	}
	conversationID, ok := conn.Locals("ws_conversation_id").(int64)
	if !ok {
		_ = conn.Close()
		return
	}

	subscription := h.hub.Subscribe(conversationID, userID)
	client := chatws.NewClient(conn, subscription)

	go client.WritePump()
	client.ReadPump(h.chatService, conversationID)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
