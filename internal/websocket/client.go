package chatws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/ssingh799/habit-flow/internal/services"
)

type sender interface {
	SendMessage(ctx context.Context, actorID, conversationID int64, content string) (*services.ChatDelivery, error)
}

// Client binds a websocket connection to a hub subscription: inbound
// frames become SendMessage calls, subscription events become outbound
// frames.
type Client struct {
	conn         *websocket.Conn
	subscription *Subscription
}

func NewClient(conn *websocket.Conn, subscription *Subscription) *Client {
	return &Client{
		conn:         conn,
		subscription: subscription,
	}
}

// ReadPump consumes inbound frames until the connection drops, then
// cancels the subscription.
func (c *Client) ReadPump(service sender, conversationID int64) {
	defer func() {
		c.subscription.Cancel()
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			c.writeError("unsupported message type")
			continue
		}

		delivery, err := service.SendMessage(
			context.Background(),
			c.subscription.UserID(),
			conversationID,
			incoming.Content,
		)
		if err != nil {
			c.writeError("failed to send message")
			continue
		}

		c.subscription.hub.Publish(delivery.Message)
	}
}

// WritePump drains the subscription feed into the connection and returns
// once the feed is closed by cancellation.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for event := range c.subscription.Events() {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	c.subscription.hub.SendError(c.subscription, message)
}
