package chatws

import (
	"time"

	"github.com/google/uuid"
	"github.com/ssingh799/habit-flow/internal/models"
)

// Hub fans newly stored messages out to live conversation subscriptions.
// A single goroutine owns the subscription maps; register, unregister and
// broadcast all go through its channels.
type Hub struct {
	subscribers map[int64]map[*Subscription]struct{}
	register    chan *Subscription
	unregister  chan *Subscription
	broadcast   chan *models.Message
	direct      chan feedEvent
}

// feedEvent targets a single subscription, bypassing fan-out.
type feedEvent struct {
	subscription *Subscription
	event        Event
}

// Event is one frame of a subscription feed.
type Event struct {
	Type      string          `json:"type"`
	Message   *models.Message `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Subscription is a cancellable handle on one conversation's inbound
// message feed. Events arrive in publish order; a message id is never
// delivered twice on the same subscription.
type Subscription struct {
	ID             uuid.UUID
	hub            *Hub
	conversationID int64
	userID         int64
	events         chan Event
	seen           map[int64]struct{}
	cancelled      bool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[*Subscription]struct{}),
		register:    make(chan *Subscription),
		unregister:  make(chan *Subscription),
		broadcast:   make(chan *models.Message, 64),
		direct:      make(chan feedEvent),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case subscription := <-h.register:
			set, ok := h.subscribers[subscription.conversationID]
			if !ok {
				set = make(map[*Subscription]struct{})
				h.subscribers[subscription.conversationID] = set
			}
			set[subscription] = struct{}{}
		case subscription := <-h.unregister:
			h.drop(subscription)
		case message := <-h.broadcast:
			h.deliver(message)
		case fe := <-h.direct:
			h.send(fe.subscription, fe.event)
		}
	}
}

// Subscribe opens a feed for the conversation. The caller must Cancel the
// returned handle to stop delivery; after Cancel the events channel is
// closed and nothing further arrives.
func (h *Hub) Subscribe(conversationID, userID int64) *Subscription {
	subscription := &Subscription{
		ID:             uuid.New(),
		hub:            h,
		conversationID: conversationID,
		userID:         userID,
		events:         make(chan Event, 32),
		seen:           make(map[int64]struct{}),
	}
	h.register <- subscription
	return subscription
}

// Publish hands a stored message to every live subscription on its
// conversation.
func (h *Hub) Publish(message *models.Message) {
	h.broadcast <- message
}

// SendError queues an error frame on one subscription's feed. The hub
// goroutine performs the send, so calling this from any goroutine is
// safe even after the subscription has been dropped; frames for dropped
// subscriptions are discarded.
func (h *Hub) SendError(subscription *Subscription, message string) {
	h.direct <- feedEvent{
		subscription: subscription,
		event: Event{
			Type:      "error",
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func (h *Hub) deliver(message *models.Message) {
	set, ok := h.subscribers[message.ConversationID]
	if !ok {
		return
	}

	for subscription := range set {
		if _, dup := subscription.seen[message.ID]; dup {
			continue
		}
		subscription.seen[message.ID] = struct{}{}

		h.send(subscription, Event{
			Type:      "message",
			Message:   message,
			Timestamp: message.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

// send writes to the subscription's feed from the hub goroutine, which is
// the only goroutine allowed to touch the events channel. Dropped
// subscriptions are skipped so nothing is ever sent after close.
func (h *Hub) send(subscription *Subscription, event Event) {
	set, ok := h.subscribers[subscription.conversationID]
	if !ok {
		return
	}
	if _, exists := set[subscription]; !exists {
		return
	}
	select {
	case subscription.events <- event:
	default:
		// Slow consumer; drop the subscription rather than block the hub.
		h.drop(subscription)
	}
}

func (h *Hub) drop(subscription *Subscription) {
	set, ok := h.subscribers[subscription.conversationID]
	if !ok {
		return
	}
	if _, exists := set[subscription]; !exists {
		return
	}
	delete(set, subscription)
	if len(set) == 0 {
		delete(h.subscribers, subscription.conversationID)
	}
	if !subscription.cancelled {
		subscription.cancelled = true
		close(subscription.events)
	}
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) UserID() int64 {
	return s.userID
}

// Cancel stops delivery. Events already buffered may still be read;
// nothing new is delivered afterwards.
func (s *Subscription) Cancel() {
	s.hub.unregister <- s
}
