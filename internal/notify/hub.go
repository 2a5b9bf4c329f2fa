package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Event names pushed over the notification channel.
const (
	// EventAISuggestion carries a priority hint produced after task creation.
	EventAISuggestion = "ai-suggestion"

	// EventTaskReminder signals a task approaching its deadline.
	EventTaskReminder = "task-reminder"
)

// Notifier is the publish side of the notification channel.
type Notifier interface {
	// Publish sends the named event with a JSON payload to every live
	// connection belonging to userID. It never blocks and never fails:
	// if nobody is subscribed the event is dropped.
	Publish(ctx context.Context, userID uuid.UUID, event string, data any)
}

// envelope is the wire format for pushed events.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks live client connections grouped by user identity and fans
// published events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	closed  bool
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
// If logger is nil, a default logger will be used.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}

	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		logger:  log.With(slog.String("component", "notify_hub")),
	}
}

// Ensure Hub implements Notifier
var _ Notifier = (*Hub)(nil)

// Register adds a client connection to its user's group.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		c.close()
		return
	}

	group, ok := h.clients[c.userID]
	if !ok {
		group = make(map[*Client]struct{})
		h.clients[c.userID] = group
	}
	group[c] = struct{}{}

	h.logger.Debug("client registered",
		slog.String("user_id", c.userID.String()),
		slog.Int("group_size", len(group)))
}

// Unregister removes a client connection from its user's group and
// releases its send queue. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}

	delete(group, c)
	if len(group) == 0 {
		delete(h.clients, c.userID)
	}
	c.close()

	h.logger.Debug("client unregistered",
		slog.String("user_id", c.userID.String()))
}

// Publish implements Notifier.
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, event string, data any) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal notification",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}

	// Send queues are closed only under the write lock (Unregister, Close),
	// so holding the read lock across the sends keeps every queue open for
	// the whole loop. The sends themselves never block.
	h.mu.RLock()
	defer h.mu.RUnlock()

	group := h.clients[userID]
	if len(group) == 0 {
		// Nobody subscribed; at-most-once means the event is gone.
		h.logger.Debug("no subscribers for notification",
			slog.String("user_id", userID.String()),
			slog.String("event", event))
		return
	}

	for c := range group {
		select {
		case c.send <- payload:
		default:
			// Client's queue is full; drop rather than block the publisher.
			h.logger.Warn("dropping notification for slow client",
				slog.String("user_id", userID.String()),
				slog.String("event", event))
		}
	}

	h.logger.Debug("notification published",
		slog.String("user_id", userID.String()),
		slog.String("event", event),
		slog.Int("recipients", len(group)))
}

// Close shuts the hub down: all client send queues are closed, which makes
// their write pumps exit and close the underlying connections. Further
// registrations are rejected.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for userID, group := range h.clients {
		for c := range group {
			c.close()
		}
		delete(h.clients, userID)
	}

	h.logger.Info("notification hub closed")
}

// SubscriberCount reports the number of live connections for a user.
func (h *Hub) SubscriberCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
