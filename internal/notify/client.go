package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection timing parameters.
const (
	// writeWait is the allowed time for a single write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second

	// pingPeriod is the interval between keepalive pings. Must be shorter
	// than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendQueueSize is the per-client buffer of pending notifications.
	// When it fills, further events for that client are dropped.
	sendQueueSize = 16
)

// Client is a single websocket connection bound to an authenticated user.
type Client struct {
	userID    uuid.UUID
	conn      *websocket.Conn
	send      chan []byte
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection for the given user.
func NewClient(userID uuid.UUID, conn *websocket.Conn, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		logger: log.With(
			slog.String("component", "notify_client"),
			slog.String("user_id", userID.String())),
	}
}

// UserID returns the identity the connection is bound to.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// close releases the send queue exactly once; the write pump notices and
// tears down the connection.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump consumes inbound frames until the connection drops, keeping the
// pong deadline fresh. Clients have nothing to say on this channel; inbound
// payloads are discarded. Unregisters the client from the hub on exit.
// Runs as a goroutine per connection.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister(c)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("closing websocket after read pump", slog.String("error", err.Error()))
		}
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Debug("failed to set read deadline", slog.String("error", err.Error()))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	c.conn.SetReadLimit(512)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
	}
}

// WritePump forwards queued notifications to the connection and sends
// keepalive pings. Exits when the send queue is closed or a write fails.
// Runs as a goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("closing websocket after write pump", slog.String("error", err.Error()))
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub closed the queue; say goodbye properly.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("websocket write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
