package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client without a live connection. Hub bookkeeping
// and the send queue never touch the socket, so nil is fine as long as the
// pumps are not started.
func newTestClient(userID uuid.UUID) *Client {
	return NewClient(userID, nil, nil)
}

func receivePayload(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a queued notification")
		return envelope{}
	}
}

func TestHubPublish(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all of the user's connections", func(t *testing.T) {
		t.Parallel()
		hub := NewHub(nil)
		userID := uuid.New()

		c1 := newTestClient(userID)
		c2 := newTestClient(userID)
		hub.Register(c1)
		hub.Register(c2)

		hub.Publish(context.Background(), userID, EventTaskReminder, map[string]string{"title": "standup"})

		for _, c := range []*Client{c1, c2} {
			env := receivePayload(t, c)
			assert.Equal(t, EventTaskReminder, env.Event)
		}
	})

	t.Run("does not deliver to other users", func(t *testing.T) {
		t.Parallel()
		hub := NewHub(nil)
		owner := newTestClient(uuid.New())
		other := newTestClient(uuid.New())
		hub.Register(owner)
		hub.Register(other)

		hub.Publish(context.Background(), owner.UserID(), EventAISuggestion, "high")

		assert.Len(t, owner.send, 1)
		assert.Len(t, other.send, 0)
	})

	t.Run("no subscribers is a silent no-op", func(t *testing.T) {
		t.Parallel()
		hub := NewHub(nil)
		// Must not block or panic.
		hub.Publish(context.Background(), uuid.New(), EventTaskReminder, nil)
	})

	t.Run("drops events for a slow client instead of blocking", func(t *testing.T) {
		t.Parallel()
		hub := NewHub(nil)
		c := newTestClient(uuid.New())
		hub.Register(c)

		// Nobody drains the queue, so it fills up.
		for i := 0; i < sendQueueSize+5; i++ {
			hub.Publish(context.Background(), c.UserID(), EventTaskReminder, i)
		}

		assert.Len(t, c.send, sendQueueSize)
	})
}

func TestHubRegisterUnregister(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	userID := uuid.New()
	c := newTestClient(userID)

	hub.Register(c)
	assert.Equal(t, 1, hub.SubscriberCount(userID))

	hub.Unregister(c)
	assert.Equal(t, 0, hub.SubscriberCount(userID))

	// Unregister closes the send queue.
	_, open := <-c.send
	assert.False(t, open)

	// Repeated unregister is safe.
	hub.Unregister(c)
}

// Publishing while clients disconnect must never hit a closed send queue.
func TestHubPublishConcurrentWithUnregister(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	userID := uuid.New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			hub.Publish(context.Background(), userID, EventTaskReminder, map[string]string{"title": "standup"})
		}
	}()

	for i := 0; i < 2000; i++ {
		c := newTestClient(userID)
		hub.Register(c)
		hub.Unregister(c)
	}
	<-done

	assert.Equal(t, 0, hub.SubscriberCount(userID))
}

func TestHubClose(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	c := newTestClient(uuid.New())
	hub.Register(c)

	hub.Close()

	assert.Equal(t, 0, hub.SubscriberCount(c.UserID()))
	_, open := <-c.send
	assert.False(t, open)

	// Registration after close immediately releases the client.
	late := newTestClient(uuid.New())
	hub.Register(late)
	assert.Equal(t, 0, hub.SubscriberCount(late.UserID()))
	_, open = <-late.send
	assert.False(t, open)

	// Publishing and re-closing after close must not panic.
	hub.Publish(context.Background(), c.UserID(), EventTaskReminder, nil)
	hub.Close()
}
