package websockets

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(buffer int) *Client {
	return &Client{
		ID:   "test-client",
		send: make(chan Message, buffer),
	}
}

func TestClientEnqueue(t *testing.T) {
	t.Run("delivers while the queue has room", func(t *testing.T) {
		client := newTestClient(1)
		assert.True(t, client.enqueue(Message{ID: "m1"}))
		got := <-client.send
		assert.Equal(t, "m1", got.ID)
	})

	t.Run("reports a full queue without blocking", func(t *testing.T) {
		client := newTestClient(1)
		assert.True(t, client.enqueue(Message{ID: "m1"}))
		assert.False(t, client.enqueue(Message{ID: "m2"}))
	})

	t.Run("drops after close instead of panicking", func(t *testing.T) {
		client := newTestClient(1)
		client.closeSend()
		assert.True(t, client.isClosed())
		assert.False(t, client.enqueue(Message{ID: "m1"}))
	})
}

func TestClientCloseSendIdempotent(t *testing.T) {
	client := newTestClient(1)
	client.closeSend()
	assert.NotPanics(t, client.closeSend)
}

// A disconnect racing a slow delivery must never crash the hub: the send
// side observes the closed flag under the client mutex and drops.
func TestClientEnqueueCloseRace(t *testing.T) {
	for range 200 {
		client := newTestClient(1)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 10 {
				client.enqueue(Message{ID: "race"})
			}
		}()
		go func() {
			defer wg.Done()
			client.closeSend()
		}()
		wg.Wait()

		assert.False(t, client.enqueue(Message{ID: "after"}))
	}
}
