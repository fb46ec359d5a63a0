package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllStreamsOfAUser(t *testing.T) {
	h := NewHub()

	first := make(Client, 1)
	second := make(Client, 1)
	h.Subscribe(7, first)
	h.Subscribe(7, second)

	h.Publish(7, Event{Type: "message.new", Payload: "hi"})

	for _, client := range []Client{first, second} {
		select {
		case payload := <-client:
			assert.Contains(t, string(payload), "message.new")
		default:
			t.Fatal("expected every stream to receive the event")
		}
	}
}

func TestPublishToOtherUsersIsIsolated(t *testing.T) {
	h := NewHub()

	mine := make(Client, 1)
	theirs := make(Client, 1)
	h.Subscribe(1, mine)
	h.Subscribe(2, theirs)

	h.Publish(1, Event{Type: "notification.new"})

	assert.Len(t, mine, 1)
	assert.Empty(t, theirs)
}

func TestPublishWithoutSubscribersIsANoOp(t *testing.T) {
	h := NewHub()
	h.Publish(42, Event{Type: "message.new"})
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()

	full := make(Client, 1)
	h.Subscribe(3, full)
	h.Publish(3, Event{Type: "message.new"})

	// The channel is now full; another publish must not block.
	h.Publish(3, Event{Type: "message.new"})
	assert.Len(t, full, 1)
}

func TestUnsubscribeClosesTheStream(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(5, client)
	h.Unsubscribe(5, client)

	_, open := <-client
	require.False(t, open)

	// Unsubscribing twice must not panic on a closed channel.
	h.Unsubscribe(5, client)
}
