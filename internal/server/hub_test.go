package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_QueuesHelloFirst(t *testing.T) {
	h := NewHub()
	c := h.register(nil, []byte(`{"type":"welcome"}`))
	h.BroadcastJSON(Message{Type: MessageStateChanged})

	require.Len(t, c.send, 2)
	assert.JSONEq(t, `{"type":"welcome"}`, string(<-c.send))
	assert.JSONEq(t, `{"type":"stateChanged"}`, string(<-c.send))
	assert.Equal(t, 1, h.Count())
}

func TestHub_StalledClientDoesNotBlockBroadcast(t *testing.T) {
	h := NewHub()
	stalled := h.register(nil, nil)

	done := make(chan struct{})
	go func() {
		for range sendBuffer + 1 {
			h.BroadcastJSON(Message{Type: MessageStateChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a client that never reads")
	}
	assert.Equal(t, 0, h.Count(), "the client with a full queue is dropped")

	queued := 0
	for range stalled.send {
		queued++
	}
	assert.Equal(t, sendBuffer, queued)
}

func TestHub_RemoveIsIdempotent(t *testing.T) {
	h := NewHub()
	c := h.register(nil, nil)

	h.remove(c)
	h.remove(c)
	assert.Equal(t, 0, h.Count())

	_, open := <-c.send
	assert.False(t, open)
}
