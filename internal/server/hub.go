package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sells-group/media-explorer/internal/explorer"
)

const (
	writeWait = 2 * time.Second
	// sendBuffer is how many undelivered messages a client may queue before
	// the hub drops it.
	sendBuffer = 16
)

// Message is the envelope pushed to websocket clients.
type Message struct {
	Type     string             `json:"type"`
	Snapshot *explorer.Snapshot `json:"snapshot,omitempty"`
}

// Message types.
const (
	MessageWelcome      = "welcome"
	MessageStateChanged = "stateChanged"
)

// client is one connection and its outbound queue. Only writePump writes
// to ws.
type client struct {
	ws   *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	defer c.ws.Close() //nolint:errcheck
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub fans state snapshots out to connected websocket clients. Broadcasts
// only enqueue, so a stalled client never delays the caller; a client whose
// queue is full is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// register queues hello ahead of any broadcast and adds the client.
func (h *Hub) register(ws *websocket.Conn, hello []byte) *client {
	c := &client{ws: ws, send: make(chan []byte, sendBuffer)}
	if hello != nil {
		c.send <- hello
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// unregisterLocked removes c and closes its queue. The caller holds mu.
func (h *Hub) unregisterLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.unregisterLocked(c)
	h.mu.Unlock()
}

// BroadcastJSON queues v for every client.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("hub: marshal broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			zap.L().Warn("hub: dropping client with a full send queue")
			h.unregisterLocked(c)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}

	snap := s.exp.Snapshot()
	hello, _ := json.Marshal(Message{Type: MessageWelcome, Snapshot: &snap})
	c := s.hub.register(ws, hello)
	go c.writePump()
	zap.L().Debug("hub: client connected", zap.Int("clients", s.hub.Count()))

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.remove(c)
	zap.L().Debug("hub: client disconnected", zap.Int("clients", s.hub.Count()))
}
