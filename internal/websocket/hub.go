package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/chorequest/internal/model"
)

// Message carries one revision of the family snapshot to connected UIs.
// Clients replace their whole view on every message; revisions only exist so
// a client can discard out-of-order frames.
type Message struct {
	Type     string         `json:"type"`
	Revision uint64         `json:"revision"`
	State    model.AppState `json:"state"`
}

// Hub maintains the set of active WebSocket clients and pushes each new
// snapshot to all of them.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	logger   *slog.Logger
	revision uint64
	last     []byte
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub. The most recent snapshot, if any, is
// replayed immediately so a freshly opened UI does not wait for the next
// change.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		select {
		case c.outbox <- h.last:
		default:
		}
	}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its outbox.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.outbox)
	}
	h.mu.Unlock()
}

// BroadcastState stamps the snapshot with the next revision and sends it to
// all connected clients.
func (h *Hub) BroadcastState(state model.AppState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.revision++
	data, err := json.Marshal(Message{Type: "state", Revision: h.revision, State: state})
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}
	h.last = data

	for c := range h.clients {
		select {
		case c.outbox <- data:
		default:
			// Client buffer full, drop the frame rather than block
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
