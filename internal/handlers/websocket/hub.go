package websocket

import (
	"sync"

	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
)

// Hub fans events out to every connected client. Slow clients whose send
// buffer fills are dropped rather than allowed to stall the broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish broadcasts the event to all connected clients
func (h *Hub) Publish(event models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			debug.Warning("Dropping slow realtime client %s", c.userID)
			go h.unregister(c)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	debug.Info("Realtime client connected for user %s (%d total)", c.userID, count)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
