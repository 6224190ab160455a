package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shelfwise/shelfwise-backend/internal/middleware"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/env"
)

var (
	// writeWait is the deadline for a single write to a client
	writeWait = 10 * time.Second
	// pongWait is how long a client may stay silent before being dropped
	pongWait = 60 * time.Second
	// pingPeriod is the keepalive interval; must be below pongWait
	pingPeriod = 54 * time.Second
)

func init() {
	writeWait = durationFromEnv("SW_WS_WRITE_WAIT", writeWait)
	pongWait = durationFromEnv("SW_WS_PONG_WAIT", pongWait)
	pingPeriod = durationFromEnv("SW_WS_PING_PERIOD", pingPeriod)
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := env.GetOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		debug.Warning("Invalid %s value %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

// client is one websocket connection. Writes go through the send channel so
// only the writePump touches the connection.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan models.Event
	userID string
}

// Handler upgrades authenticated requests onto the realtime channel
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket handler broadcasting through the hub
func NewHandler(hub *Hub, allowedOrigin string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

/*
ServeWS upgrades the HTTP connection and registers the client with the hub.
The caller's identity is taken from the request context, so this handler
must sit behind the auth middleware.
*/
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Error("Websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan models.Event, 16),
		userID: middleware.GetUserID(r),
	}
	h.hub.register(c)

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; the channel is broadcast-only. It exists
// to process pongs and to notice when the client goes away.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				debug.Debug("Realtime client %s read error: %v", c.userID, err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				debug.Debug("Realtime client %s write error: %v", c.userID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
