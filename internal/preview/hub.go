package preview

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
)

// sendBuffer is the per-client outbound queue depth. A client that cannot
// drain this many messages is slow enough to drop frames for.
const sendBuffer = 16

// Client is one connected change-feed reader.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Send returns the client's outbound channel. The writer goroutine drains
// it until the hub closes it.
func (c *Client) Send() <-chan []byte { return c.send }

// Hub tracks connected feed clients and fans messages out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	dropped uint64
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a connection to the hub and returns its client handle.
func (h *Hub) Register(conn *websocket.Conn, addr string) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		addr: addr,
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	logging.LogClientEvent(addr, "connected")
	logging.Debug("Feed client registered", zap.Int("clients", n))
	return c
}

// Unregister removes a client and closes its send channel, releasing the
// writer goroutine. Safe to call for an already-removed client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if present {
		close(c.send)
		logging.LogClientEvent(c.addr, "disconnected")
	}
}

// Broadcast queues a message for every client. A client whose buffer is
// full has the message dropped rather than stalling the broadcaster.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
			logging.Debug("Dropped frame for slow feed client",
				zap.String("remote_addr", c.addr),
			)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many frames have been dropped for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// CloseAll unregisters every client. Used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		close(c.send)
		logging.LogClientEvent(c.addr, "disconnected")
	}
}
