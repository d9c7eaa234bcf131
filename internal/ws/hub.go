package ws

import (
	"sync"
)

// Client is a single WebSocket connection with auth context.
type Client struct {
	ID     uint // user or admin id, depending on Role
	Role   string
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

// trySend drops the payload if the client is closed or its buffer is full.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub tracks connected clients and fans events out to them. Sends are
// non-blocking; a slow client just misses events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// BroadcastAdmins sends the payload to every connected admin client.
func (h *Hub) BroadcastAdmins(data []byte) {
	h.broadcast(data, "ADMIN")
}

// BroadcastToUser sends the payload to every connection owned by the user.
func (h *Hub) BroadcastToUser(userID uint, data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0)
	for c := range h.clients {
		if c.Role == "USER" && c.ID == userID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.trySend(data)
	}
}

func (h *Hub) broadcast(data []byte, role string) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if role == "" || c.Role == role {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
