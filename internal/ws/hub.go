// Package ws fans account events out to a user's open websocket connections,
// so that other tabs of the dashboard can refresh after a profile change.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"dashboard/internal/models"
)

// Event is the envelope pushed to clients.
type Event struct {
	Type string       `json:"type"`
	At   time.Time    `json:"at"`
	User *models.User `json:"user,omitempty"`
}

// Connection represents a websocket connection to a client
type Connection struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// Hub keeps the live connections of every connected user.
// Send channels are closed only by the hub, under mu, after the
// connection is removed, so nothing ever sends on a closed channel.
type Hub struct {
	mu    sync.Mutex
	users map[string]map[*Connection]bool
	log   logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{users: make(map[string]map[*Connection]bool), log: log}
}

// Join registers c under its user.
func (h *Hub) Join(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.users[c.UserID]
	if !ok {
		conns = make(map[*Connection]bool)
		h.users[c.UserID] = conns
	}
	conns[c] = true
	h.log.WithField("user_id", c.UserID).Debug("event stream connected")
}

// Leave removes c and closes its Send channel. Calling it twice is fine.
func (h *Hub) Leave(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.drop(c) {
		h.log.WithField("user_id", c.UserID).Debug("event stream disconnected")
	}
}

// Notify implements credentials.Notifier. Users without connections have nobody listening.
func (h *Hub) Notify(userID, eventType string, user *models.User) {
	b, err := json.Marshal(Event{Type: eventType, At: time.Now().UTC(), User: user})
	if err != nil {
		h.log.WithError(err).Warn("could not encode account event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.users[userID] {
		h.deliver(c, b)
	}
}

// Reply queues msg for c alone. It is dropped if c already left.
func (h *Hub) Reply(c *Connection, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[c.UserID][c] {
		h.deliver(c, msg)
	}
}

// deliver must be called with mu held.
func (h *Hub) deliver(c *Connection, msg []byte) {
	select {
	case c.Send <- msg:
	default:
		// If send buffer is full, drop connection
		h.drop(c)
		h.log.WithField("user_id", c.UserID).Warn("slow event stream dropped")
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c *Connection) bool {
	conns, ok := h.users[c.UserID]
	if !ok || !conns[c] {
		return false
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.users, c.UserID)
	}
	return true
}

func (h *Hub) connections(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users[userID])
}

func (h *Hub) userCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users)
}

// StartWrite writes messages from the Send channel to the websocket
func (c *Connection) StartWrite() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
