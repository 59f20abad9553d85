package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"dashboard/internal/middleware"
	"dashboard/internal/utils"
	"dashboard/internal/ws"
)

// WSMessage is what clients may send on the event stream
type WSMessage struct {
	Type string `json:"type"`
}

// EventsHandler upgrades to a websocket after checking the token and streams
// account events of that user.
type EventsHandler struct {
	Hub       *ws.Hub
	JWTSecret string
	Origins   []string
	Log       logrus.FieldLogger
}

func (h *EventsHandler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range h.Origins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}

// ServeHTTP handles GET /api/auth/events?token=...
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// browsers cannot set headers on websocket requests, so the query wins
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.BearerToken(r)
	}
	if token == "" {
		utils.Fail(w, http.StatusUnauthorized, "Access token required")
		return
	}
	claims, err := utils.ParseJWT(token, h.JWTSecret)
	if err != nil {
		utils.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.Log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &ws.Connection{
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: claims.UserID,
	}
	h.Hub.Join(c)

	go c.StartWrite()

	defer func() {
		h.Hub.Leave(c)
		conn.Close()
	}()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var in WSMessage
		if err := json.Unmarshal(msg, &in); err != nil {
			h.reply(c, "error", "invalid message format")
			continue
		}
		switch in.Type {
		case "ping":
			h.reply(c, "pong", "")
		case "leave":
			return
		default:
			h.reply(c, "error", "unknown message type")
		}
	}
}

func (h *EventsHandler) reply(c *ws.Connection, typ, msg string) {
	m := map[string]string{"type": typ}
	if msg != "" {
		m["message"] = msg
	}
	b, _ := json.Marshal(m)
	h.Hub.Reply(c, b)
}
