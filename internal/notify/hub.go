// Package notify pushes admin notifications to connected websocket clients.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Message is the frame written to every client.
type Message struct {
	Type string              `json:"type"`
	Data models.Notification `json:"data"`
}

type client struct {
	conn   *websocket.Conn
	userID int
	email  string
	send   chan []byte
}

// Hub owns the set of connected clients. All mutations of that set happen
// on the goroutine running Run.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu    sync.Mutex
	count int

	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.setCount(len(h.clients))
			slog.Info("Notification client connected", "user_id", c.userID, "email", c.email)

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				slog.Info("Notification client disconnected", "user_id", c.userID)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Warn("Dropping slow notification client", "user_id", c.userID)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount(len(h.clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// ClientCount reports how many clients are registered.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Broadcast fans n out to every connected client. It is a no-op once the
// hub has stopped.
func (h *Hub) Broadcast(n models.Notification) {
	msg, err := json.Marshal(Message{Type: "notification", Data: n})
	if err != nil {
		slog.Error("Error marshaling notification", "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ServeWS upgrades the request and attaches the connection to the hub on
// behalf of claims.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, userID: claims.ID, email: claims.Email, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump only watches for the peer going away; clients never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Warn("Websocket write error", "user_id", c.userID, "error", err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
