// Package realtime pushes row change notifications to websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"soravault/internal/auth"
	"soravault/internal/metrics"
)

const (
	readLimit     = 4096
	readDeadline  = 60 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 25 * time.Second
)

// Change types.
const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
)

// Event is a change notification for one row owned by UserID.
type Event struct {
	Table  string `json:"table"`
	Type   string `json:"type"`
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// Publisher delivers events to the owning user's connections.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(messageType, data)
}

// Hub keeps every open connection per user. A user may be connected from
// several devices at once.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.RWMutex
	conns map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
		conns:  make(map[string]map[*client]struct{}),
	}
}

// ServeWS upgrades an authenticated request. The user comes from the
// request context set by the auth middleware.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "user_id", userID, "error", err)
		return
	}

	c := &client{conn: conn}
	h.add(userID, c)
	h.logger.Debug("ws connected", "user_id", userID)

	done := make(chan struct{})
	go h.pingLoop(c, done)
	go h.readLoop(userID, c, done)
}

func (h *Hub) add(userID string, c *client) {
	h.mu.Lock()
	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.conns[userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	metrics.ConnectionOpened()
}

func (h *Hub) remove(userID string, c *client) {
	h.mu.Lock()
	if set, ok := h.conns[userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			metrics.ConnectionClosed()
		}
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) readLoop(userID string, c *client, done chan struct{}) {
	defer func() {
		close(done)
		h.remove(userID, c)
		h.logger.Debug("ws disconnected", "user_id", userID)
	}()

	conn := c.conn
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))

		// Browsers cannot send ping frames, so a text "ping" gets a text "pong".
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(msg)), "ping") {
			if err := c.write(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}
		}
	}
}

func (h *Hub) pingLoop(c *client, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

// Publish delivers ev to the local connections of ev.UserID.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Deliver(ev)
	return nil
}

func (h *Hub) Deliver(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.conns[ev.UserID]))
	for c := range h.conns[ev.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, data); err != nil {
			h.logger.Warn("ws write failed", "user_id", ev.UserID, "error", err)
			h.remove(ev.UserID, c)
		}
	}
}

// Connections reports how many sockets userID has open on this instance.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}
