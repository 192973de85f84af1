package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/logger"
)

const hubWriteTimeout = 5 * time.Second

// originAllowed reports whether a browser origin matches one of the patterns.
// Patterns use path.Match syntax, so "http://localhost:*" admits any port.
func originAllowed(origin string, patterns []string) bool {
	for _, p := range patterns {
		if strings.EqualFold(p, origin) {
			return true
		}
		if ok, err := path.Match(strings.ToLower(p), strings.ToLower(origin)); err == nil && ok {
			return true
		}
	}
	return false
}

// ClientAction is sent by subscribers when the user clicks a reminder action.
type ClientAction struct {
	Action  string `json:"action"`
	Tag     string `json:"tag"`
	Minutes int    `json:"minutes,omitempty"`
}

// Hub broadcasts notifications to websocket subscribers such as a browser tab
// or a desktop shim.
type Hub struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*websocket.Conn]*sync.Mutex
	onAction func(ClientAction)
}

// NewHub returns a hub accepting subscribers from the given origins. Requests
// without an Origin header come from non-browser clients and are accepted.
// With no origins only the loopback defaults are allowed.
func NewHub(allowedOrigins ...string) *Hub {
	if len(allowedOrigins) == 0 {
		allowedOrigins = constants.DefaultAllowedOrigins
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || originAllowed(origin, allowedOrigins) {
					return true
				}
				logger.Warn("Rejected subscriber from foreign origin", "origin", origin)
				return false
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// OnAction registers the callback invoked for each action received from a
// subscriber.
func (h *Hub) OnAction(fn func(ClientAction)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAction = fn
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the subscriber until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	logger.Debug("Subscriber connected", "remote", conn.RemoteAddr().String())

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		_ = conn.Close()
		logger.Debug("Subscriber disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientAction
		if err := json.Unmarshal(data, &msg); err != nil || msg.Tag == "" {
			logger.Debug("Ignoring malformed subscriber message", "error", err)
			continue
		}
		h.mu.Lock()
		fn := h.onAction
		h.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
	}
}

// Present broadcasts n to every subscriber. With no subscribers it succeeds
// without delivering anything.
func (h *Hub) Present(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, wmu := range h.clients {
		targets[c] = wmu
	}
	h.mu.Unlock()

	deadline := time.Now().Add(hubWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for conn, wmu := range targets {
		wmu.Lock()
		_ = conn.SetWriteDeadline(deadline)
		err := conn.WriteMessage(websocket.TextMessage, payload)
		wmu.Unlock()
		if err != nil {
			logger.Debug("Dropping subscriber after write failure", "error", err)
			_ = conn.Close()
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
	}
}
