// Package ws is the websocket transport: one long-lived connection per
// client, JSON envelopes in both directions. The hub is the production
// notify.Notifier; the engine never touches a connection directly.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
)

// Hub tracks connected clients and routes outbound events
type Hub struct {
	logger *slog.Logger

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	byPlayer map[model.PlayerID]*Client
}

var _ notify.Notifier = (*Hub)(nil)

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		clients:  make(map[*Client]struct{}),
		byPlayer: make(map[model.PlayerID]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if c.playerID != "" {
		delete(h.byPlayer, c.playerID)
	}
	close(c.send)
}

// bind associates a client with its registered player after login
func (h *Hub) bind(c *Client, playerID model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.playerID = playerID
	h.byPlayer[playerID] = c
}

// ToPlayer sends an event to one player's session, if connected
func (h *Hub) ToPlayer(playerID model.PlayerID, event string, payload any) {
	data, err := h.envelope(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	c, ok := h.byPlayer[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.send(c, data)
}

// Broadcast sends an event to every connected session
func (h *Hub) Broadcast(event string, payload any) {
	data, err := h.envelope(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.send(c, data)
	}
}

func (h *Hub) envelope(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal event payload",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// send enqueues pre-marshaled data without blocking. Membership is
// rechecked under the lock so a concurrently-unregistered client's
// closed channel is never written to. A client whose buffer is full is
// dead or hopelessly slow; it gets dropped and its read pump will run
// the disconnect flow.
func (h *Hub) send(c *Client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warn("client send buffer full, closing connection",
			slog.String("player_id", string(c.playerID)),
		)
		h.removeLocked(c)
		c.conn.Close()
	}
}
