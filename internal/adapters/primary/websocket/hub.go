package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

// Hub maintains the set of active Clients and routes each event to the
// connections of the session that produced it.
type Hub struct {
	// sessions maps session IDs to their active connections.
	// One reviewer session can be open in several tabs.
	sessions map[string]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// done is closed when Run returns.
	done chan struct{}

	// mu protects the sessions map
	mu sync.RWMutex

	pingPeriod time.Duration
	pongWait   time.Duration

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		pingPeriod: defaultPingPeriod,
		pongWait:   defaultPongWait,
		logger:     logger.With("component", "websocket_hub"),
	}
}

// SetKeepalive sets the ping period and pong wait for clients created after
// the call. Invalid pairs are ignored.
func (h *Hub) SetKeepalive(pingPeriod, pongWait time.Duration) {
	if pingPeriod <= 0 || pongWait <= pingPeriod {
		h.logger.Warn("ignoring invalid websocket keepalive",
			"ping_period", pingPeriod,
			"pong_wait", pongWait,
		)
		return
	}
	h.pingPeriod = pingPeriod
	h.pongWait = pongWait
}

// Broadcast queues an event for delivery. Events without a session have no
// audience and are dropped.
func (h *Hub) Broadcast(event domain.Event) error {
	if event.SessionID == "" {
		return nil
	}

	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"session_id", event.SessionID,
		)
		return nil
	}
}

// Run starts the hub's event loop until ctx is cancelled. On exit every
// remaining client is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Attach registers client with a running hub. It reports false once the
// hub has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister detaches client from a running hub. After the hub has stopped
// every client is already closed, so nothing is sent.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.SessionID] == nil {
		h.sessions[client.SessionID] = make(map[*Client]bool)
	}
	h.sessions[client.SessionID][client] = true

	h.logger.Info("client registered",
		"session_id", client.SessionID,
		"total_connections", len(h.sessions[client.SessionID]),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if clients, ok := h.sessions[client.SessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.sessions, client.SessionID)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered",
		"session_id", client.SessionID,
	)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.sessions {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// broadcastEvent sends an event to every connection of its session.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	session, ok := h.sessions[event.SessionID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(session))
	for client := range session {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"session_id", event.SessionID,
		"client_count", len(clients),
	)

	var stale []*Client
	for _, client := range clients {
		if !client.TrySend(event) {
			h.logger.Warn("client send buffer full, unregistering",
				"session_id", client.SessionID,
			)
			stale = append(stale, client)
		}
	}

	if len(stale) > 0 {
		h.mu.Lock()
		for _, client := range stale {
			h.removeLocked(client)
		}
		h.mu.Unlock()
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.sessions {
		count += len(clients)
	}
	return count
}

// IsSessionConnected checks if a session has any active connections
func (h *Hub) IsSessionConnected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.sessions[sessionID]
	return ok && len(clients) > 0
}
