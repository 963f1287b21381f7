package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/soval/gemgrid/internal/model"
)

// Hub fans one session's event stream out to its connected clients.
// There is no event loop: registration and broadcast mutate the client
// set directly under the hub's lock, which the engine's event rate
// never contends on.
type Hub struct {
	sessionID model.SessionID
	logger    *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates a hub for one session's clients
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID: sessionID,
		logger:    logger.With(slog.String("session_id", string(sessionID))),
		clients:   make(map[*Client]struct{}),
	}
}

// Register adds a client. Registering on a closed hub closes the
// client's channel immediately so its serve loop exits.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(client.send)
		return
	}
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("sse client connected",
		slog.String("remote", client.remoteAddr),
		slog.Int("clients", count))
}

// Unregister removes a client and closes its channel. Unknown clients
// are ignored, so unregistering after Close is harmless.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client]
	if known {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if known {
		h.logger.Info("sse client disconnected",
			slog.String("remote", client.remoteAddr),
			slog.Duration("connected", time.Since(client.connectedAt)),
			slog.Int("clients", count))
	}
}

// Broadcast delivers a raw frame to every client. A client whose send
// buffer is full drops the frame rather than stalling the engine.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("sse frame dropped",
				slog.String("remote", client.remoteAddr))
		}
	}
}

// BroadcastEvent formats a named SSE event and delivers it to every
// client
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// Close disconnects every client and rejects further registrations
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.Info("sse hub closed")
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// formatSSEMessage renders one wire frame. Every line of the data
// gets its own "data:" field per the SSE framing rules.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteByte('\n')
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// splitLines breaks data into lines, tolerating CRLF endings and
// dropping a trailing newline. Empty input still yields one empty
// line so the frame carries a data field.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// HubManager tracks the hub of every watched session
type HubManager struct {
	logger *slog.Logger

	mu   sync.Mutex
	hubs map[model.SessionID]*Hub
}

// NewHubManager creates an empty hub registry
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		logger: logger.With(slog.String("component", "sse")),
		hubs:   make(map[model.SessionID]*Hub),
	}
}

// GetOrCreateHub returns the session's hub, creating it on first use
func (m *HubManager) GetOrCreateHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	hub, ok := m.hubs[sessionID]
	if !ok {
		hub = NewHub(sessionID, m.logger)
		m.hubs[sessionID] = hub
	}
	return hub
}

// GetHub returns the session's hub, or nil when nobody is watching
func (m *HubManager) GetHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[sessionID]
}

// RemoveHub closes and forgets the session's hub
func (m *HubManager) RemoveHub(sessionID model.SessionID) {
	m.mu.Lock()
	hub, ok := m.hubs[sessionID]
	delete(m.hubs, sessionID)
	m.mu.Unlock()

	if ok {
		hub.Close()
		m.logger.Info("sse hub removed", slog.String("session_id", string(sessionID)))
	}
}

// CleanupEmptyHubs closes and forgets hubs with no clients left
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	var empty []*Hub
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			empty = append(empty, hub)
			delete(m.hubs, id)
		}
	}
	m.mu.Unlock()

	for _, hub := range empty {
		hub.Close()
	}
	if len(empty) > 0 {
		m.logger.Info("sse empty hubs removed", slog.Int("count", len(empty)))
	}
}
