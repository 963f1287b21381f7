package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/process"
)

// Broadcaster forwards session events to SSE clients as JSON payloads.
// Events for sessions with no connected clients are discarded.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Ensure Broadcaster can feed processor events to clients
var _ process.Notifier = (*Broadcaster)(nil)

// Notify broadcasts an event to all clients watching its session
func (b *Broadcaster) Notify(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("session_id", string(event.SessionID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
