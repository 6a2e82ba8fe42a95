package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/gomoku-go/internal/model"
)

// Broadcaster publishes match events to the hub watching that match
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

// Publish sends event to everyone watching its match. The SSE event name is the event type
// and the data is the JSON-encoded event.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.MatchID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("match_id", string(event.MatchID)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}
