package match

import "github.com/mcoot/gomoku-go/internal/model"

// Publisher receives match events after they have been persisted
type Publisher interface {
	Publish(event model.Event)
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(model.Event) {}
