package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventMovePlayed        EventType = "move-played"
	EventMatchFinished     EventType = "match-finished"
	EventDifficultyChanged EventType = "difficulty-changed"
)

// Event is published whenever a match changes
type Event struct {
	Type      EventType `json:"type"`
	MatchID   MatchID   `json:"match_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"` // Type-specific data
}

// MovePlayedPayload contains data for move played events
type MovePlayedPayload struct {
	Move       Move  `json:"move"`
	NextPlayer Stone `json:"next_player"`
}

// MatchFinishedPayload contains data for match finished events
type MatchFinishedPayload struct {
	Outcome  Outcome `json:"outcome"`
	Winner   Stone   `json:"winner"`
	Resigned bool    `json:"resigned"`
	Moves    int     `json:"moves"`
}

// DifficultyChangedPayload contains data for difficulty changed events
type DifficultyChangedPayload struct {
	Side       Stone      `json:"side"`
	Difficulty Difficulty `json:"difficulty"`
}
