package model

import (
	"fmt"
	"time"
)

// MatchID uniquely identifies a match
type MatchID string

// MatchMode says who controls each colour
type MatchMode string

const (
	ModeTwoPlayer MatchMode = "two_player" // Owner plays both colours at one seat
	ModeVsAI      MatchMode = "vs_ai"      // Owner plays HumanSide, the engine the other colour
	ModeAIBattle  MatchMode = "ai_battle"  // Engines on both colours
)

// ParseMatchMode validates a mode name
func ParseMatchMode(v string) (MatchMode, error) {
	m := MatchMode(v)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, v)
	}
	return m, nil
}

// Valid returns true for the defined modes
func (m MatchMode) Valid() bool {
	switch m {
	case ModeTwoPlayer, ModeVsAI, ModeAIBattle:
		return true
	}
	return false
}

// DisplayName returns a human-readable label
func (m MatchMode) DisplayName() string {
	switch m {
	case ModeTwoPlayer:
		return "2-Player"
	case ModeVsAI:
		return "vs AI"
	case ModeAIBattle:
		return "AI Battle"
	default:
		return string(m)
	}
}

// SideConfig describes who plays one colour
type SideConfig struct {
	Engine     bool       `json:"engine"`
	Difficulty Difficulty `json:"difficulty"` // Meaningful only when Engine is set
}

// Move is one placed stone in a match record
type Move struct {
	Number    int           `json:"number"` // 1-based
	Player    Stone         `json:"player"`
	Position  Position      `json:"position"`
	PlayedAt  time.Time     `json:"played_at"`
	ByEngine  bool          `json:"by_engine,omitempty"`
	ThinkTime time.Duration `json:"think_time,omitempty"`
}

// Match is a single game and its full move record
type Match struct {
	ID        MatchID    `json:"id"`
	OwnerID   PlayerID   `json:"owner_id"`
	Mode      MatchMode  `json:"mode"`
	BoardSize int        `json:"board_size"`
	Black     SideConfig `json:"black"`
	White     SideConfig `json:"white"`
	Moves     []Move     `json:"moves"`

	Outcome  Outcome `json:"outcome"`
	Winner   Stone   `json:"winner"`
	Resigned bool    `json:"resigned,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Side returns the configuration for one colour
func (m *Match) Side(stone Stone) SideConfig {
	if stone == White {
		return m.White
	}
	return m.Black
}

// SetSide replaces the configuration for one colour
func (m *Match) SetSide(stone Stone, cfg SideConfig) {
	if stone == White {
		m.White = cfg
	} else {
		m.Black = cfg
	}
}

// IsEngine returns true if an engine plays the given colour
func (m *Match) IsEngine(stone Stone) bool {
	return m.Side(stone).Engine
}

// HumanSide returns the owner's colour in a vs_ai match, Empty otherwise
func (m *Match) HumanSide() Stone {
	if m.Mode != ModeVsAI {
		return Empty
	}
	if m.Black.Engine {
		return White
	}
	return Black
}

// IsFinished returns true once the match has a result
func (m *Match) IsFinished() bool {
	return m.Outcome == OutcomeWon || m.Outcome == OutcomeDraw
}

// NextPlayer returns the colour to move in an unfinished match
func (m *Match) NextPlayer() Stone {
	if len(m.Moves)%2 == 0 {
		return Black
	}
	return White
}

// Duration returns the wall-clock time from creation to finish (or last update)
func (m *Match) Duration() time.Duration {
	end := m.UpdatedAt
	if m.FinishedAt != nil {
		end = *m.FinishedAt
	}
	if end.Before(m.CreatedAt) {
		return 0
	}
	return end.Sub(m.CreatedAt)
}

// Board rebuilds the board by replaying every recorded move
func (m *Match) Board() (*Board, error) {
	return m.BoardAt(len(m.Moves))
}

// BoardAt rebuilds the board after the first step moves
func (m *Match) BoardAt(step int) (*Board, error) {
	if step < 0 || step > len(m.Moves) {
		return nil, fmt.Errorf("%w: %d of %d", ErrReplayStepOutOfRange, step, len(m.Moves))
	}
	if err := ValidateBoardSize(m.BoardSize); err != nil {
		return nil, err
	}
	board := NewBoard(m.BoardSize)
	for i, mv := range m.Moves[:step] {
		if board.CurrentPlayer() != mv.Player {
			return nil, fmt.Errorf("move %d: %w", i+1, ErrNotYourTurn)
		}
		if !board.IsValidPosition(mv.Position) {
			return nil, fmt.Errorf("move %d: %w", i+1, ErrInvalidPosition)
		}
		if !board.Place(mv.Position.Row, mv.Position.Col) {
			if board.IsOver() {
				return nil, fmt.Errorf("move %d: %w", i+1, ErrMatchFinished)
			}
			return nil, fmt.Errorf("move %d: %w", i+1, ErrCellOccupied)
		}
	}
	return board, nil
}

// Clone returns a deep copy that shares no mutable state with m
func (m *Match) Clone() *Match {
	out := *m
	out.Moves = append([]Move(nil), m.Moves...)
	if m.FinishedAt != nil {
		finished := *m.FinishedAt
		out.FinishedAt = &finished
	}
	return &out
}
