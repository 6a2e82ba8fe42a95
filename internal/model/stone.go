package model

import (
	"encoding/json"
	"fmt"
)

// Stone is the content of a single board cell
type Stone int

const (
	Empty Stone = 0
	Black Stone = 1 // Moves first
	White Stone = 2
)

// Opponent returns the other player's stone. Empty maps to Empty.
func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// IsPlayer returns true for Black and White
func (s Stone) IsPlayer() bool {
	return s == Black || s == White
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Symbol returns the single-character rendering used by text output
func (s Stone) Symbol() byte {
	switch s {
	case Black:
		return 'X'
	case White:
		return 'O'
	default:
		return '.'
	}
}

// ParseStone parses "black"/"white" (or "1"/"2")
func ParseStone(v string) (Stone, error) {
	switch v {
	case "black", "1", "b", "x":
		return Black, nil
	case "white", "2", "w", "o":
		return White, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidSide, v)
	}
}

// MarshalJSON encodes players by name so stored records stay readable
func (s Stone) MarshalJSON() ([]byte, error) {
	if s == Empty {
		return []byte(`""`), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names written by MarshalJSON as well as raw numbers
func (s *Stone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if n < 0 || n > int(White) {
			return fmt.Errorf("%w: %d", ErrInvalidSide, n)
		}
		*s = Stone(n)
		return nil
	}
	if name == "" || name == "empty" {
		*s = Empty
		return nil
	}
	parsed, err := ParseStone(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
