package model

import (
	"fmt"
	"strings"
)

// Difficulty selects one of the fixed engine profiles
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyExpert
)

// DefaultDifficulty is used when a request does not name one
const DefaultDifficulty = DifficultyMedium

// DifficultyProfile bundles the knobs that trade engine strength for speed
type DifficultyProfile struct {
	Depth        int     `json:"depth"`
	RandomFactor float64 `json:"random_factor"` // Probability of playing a random move
	UseSearch    bool    `json:"use_search"`
	// MaxCandidateMoves caps the moves tried at the root; <= 0 means unrestricted
	MaxCandidateMoves int `json:"max_candidate_moves"`
	// MaxReplyMoves caps the moves tried at interior nodes; <= 0 means unrestricted
	MaxReplyMoves int `json:"max_reply_moves"`
}

var profiles = [...]DifficultyProfile{
	DifficultyEasy:   {Depth: 1, RandomFactor: 0.9, UseSearch: false, MaxCandidateMoves: 8, MaxReplyMoves: 3},
	DifficultyMedium: {Depth: 2, RandomFactor: 0.6, UseSearch: true, MaxCandidateMoves: 6, MaxReplyMoves: 3},
	DifficultyHard:   {Depth: 2, RandomFactor: 0.4, UseSearch: true, MaxCandidateMoves: 4, MaxReplyMoves: 3},
	DifficultyExpert: {Depth: 2, RandomFactor: 0.2, UseSearch: true, MaxCandidateMoves: 3, MaxReplyMoves: 3},
}

var difficultyNames = [...]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
	DifficultyExpert: "expert",
}

// Valid returns true for the four defined difficulties
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyExpert
}

// Profile returns the fixed settings for d. Unknown values fall back to the default profile.
func (d Difficulty) Profile() DifficultyProfile {
	if !d.Valid() {
		return profiles[DefaultDifficulty]
	}
	return profiles[d]
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// DisplayName returns a human-readable label
func (d Difficulty) DisplayName() string {
	name := d.String()
	if !d.Valid() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseDifficulty looks a difficulty up by name, case-insensitively
func ParseDifficulty(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Difficulty(i), nil
		}
	}
	return DefaultDifficulty, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// ValidDifficulties returns all difficulties from weakest to strongest
func ValidDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// MarshalText encodes the difficulty by name
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a difficulty name
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
