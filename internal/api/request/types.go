package request

import "github.com/mcoot/gomoku-go/internal/model"

// CreateGuestRequest is the request body for creating a guest player.
// An empty display name gets a generated one.
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateMatchRequest is the request body for starting a match
type CreateMatchRequest struct {
	Mode      string `json:"mode"`
	BoardSize int    `json:"board_size,omitempty"`

	// vs_ai
	HumanSide  model.Stone       `json:"human_side,omitempty"`
	Difficulty *model.Difficulty `json:"difficulty,omitempty"`

	// ai_battle
	BlackDifficulty *model.Difficulty `json:"black_difficulty,omitempty"`
	WhiteDifficulty *model.Difficulty `json:"white_difficulty,omitempty"`
}

// PlaceStoneRequest is the request body for playing a move
type PlaceStoneRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// SetDifficultyRequest is the request body for changing an engine's difficulty
type SetDifficultyRequest struct {
	Side       model.Stone       `json:"side"`
	Difficulty *model.Difficulty `json:"difficulty"`
}
