package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a person who owns matches
type Player struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"display_name"`
	IsGuest     bool      `json:"is_guest"` // true for unregistered players
	CreatedAt   time.Time `json:"created_at"`
}

// RegisteredPlayer extends Player with authentication data.
// Stored separately so the password hash never travels with a session.
type RegisteredPlayer struct {
	PlayerID     PlayerID  `json:"player_id"`
	Username     string    `json:"username"` // login username (immutable)
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
