package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match errors
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchFinished     = errors.New("match is already finished")
	ErrNotMatchOwner     = errors.New("player does not own this match")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrNoAIPlayer        = errors.New("no engine controls the side to move")
	ErrUnknownMode       = errors.New("unknown match mode")
	ErrInvalidSide       = errors.New("invalid side")
	ErrNoMovesAvailable  = errors.New("no legal moves available")
	ErrUnknownDifficulty = errors.New("unknown difficulty")

	// Board errors
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidPosition  = errors.New("invalid board position")
	ErrCellOccupied     = errors.New("cell is already occupied")

	// History errors
	ErrReplayStepOutOfRange = errors.New("replay step out of range")
	ErrInvalidImport        = errors.New("invalid import document")

	// Stats errors
	ErrStatsNotFound = errors.New("statistics not found")
)
