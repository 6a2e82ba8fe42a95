package storage

import (
	"context"

	"github.com/mcoot/gomoku-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error
	MatchExists(ctx context.Context, id model.MatchID) (bool, error)
	// ListMatchesForOwner returns the owner's matches, most recently created first
	ListMatchesForOwner(ctx context.Context, owner model.PlayerID) ([]*model.Match, error)

	// Statistics operations
	SaveStats(ctx context.Context, stats *model.Statistics) error
	GetStats(ctx context.Context, playerID model.PlayerID) (*model.Statistics, error)
	DeleteStats(ctx context.Context, playerID model.PlayerID) error
}
