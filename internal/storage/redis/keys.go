package redis

import (
	"fmt"

	"github.com/mcoot/gomoku-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "gomoku"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesForOwnerIndexKey returns the Redis key for the sorted set of an owner's matches,
// scored by creation time
func matchesForOwnerIndexKey(owner model.PlayerID) string {
	return fmt.Sprintf("%s:idx:matches_for_owner:%s", keyPrefix, owner)
}

// statsKey returns the Redis key for a player's Statistics
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}
