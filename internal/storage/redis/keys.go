package redis

import (
	"fmt"

	"github.com/mcoot/broadside/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "broadside"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(handle model.Handle) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, handle)
}

// gameKey returns the Redis key for a Game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%d", keyPrefix, id)
}

// directoryKey returns the Redis key for the game catalog document
func directoryKey() string {
	return fmt.Sprintf("%s:directory", keyPrefix)
}

// playerSeqKey returns the Redis key for the player id counter
func playerSeqKey() string {
	return fmt.Sprintf("%s:player_id_count", keyPrefix)
}

// gameSeqKey returns the Redis key for the game id counter
func gameSeqKey() string {
	return fmt.Sprintf("%s:game_count", keyPrefix)
}

// flagKey returns the Redis key for a change-notification flag
func flagKey(channel string) string {
	return fmt.Sprintf("%s:flag:%s", keyPrefix, channel)
}
