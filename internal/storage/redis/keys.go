package redis

import (
	"fmt"

	"github.com/mcoot/goban-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "goban"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// playerOrderKey returns the Redis key for the registration-ordered player zset
func playerOrderKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomOrderKey returns the Redis key for the creation-ordered room zset
func roomOrderKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// playerRoomKey returns the Redis key for the player_id -> room_id mapping
func playerRoomKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:playerroom:%s", keyPrefix, id)
}
