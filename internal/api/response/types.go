package response

import "github.com/mcoot/goban-go/internal/notify"

// HealthResponse reports server liveness
type HealthResponse struct {
	Status string `json:"status"`
}

// PlayersResponse lists registered players
type PlayersResponse struct {
	Players []notify.PlayerInfo `json:"players"`
}

// RoomsResponse lists rooms
type RoomsResponse struct {
	Rooms []notify.RoomInfo `json:"rooms"`
}

// RoomResponse wraps a single room
type RoomResponse struct {
	Room notify.RoomInfo `json:"room"`
}
