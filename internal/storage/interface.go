package storage

import (
	"context"

	"github.com/mcoot/goban-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations. ListPlayers returns players in registration order.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, username string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Room operations. ListRooms returns rooms in creation order.
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Player-to-room lookup. GetPlayerRoom returns "" when the player is
	// not in a room; ClearPlayerRoom is a no-op in that case.
	SetPlayerRoom(ctx context.Context, playerID model.PlayerID, roomID model.RoomID) error
	GetPlayerRoom(ctx context.Context, playerID model.PlayerID) (model.RoomID, error)
	ClearPlayerRoom(ctx context.Context, playerID model.PlayerID) error
}
