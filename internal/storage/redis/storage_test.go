package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/goban-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	ctx   context.Context
	mini  *miniredis.Miniredis
	store *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.store = NewWithClient(client, DefaultConfig())
}

func (s *StorageSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StorageSuite) player(id model.PlayerID, name string, createdAt time.Time) *model.Player {
	return &model.Player{ID: id, Username: name, Status: model.StatusOnline, CreatedAt: createdAt}
}

func (s *StorageSuite) TestPlayerRoundTrip() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.SavePlayer(s.ctx, s.player("p-1", "alice", now)))

	byID, err := s.store.GetPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
	s.Equal(model.StatusOnline, byID.Status)
	s.True(byID.CreatedAt.Equal(now))

	byName, err := s.store.GetPlayerByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p-1"), byName.ID)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.store.GetPlayer(s.ctx, "nope")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.store.GetPlayerByName(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	now := time.Now()
	s.Require().NoError(s.store.SavePlayer(s.ctx, s.player("p-1", "alice", now)))
	s.Require().NoError(s.store.DeletePlayer(s.ctx, "p-1"))

	_, err := s.store.GetPlayer(s.ctx, "p-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.store.GetPlayerByName(s.ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	s.NoError(s.store.DeletePlayer(s.ctx, "p-1"))
}

func (s *StorageSuite) TestListPlayersOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"carol", "alice", "bob"} {
		p := s.player(model.PlayerID(name), name, base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.store.SavePlayer(s.ctx, p))
	}

	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("carol", players[0].Username)
	s.Equal("alice", players[1].Username)
	s.Equal("bob", players[2].Username)
}

func (s *StorageSuite) TestListPlayersPrunesExpiredEntries() {
	now := time.Now()
	s.Require().NoError(s.store.SavePlayer(s.ctx, s.player("p-1", "alice", now)))
	s.Require().NoError(s.store.SavePlayer(s.ctx, s.player("p-2", "bob", now.Add(time.Second))))

	// Expire alice's value while her order entry survives
	s.mini.Del(playerKey("p-1"))

	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("bob", players[0].Username)
}

func (s *StorageSuite) TestRoomRoundTrip() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tc := model.TimeControl{MainTime: 30, ByoyomiTime: 30, ByoyomiPeriods: 5}
	room := &model.Room{
		ID:          "r-1",
		Creator:     "p-1",
		CreatorName: "alice",
		Settings:    tc,
		Status:      model.RoomStatusPlaying,
		Black:       &model.Seat{PlayerID: "p-1", Username: "alice"},
		White:       &model.Seat{PlayerID: "p-2", Username: "bob"},
		Board:       model.NewBoard(model.BoardSize),
		Turn:        model.ColorBlack,
		Clocks: map[model.Color]*model.ClockState{
			model.ColorBlack: {MainTime: 1800, ByoyomiTime: 30, ByoyomiPeriods: 5, LastTick: now},
			model.ColorWhite: {MainTime: 1800, ByoyomiTime: 30, ByoyomiPeriods: 5, LastTick: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	room.Board.Set(model.Position{X: 3, Y: 3}, model.CellBlack)

	s.Require().NoError(s.store.SaveRoom(s.ctx, room))

	stored, err := s.store.GetRoom(s.ctx, "r-1")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, stored.Status)
	s.Equal(tc, stored.Settings)
	s.Equal("bob", stored.White.Username)
	s.Equal(model.CellBlack, stored.Board.Get(model.Position{X: 3, Y: 3}))
	s.Equal(1800, stored.Clocks[model.ColorBlack].MainTime)
	s.True(stored.Clocks[model.ColorBlack].LastTick.Equal(now))
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{ID: "r-1", CreatedAt: time.Now()}
	s.Require().NoError(s.store.SaveRoom(s.ctx, room))
	s.Require().NoError(s.store.DeleteRoom(s.ctx, "r-1"))

	_, err := s.store.GetRoom(s.ctx, "r-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	rooms, err := s.store.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestListRoomsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []model.RoomID{"r-3", "r-1", "r-2"} {
		room := &model.Room{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		s.Require().NoError(s.store.SaveRoom(s.ctx, room))
	}

	rooms, err := s.store.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal(model.RoomID("r-3"), rooms[0].ID)
	s.Equal(model.RoomID("r-1"), rooms[1].ID)
	s.Equal(model.RoomID("r-2"), rooms[2].ID)
}

func (s *StorageSuite) TestPlayerRoomLookup() {
	roomID, err := s.store.GetPlayerRoom(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(model.RoomID(""), roomID)

	s.Require().NoError(s.store.SetPlayerRoom(s.ctx, "p-1", "r-1"))

	roomID, err = s.store.GetPlayerRoom(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(model.RoomID("r-1"), roomID)

	s.Require().NoError(s.store.ClearPlayerRoom(s.ctx, "p-1"))
	roomID, err = s.store.GetPlayerRoom(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(model.RoomID(""), roomID)
}
