package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/goban-go/internal/api/apierr"
	"github.com/mcoot/goban-go/internal/api/response"
	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/services/registry"
	"github.com/mcoot/goban-go/internal/storage/memory"
	"github.com/mcoot/goban-go/internal/testutil"
)

type APISuite struct {
	suite.Suite
	ctx      context.Context
	server   *httptest.Server
	registry *registry.Service
	games    *game.Controller
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.ctx = context.Background()
	logger := testutil.NopLogger()
	store := memory.New()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	notifier := notify.Nop{}

	s.registry = registry.New(store, notifier, clock, logger)
	s.games = game.NewController(store, notifier, clock, logger)

	router := NewRouter(RouterConfig{
		Logger:         logger,
		Registry:       s.registry,
		GameController: s.games,
	})
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *APISuite) get(path string, result any) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	if result != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(result))
	}
	return resp
}

func (s *APISuite) TestHealth() {
	var result response.HealthResponse
	resp := s.get("/api/v1/health", &result)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", result.Status)
}

func (s *APISuite) TestListPlayers() {
	_, err := s.registry.Register(s.ctx, "alice")
	s.Require().NoError(err)
	_, err = s.registry.Register(s.ctx, "bob")
	s.Require().NoError(err)

	var result response.PlayersResponse
	resp := s.get("/api/v1/players", &result)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(result.Players, 2)
	s.Equal("alice", result.Players[0].Username)
	s.Equal("bob", result.Players[1].Username)
}

func (s *APISuite) TestListRooms() {
	alice, err := s.registry.Register(s.ctx, "alice")
	s.Require().NoError(err)
	tc := model.TimeControl{MainTime: 30, ByoyomiTime: 30, ByoyomiPeriods: 5}
	_, err = s.games.CreateOpenRoom(s.ctx, alice, tc)
	s.Require().NoError(err)

	var result response.RoomsResponse
	resp := s.get("/api/v1/rooms", &result)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(result.Rooms, 1)
	s.Equal("alice", result.Rooms[0].Creator)
	s.Equal("waiting", result.Rooms[0].Status)
}

func (s *APISuite) TestGetRoom() {
	alice, err := s.registry.Register(s.ctx, "alice")
	s.Require().NoError(err)
	tc := model.TimeControl{MainTime: 30, ByoyomiTime: 30, ByoyomiPeriods: 5}
	room, err := s.games.CreateOpenRoom(s.ctx, alice, tc)
	s.Require().NoError(err)

	var result response.RoomResponse
	resp := s.get("/api/v1/rooms/"+string(room.ID), &result)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(string(room.ID), result.Room.ID)
	s.Require().NotNil(result.Room.Players["black"])
	s.Equal("alice", result.Room.Players["black"].Username)
	s.Nil(result.Room.Players["white"])
}

func (s *APISuite) TestGetRoomNotFound() {
	var result apierr.ErrorResponse
	resp := s.get("/api/v1/rooms/nope", &result)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(apierr.CodeRoomNotFound, result.Error.Code)
}
