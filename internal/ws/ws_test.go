package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
	"github.com/mcoot/goban-go/internal/services/game"
	"github.com/mcoot/goban-go/internal/services/matchmaking"
	"github.com/mcoot/goban-go/internal/services/registry"
	"github.com/mcoot/goban-go/internal/storage/memory"
	"github.com/mcoot/goban-go/internal/testutil"
)

type WSSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestWSSuite(t *testing.T) {
	suite.Run(t, new(WSSuite))
}

func (s *WSSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	hub := NewHub(logger)
	clock := clockwork.NewRealClock()

	reg := registry.New(store, hub, clock, logger)
	games := game.NewController(store, hub, clock, logger)
	mm := matchmaking.New(store, games, hub, clock, logger)

	handler := NewHandler(hub, reg, mm, games, logger, nil)
	s.server = httptest.NewServer(handler)
	s.T().Cleanup(s.server.Close)
}

type testConn struct {
	s    *WSSuite
	conn *websocket.Conn
}

func (s *WSSuite) dial() *testConn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { conn.Close() })
	return &testConn{s: s, conn: conn}
}

func (c *testConn) send(event string, payload any) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		c.s.Require().NoError(err)
		data = raw
	}
	c.s.Require().NoError(c.conn.WriteJSON(Envelope{Event: event, Data: data}))
}

// waitFor reads envelopes until one with the given event name arrives,
// discarding anything else in between
func (c *testConn) waitFor(event string) json.RawMessage {
	deadline := time.Now().Add(2 * time.Second)
	c.s.Require().NoError(c.conn.SetReadDeadline(deadline))
	for {
		var env Envelope
		c.s.Require().NoError(c.conn.ReadJSON(&env), "waiting for %q", event)
		if env.Event == event {
			return env.Data
		}
	}
}

func (c *testConn) waitForResult(request string) notify.Result {
	for {
		data := c.waitFor(notify.EventResult)
		var result notify.Result
		c.s.Require().NoError(json.Unmarshal(data, &result))
		if result.Request == request {
			return result
		}
	}
}

func (c *testConn) login(username string) {
	c.send(RequestLogin, LoginRequest{Username: username})
	result := c.waitForResult(RequestLogin)
	c.s.Require().True(result.Success, "login failed: %s", result.Error)
}

func (s *WSSuite) defaultSettings() model.TimeControl {
	return model.TimeControl{MainTime: 30, ByoyomiTime: 30, ByoyomiPeriods: 5}
}

func (s *WSSuite) TestLoginDeliversLobbyState() {
	alice := s.dial()
	alice.send(RequestLogin, LoginRequest{Username: "alice"})

	var players []notify.PlayerInfo
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventOnlinePlayers), &players))
	s.Require().Len(players, 1)
	s.Equal("alice", players[0].Username)
	s.Equal("online", players[0].Status)

	result := alice.waitForResult(RequestLogin)
	s.True(result.Success)

	var rooms []notify.RoomInfo
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameRooms), &rooms))
	s.Empty(rooms)
}

func (s *WSSuite) TestLoginRejectsTakenName() {
	alice := s.dial()
	alice.login("alice")

	impostor := s.dial()
	impostor.send(RequestLogin, LoginRequest{Username: "alice"})
	result := impostor.waitForResult(RequestLogin)
	s.False(result.Success)
	s.NotEmpty(result.Error)
}

func (s *WSSuite) TestRequestsRequireLogin() {
	conn := s.dial()
	conn.send(RequestCreateRoom, CreateRoomRequest{Settings: s.defaultSettings()})
	result := conn.waitForResult(RequestCreateRoom)
	s.False(result.Success)
}

func (s *WSSuite) TestOpenRoomGameFlow() {
	alice := s.dial()
	alice.login("alice")
	bob := s.dial()
	bob.login("bob")

	alice.send(RequestCreateRoom, CreateRoomRequest{Settings: s.defaultSettings()})
	s.Require().True(alice.waitForResult(RequestCreateRoom).Success)

	// Skip any lobby snapshot from before the room existed
	var rooms []notify.RoomInfo
	for len(rooms) == 0 {
		s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventGameRooms), &rooms))
	}
	s.Require().Len(rooms, 1)
	s.Equal("alice", rooms[0].Creator)
	s.Equal("waiting", rooms[0].Status)

	bob.send(RequestJoinRoom, JoinRoomRequest{RoomID: rooms[0].ID})

	var aliceStart, bobStart notify.GameStart
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameStart), &aliceStart))
	s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventGameStart), &bobStart))
	s.Equal(model.ColorBlack, aliceStart.Color)
	s.Equal(model.ColorWhite, bobStart.Color)
	s.Equal("bob", aliceStart.Opponent)
	s.Equal(aliceStart.GameID, bobStart.GameID)

	alice.send(RequestMakeMove, MoveRequest{X: 3, Y: 3})

	var move notify.MoveMade
	s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventMoveMade), &move))
	s.Equal(3, move.X)
	s.Equal(3, move.Y)
	s.Equal(model.ColorBlack, move.Color)
	s.Equal(model.ColorWhite, move.NextPlayer)

	// Bob cannot move twice in a row after his reply
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventMoveMade), &move))
	bob.send(RequestMakeMove, MoveRequest{X: 4, Y: 4})
	s.Require().True(bob.waitForResult(RequestMakeMove).Success)
	bob.send(RequestMakeMove, MoveRequest{X: 5, Y: 5})
	s.Require().False(bob.waitForResult(RequestMakeMove).Success)

	bob.send(RequestResign, nil)

	var end notify.GameEnd
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameEnd), &end))
	s.Equal(model.ColorBlack, end.Winner)
	s.Equal(model.EndReasonResignation, end.Reason)
}

func (s *WSSuite) TestInviteAcceptFlow() {
	alice := s.dial()
	alice.login("alice")
	bob := s.dial()
	bob.login("bob")

	settings := model.TimeControl{MainTime: 10, ByoyomiTime: 20, ByoyomiPeriods: 3}
	alice.send(RequestInvitePlayer, InviteRequest{Target: "bob", Settings: settings})
	s.Require().True(alice.waitForResult(RequestInvitePlayer).Success)

	var inv notify.Invitation
	s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventGameInvitation), &inv))
	s.Equal("alice", inv.From)
	s.Equal(settings, inv.Settings)

	bob.send(RequestAcceptInvite, AcceptRequest{Inviter: "alice"})

	var aliceStart, bobStart notify.GameStart
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameStart), &aliceStart))
	s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventGameStart), &bobStart))
	// The inviter takes black and moves first
	s.Equal(model.ColorBlack, aliceStart.Color)
	s.Equal(model.ColorWhite, bobStart.Color)
}

func (s *WSSuite) TestCounterInviteFlow() {
	alice := s.dial()
	alice.login("alice")
	bob := s.dial()
	bob.login("bob")

	alice.send(RequestInvitePlayer, InviteRequest{Target: "bob", Settings: s.defaultSettings()})
	bob.waitFor(notify.EventGameInvitation)

	counter := model.TimeControl{MainTime: 5, ByoyomiTime: 10, ByoyomiPeriods: 1}
	bob.send(RequestCounterInvite, CounterRequest{Inviter: "alice", Settings: counter})

	var inv notify.Invitation
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameInvitation), &inv))
	s.Equal("bob", inv.From)
	s.Equal(counter, inv.Settings)

	alice.send(RequestAcceptInvite, AcceptRequest{Inviter: "bob"})

	var bobStart notify.GameStart
	s.Require().NoError(json.Unmarshal(bob.waitFor(notify.EventGameStart), &bobStart))
	s.Equal(model.ColorBlack, bobStart.Color)
}

func (s *WSSuite) TestDisconnectForfeitsGame() {
	alice := s.dial()
	alice.login("alice")
	bob := s.dial()
	bob.login("bob")

	alice.send(RequestInvitePlayer, InviteRequest{Target: "bob", Settings: s.defaultSettings()})
	bob.waitFor(notify.EventGameInvitation)
	bob.send(RequestAcceptInvite, AcceptRequest{Inviter: "alice"})
	alice.waitFor(notify.EventGameStart)
	bob.waitFor(notify.EventGameStart)

	bob.conn.Close()

	var end notify.GameEnd
	s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventGameEnd), &end))
	s.Equal(model.ColorBlack, end.Winner)
	s.Equal(model.EndReasonResignation, end.Reason)

	// Bob is gone from the online list too
	for {
		var players []notify.PlayerInfo
		s.Require().NoError(json.Unmarshal(alice.waitFor(notify.EventOnlinePlayers), &players))
		if len(players) == 1 {
			s.Equal("alice", players[0].Username)
			return
		}
	}
}
