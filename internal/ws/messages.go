package ws

import (
	"encoding/json"

	"github.com/mcoot/goban-go/internal/model"
)

// Envelope is the wire framing for every message in both directions: an
// event name plus an event-specific payload
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names
const (
	RequestLogin            = "login"
	RequestCreateRoom       = "createRoom"
	RequestJoinRoom         = "joinRoom"
	RequestInvitePlayer     = "invitePlayer"
	RequestCounterInvite    = "counterInvite"
	RequestAcceptInvite     = "acceptInvite"
	RequestMakeMove         = "makeMove"
	RequestResign           = "resign"
	RequestTimeout          = "timeout"
	RequestGetRooms         = "getRooms"
	RequestGetOnlinePlayers = "getOnlinePlayers"
)

// LoginRequest registers a session under a display name
type LoginRequest struct {
	Username string `json:"username"`
}

// CreateRoomRequest publishes an open room
type CreateRoomRequest struct {
	Settings model.TimeControl `json:"settings"`
}

// JoinRoomRequest joins a waiting open room
type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

// InviteRequest proposes a game directly to a named player
type InviteRequest struct {
	Target   string            `json:"target"`
	Settings model.TimeControl `json:"settings"`
}

// CounterRequest replies to an invitation with different settings
type CounterRequest struct {
	Inviter  string            `json:"inviter"`
	Settings model.TimeControl `json:"settings"`
}

// AcceptRequest accepts the live invitation from the named inviter
type AcceptRequest struct {
	Inviter string `json:"inviter"`
}

// MoveRequest places a stone at the given intersection
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}
