package model

import "time"

// RoomID uniquely identifies a game room
type RoomID string

// RoomStatus represents the lifecycle phase of a room
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // One seat filled, listed in the lobby
	RoomStatusPlaying  RoomStatus = "playing"  // Both seats filled, game in progress
	RoomStatusFinished RoomStatus = "finished" // Terminal
)

// Game end reasons, sent verbatim in gameEnd notifications
const (
	EndReasonResignation = "resignation"
	EndReasonTimeout     = "timeout"
)

// TimeControl is the negotiated time settings for a room.
// Immutable once the room is created.
type TimeControl struct {
	MainTime       int `json:"mainTime"`       // minutes
	ByoyomiTime    int `json:"byoyomiTime"`    // seconds per overtime period
	ByoyomiPeriods int `json:"byoyomiPeriods"` // number of overtime periods
}

// Validate checks the suggested bounds enforced at the proposal boundary
func (tc TimeControl) Validate() error {
	if tc.MainTime < 1 || tc.ByoyomiTime < 10 || tc.ByoyomiPeriods < 1 {
		return ErrInvalidTimeControl
	}
	return nil
}

// MainTimeSeconds returns the main time budget in seconds
func (tc TimeControl) MainTimeSeconds() int {
	return tc.MainTime * 60
}

// ClockState is the remaining-time accounting for one color.
// There is no ticking timer anywhere: elapsed time is derived from
// LastTick deltas at the moment of each move.
type ClockState struct {
	MainTime       int       `json:"mainTime"`       // seconds remaining of main time
	ByoyomiTime    int       `json:"byoyomiTime"`    // seconds remaining of the current period
	ByoyomiPeriods int       `json:"byoyomiPeriods"` // periods remaining, never increases
	InByoyomi      bool      `json:"inByoyomi"`      // irreversible once set
	LastTick       time.Time `json:"lastTick"`
}

// Expired returns true if the color has lost on time
func (cs ClockState) Expired() bool {
	return cs.InByoyomi && cs.ByoyomiPeriods == 0 && cs.ByoyomiTime == 0
}

// Seat holds one color slot in a room
type Seat struct {
	PlayerID PlayerID `json:"playerId"`
	Username string   `json:"username"`
}

// Room is one game session: board, clocks and two seats.
// Owned exclusively by the game controller; the registry only ever holds
// a player-to-room-id lookup.
type Room struct {
	ID          RoomID
	Creator     PlayerID
	CreatorName string
	Settings    TimeControl
	Status      RoomStatus
	Black       *Seat
	White       *Seat
	Board       *Board
	Turn        Color
	Clocks      map[Color]*ClockState
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeatFor returns the seat for the given color, or nil if vacant
func (r *Room) SeatFor(color Color) *Seat {
	if color == ColorBlack {
		return r.Black
	}
	return r.White
}

// ColorOf returns the color seated by the given player
func (r *Room) ColorOf(playerID PlayerID) (Color, bool) {
	if r.Black != nil && r.Black.PlayerID == playerID {
		return ColorBlack, true
	}
	if r.White != nil && r.White.PlayerID == playerID {
		return ColorWhite, true
	}
	return "", false
}

// Vacate clears the seat held by the given player
func (r *Room) Vacate(playerID PlayerID) {
	if r.Black != nil && r.Black.PlayerID == playerID {
		r.Black = nil
	}
	if r.White != nil && r.White.PlayerID == playerID {
		r.White = nil
	}
}

// Empty returns true if both seats are vacant
func (r *Room) Empty() bool {
	return r.Black == nil && r.White == nil
}

// Clone returns a deep copy that shares no mutable state with the
// receiver
func (r *Room) Clone() *Room {
	c := *r
	if r.Black != nil {
		seat := *r.Black
		c.Black = &seat
	}
	if r.White != nil {
		seat := *r.White
		c.White = &seat
	}
	if r.Board != nil {
		c.Board = r.Board.Clone()
	}
	if r.Clocks != nil {
		c.Clocks = make(map[Color]*ClockState, len(r.Clocks))
		for color, cs := range r.Clocks {
			state := *cs
			c.Clocks[color] = &state
		}
	}
	return &c
}

// Invitation is an ephemeral game proposal between two players.
// Lives only in the matchmaking service until accepted, countered or
// superseded; never persisted.
type Invitation struct {
	From      PlayerID
	To        PlayerID
	Settings  TimeControl
	CreatedAt time.Time
}
