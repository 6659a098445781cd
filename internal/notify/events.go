package notify

import "github.com/mcoot/goban-go/internal/model"

// Outbound event names
const (
	EventOnlinePlayers  = "onlinePlayers"
	EventGameRooms      = "gameRooms"
	EventGameInvitation = "gameInvitation"
	EventGameStart      = "gameStart"
	EventMoveMade       = "moveMade"
	EventGameEnd        = "gameEnd"
	EventError          = "error"
	EventResult         = "result"
)

// PlayerInfo is a player summary as sent in onlinePlayers broadcasts
type PlayerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// SeatInfo is a seated player as sent in gameRooms broadcasts
type SeatInfo struct {
	Username string `json:"username"`
}

// RoomInfo is a lobby room summary
type RoomInfo struct {
	ID            string                            `json:"id"`
	Creator       string                            `json:"creator"`
	Settings      model.TimeControl                 `json:"settings"`
	Status        string                            `json:"status"`
	Players       map[string]*SeatInfo              `json:"players"`
	RemainingTime map[model.Color]*model.ClockState `json:"remainingTime,omitempty"`
}

// Invitation carries a game proposal to its target
type Invitation struct {
	From     string            `json:"from"`
	Settings model.TimeControl `json:"settings"`
}

// GameStart is the full initial snapshot sent to both players when a
// room transitions to playing
type GameStart struct {
	GameID        string                            `json:"gameId"`
	Color         model.Color                       `json:"color"`
	Opponent      string                            `json:"opponent"`
	Board         [][]model.CellState               `json:"board"`
	CurrentPlayer model.Color                       `json:"currentPlayer"`
	RemainingTime map[model.Color]*model.ClockState `json:"remainingTime"`
}

// MoveMade reports a committed move to both players
type MoveMade struct {
	X              int                               `json:"x"`
	Y              int                               `json:"y"`
	Color          model.Color                       `json:"color"`
	NextPlayer     model.Color                       `json:"nextPlayer"`
	CapturedStones []model.Position                  `json:"capturedStones"`
	RemainingTime  map[model.Color]*model.ClockState `json:"remainingTime"`
}

// GameEnd reports the result of a finished room
type GameEnd struct {
	Winner model.Color `json:"winner"`
	Reason string      `json:"reason"`
}

// ErrorInfo is a generic error notification
type ErrorInfo struct {
	Message string `json:"message"`
}

// Result acknowledges a single inbound request
type Result struct {
	Request string `json:"request"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PlayersPayload builds the onlinePlayers payload
func PlayersPayload(players []*model.Player) []PlayerInfo {
	out := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerInfo{
			ID:       string(p.ID),
			Username: p.Username,
			Status:   string(p.Status),
		})
	}
	return out
}

// RoomPayload builds a single gameRooms entry
func RoomPayload(room *model.Room) RoomInfo {
	players := map[string]*SeatInfo{
		"black": nil,
		"white": nil,
	}
	if room.Black != nil {
		players["black"] = &SeatInfo{Username: room.Black.Username}
	}
	if room.White != nil {
		players["white"] = &SeatInfo{Username: room.White.Username}
	}
	return RoomInfo{
		ID:            string(room.ID),
		Creator:       room.CreatorName,
		Settings:      room.Settings,
		Status:        string(room.Status),
		Players:       players,
		RemainingTime: room.Clocks,
	}
}

// RoomsPayload builds the gameRooms payload
func RoomsPayload(rooms []*model.Room) []RoomInfo {
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomPayload(r))
	}
	return out
}
