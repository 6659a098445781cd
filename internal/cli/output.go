package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	case PlayersResult:
		o.printPlayers(v)
	case RoomsResult:
		o.printRooms(v)
	case RoomResult:
		o.printRoom(v.Room)
	default:
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// PlayerEntry response type
type PlayerEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// PlayersResult response type
type PlayersResult struct {
	Players []PlayerEntry `json:"players"`
}

// TimeSettings response type
type TimeSettings struct {
	MainTime       int `json:"mainTime"`
	ByoyomiTime    int `json:"byoyomiTime"`
	ByoyomiPeriods int `json:"byoyomiPeriods"`
}

// SeatEntry response type
type SeatEntry struct {
	Username string `json:"username"`
}

// RoomEntry response type
type RoomEntry struct {
	ID       string                `json:"id"`
	Creator  string                `json:"creator"`
	Settings TimeSettings          `json:"settings"`
	Status   string                `json:"status"`
	Players  map[string]*SeatEntry `json:"players"`
}

// RoomsResult response type
type RoomsResult struct {
	Rooms []RoomEntry `json:"rooms"`
}

// RoomResult response type
type RoomResult struct {
	Room RoomEntry `json:"room"`
}

func (o *Output) printPlayers(r PlayersResult) {
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		fmt.Printf("  - %s [%s] (%s)\n", p.Username, p.Status, p.ID)
	}
}

func (o *Output) printRooms(r RoomsResult) {
	fmt.Printf("Rooms (%d):\n", len(r.Rooms))
	for _, room := range r.Rooms {
		fmt.Printf("  - %s by %s [%s]\n", room.ID, room.Creator, room.Status)
	}
}

func (o *Output) printRoom(r RoomEntry) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("Creator: %s\n", r.Creator)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Time: %dm main, %d x %ds byoyomi\n",
		r.Settings.MainTime, r.Settings.ByoyomiPeriods, r.Settings.ByoyomiTime)
	for _, color := range []string{"black", "white"} {
		name := "(open)"
		if seat := r.Players[color]; seat != nil {
			name = seat.Username
		}
		fmt.Printf("  %s: %s\n", color, name)
	}
}
