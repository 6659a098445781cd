package model

import "time"

// PlayerID uniquely identifies a player session across the system.
// It is a stable id decoupled from the underlying transport connection,
// so the connection handle can be swapped without touching game state.
type PlayerID string

// PlayerStatus represents what a player is currently doing
type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusPlaying PlayerStatus = "playing"
)

// Player represents a connected participant
type Player struct {
	ID        PlayerID
	Username  string
	Status    PlayerStatus
	CreatedAt time.Time
}

// Clone returns a copy that can be mutated independently
func (p *Player) Clone() *Player {
	c := *p
	return &c
}
