// Package notify defines the outbound event contract between the engine
// and the transport layer. Services construct payloads and hand them to a
// Notifier; the websocket hub is the production implementation.
package notify

import "github.com/mcoot/goban-go/internal/model"

// Notifier delivers events to connected sessions
type Notifier interface {
	// ToPlayer sends an event to a single player's session, if connected
	ToPlayer(playerID model.PlayerID, event string, payload any)
	// Broadcast sends an event to every connected session
	Broadcast(event string, payload any)
}

// Nop is a Notifier that drops everything
type Nop struct{}

func (Nop) ToPlayer(model.PlayerID, string, any) {}
func (Nop) Broadcast(string, any)                {}

var _ Notifier = Nop{}
