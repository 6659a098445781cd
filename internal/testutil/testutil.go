package testutil

import (
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/goban-go/internal/model"
	"github.com/mcoot/goban-go/internal/notify"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Notification is one captured outbound event
type Notification struct {
	PlayerID model.PlayerID // empty for broadcasts
	Event    string
	Payload  any
}

// RecordingNotifier captures notifications for assertions in tests
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

var _ notify.Notifier = (*RecordingNotifier)(nil)

// NewRecordingNotifier creates an empty RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) ToPlayer(playerID model.PlayerID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{PlayerID: playerID, Event: event, Payload: payload})
}

func (r *RecordingNotifier) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{Event: event, Payload: payload})
}

// Events returns a snapshot of all captured notifications
func (r *RecordingNotifier) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.events))
	copy(out, r.events)
	return out
}

// EventsFor returns captured notifications addressed to one player
func (r *RecordingNotifier) EventsFor(playerID model.PlayerID) []Notification {
	var out []Notification
	for _, n := range r.Events() {
		if n.PlayerID == playerID {
			out = append(out, n)
		}
	}
	return out
}

// LastOf returns the most recent notification with the given event name,
// or nil if none was captured
func (r *RecordingNotifier) LastOf(event string) *Notification {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Event == event {
			return &events[i]
		}
	}
	return nil
}

// Reset clears all captured notifications
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
