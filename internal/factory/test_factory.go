package factory

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcoot/goban-go/internal/storage/memory"
	"github.com/mcoot/goban-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	FakeClock *clockwork.FakeClock
	Notifier  *testutil.RecordingNotifier
}

// NewTestApp creates an App configured for testing: in-memory storage, a
// fake clock and a recording notifier instead of the websocket hub
func NewTestApp() *TestApp {
	store := memory.New()
	clk := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	notifier := testutil.NewRecordingNotifier()

	app := newWithDependencies(store, clk, notifier, testutil.NopLogger())

	return &TestApp{
		App:       app,
		FakeClock: clk,
		Notifier:  notifier,
	}
}
