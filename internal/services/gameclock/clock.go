// Package gameclock implements the dual chess-clock model: a main time
// budget followed by a fixed number of byoyomi overtime periods.
//
// There is no background ticking loop. Clocks advance lazily: a tick is
// applied once per completed move, using the wall-clock delta since that
// color's previous tick. The two colors' clocks never run concurrently.
package gameclock

import (
	"time"

	"github.com/mcoot/goban-go/internal/model"
)

// NewState returns the starting clock state for one color
func NewState(tc model.TimeControl, now time.Time) *model.ClockState {
	return &model.ClockState{
		MainTime:       tc.MainTimeSeconds(),
		ByoyomiTime:    tc.ByoyomiTime,
		ByoyomiPeriods: tc.ByoyomiPeriods,
		InByoyomi:      false,
		LastTick:       now,
	}
}

// Tick charges elapsed time to the clock and returns the new state plus
// whether the color has lost on time.
//
// Main time is floored at zero; when it runs out the clock enters byoyomi
// irreversibly and the first period starts at full length (any excess
// elapsed beyond what zeroed main time is not carried over). In byoyomi,
// an exhausted period consumes one of the remaining periods; exhausting
// the last period is a loss on time.
func Tick(cs model.ClockState, elapsed time.Duration, tc model.TimeControl) (model.ClockState, bool) {
	seconds := int(elapsed / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	if !cs.InByoyomi {
		cs.MainTime -= seconds
		if cs.MainTime <= 0 {
			cs.MainTime = 0
			cs.InByoyomi = true
			cs.ByoyomiTime = tc.ByoyomiTime
		}
		return cs, false
	}

	cs.ByoyomiTime -= seconds
	if cs.ByoyomiTime > 0 {
		return cs, false
	}
	cs.ByoyomiTime = 0

	if cs.ByoyomiPeriods > 1 {
		cs.ByoyomiPeriods--
		cs.ByoyomiTime = tc.ByoyomiTime
		return cs, false
	}

	cs.ByoyomiPeriods = 0
	return cs, true
}

// ExpiredAt reports whether the clock would be out of time if ticked at
// the given instant. Used to verify client-reported timeouts against the
// authoritative clock state before honoring them.
func ExpiredAt(cs model.ClockState, now time.Time, tc model.TimeControl) bool {
	_, expired := Tick(cs, now.Sub(cs.LastTick), tc)
	return expired
}
