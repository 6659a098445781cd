package gameclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/goban-go/internal/model"
)

type ClockSuite struct {
	suite.Suite
	tc  model.TimeControl
	now time.Time
}

func TestClockSuite(t *testing.T) {
	suite.Run(t, new(ClockSuite))
}

func (s *ClockSuite) SetupTest() {
	s.tc = model.TimeControl{MainTime: 1, ByoyomiTime: 30, ByoyomiPeriods: 3}
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ClockSuite) TestNewState() {
	cs := NewState(s.tc, s.now)
	s.Equal(60, cs.MainTime)
	s.Equal(30, cs.ByoyomiTime)
	s.Equal(3, cs.ByoyomiPeriods)
	s.False(cs.InByoyomi)
	s.Equal(s.now, cs.LastTick)
	s.False(cs.Expired())
}

func (s *ClockSuite) TestTickSubtractsMainTime() {
	cs := *NewState(s.tc, s.now)

	cs, expired := Tick(cs, 25*time.Second, s.tc)
	s.False(expired)
	s.Equal(35, cs.MainTime)
	s.False(cs.InByoyomi)
}

func (s *ClockSuite) TestTickFloorsSubSecondElapsed() {
	cs := *NewState(s.tc, s.now)

	cs, expired := Tick(cs, 900*time.Millisecond, s.tc)
	s.False(expired)
	s.Equal(60, cs.MainTime)
}

func (s *ClockSuite) TestByoyomiEntryDiscardsExcess() {
	cs := *NewState(s.tc, s.now)

	// 90s elapsed against 60s of main time: the 30s overshoot is not
	// charged to the first byoyomi period
	cs, expired := Tick(cs, 90*time.Second, s.tc)
	s.False(expired)
	s.Equal(0, cs.MainTime)
	s.True(cs.InByoyomi)
	s.Equal(30, cs.ByoyomiTime)
	s.Equal(3, cs.ByoyomiPeriods)
}

func (s *ClockSuite) TestByoyomiEntryIsIrreversible() {
	cs := *NewState(s.tc, s.now)
	cs, _ = Tick(cs, 60*time.Second, s.tc)
	s.True(cs.InByoyomi)

	cs, _ = Tick(cs, 0, s.tc)
	s.True(cs.InByoyomi)
	s.Equal(0, cs.MainTime)
}

func (s *ClockSuite) TestByoyomiPeriodResetsOnMove() {
	cs := *NewState(s.tc, s.now)
	cs, _ = Tick(cs, 60*time.Second, s.tc)

	// Moving within the period only consumes the period's clock
	cs, expired := Tick(cs, 10*time.Second, s.tc)
	s.False(expired)
	s.Equal(20, cs.ByoyomiTime)
	s.Equal(3, cs.ByoyomiPeriods)
}

func (s *ClockSuite) TestByoyomiPeriodExhaustionDecrements() {
	cs := *NewState(s.tc, s.now)
	cs, _ = Tick(cs, 60*time.Second, s.tc)

	cs, expired := Tick(cs, 45*time.Second, s.tc)
	s.False(expired)
	s.Equal(2, cs.ByoyomiPeriods)
	s.Equal(30, cs.ByoyomiTime)
}

func (s *ClockSuite) TestLastPeriodExhaustionIsTimeout() {
	tc := model.TimeControl{MainTime: 1, ByoyomiTime: 30, ByoyomiPeriods: 1}
	cs := *NewState(tc, s.now)
	cs, _ = Tick(cs, 60*time.Second, tc)
	s.Equal(1, cs.ByoyomiPeriods)

	cs, expired := Tick(cs, 31*time.Second, tc)
	s.True(expired)
	s.Equal(0, cs.ByoyomiPeriods)
	s.Equal(0, cs.ByoyomiTime)
	s.True(cs.Expired())
}

func (s *ClockSuite) TestMonotonicity() {
	cs := *NewState(s.tc, s.now)

	prev := cs
	for i := 0; i < 20; i++ {
		next, expired := Tick(prev, 17*time.Second, s.tc)
		s.LessOrEqual(next.MainTime, prev.MainTime)
		s.LessOrEqual(next.ByoyomiPeriods, prev.ByoyomiPeriods)
		if prev.InByoyomi {
			s.True(next.InByoyomi)
		}
		if expired {
			s.True(next.Expired())
			return
		}
		prev = next
	}
	s.Fail("clock never expired")
}

func (s *ClockSuite) TestExpiredAt() {
	tc := model.TimeControl{MainTime: 1, ByoyomiTime: 10, ByoyomiPeriods: 1}
	cs := *NewState(tc, s.now)
	cs, _ = Tick(cs, 60*time.Second, tc)
	cs.LastTick = s.now

	s.False(ExpiredAt(cs, s.now.Add(5*time.Second), tc))
	s.True(ExpiredAt(cs, s.now.Add(15*time.Second), tc))
}
