// Package timer implements the shared match clock: a forward-only period
// state machine ticked once per second by a single server-side runner,
// controlled by admins and observed by everyone else.
package timer

import (
	"time"

	"matchday-app/internal/model"
)

// TickResult describes what a single one-second tick did to the clock.
type TickResult int

const (
	// TickNoop: the clock was not running or the period has no clock.
	TickNoop TickResult = iota
	// TickAdvanced: the clock moved forward by one second.
	TickAdvanced
	// TickPeriodEnded: the minute rollover hit regulation plus stoppage;
	// the clock was force-paused instead of committing the increment.
	TickPeriodEnded
)

var nextPeriod = map[model.TimerPeriod]model.TimerPeriod{
	model.PeriodFirstHalf:  model.PeriodHalfTime,
	model.PeriodHalfTime:   model.PeriodSecondHalf,
	model.PeriodSecondHalf: model.PeriodExtraTime1,
	model.PeriodExtraTime1: model.PeriodExtraTime2,
	model.PeriodExtraTime2: model.PeriodPenalties,
}

// regulationMinutes is the absolute clock value at which a timed period ends,
// before stoppage is added. Half time and penalties have no running clock.
var regulationMinutes = map[model.TimerPeriod]int{
	model.PeriodFirstHalf:  45,
	model.PeriodSecondHalf: 90,
	model.PeriodExtraTime1: 105,
	model.PeriodExtraTime2: 120,
}

// periodStartMinutes is the clock value a period begins at. The clock carries
// over at half time boundaries (second half starts at 45:00) but restarts for
// the first period of extra time.
var periodStartMinutes = map[model.TimerPeriod]int{
	model.PeriodFirstHalf:  0,
	model.PeriodHalfTime:   0,
	model.PeriodSecondHalf: 45,
	model.PeriodExtraTime1: 0,
	model.PeriodExtraTime2: 105,
	model.PeriodPenalties:  0,
}

// IsTimedPeriod reports whether the period has a running clock and a
// stoppage allowance.
func IsTimedPeriod(p model.TimerPeriod) bool {
	_, ok := regulationMinutes[p]
	return ok
}

// Tick advances the clock by one second. On minute rollover it checks the
// period threshold (regulation plus the period's stoppage allowance): if the
// rolled minute would reach it, the increment is not committed and the clock
// is force-paused at its pre-roll value, waiting for an explicit advance.
func Tick(t model.MatchTimer) (model.MatchTimer, TickResult) {
	if !t.IsRunning || !IsTimedPeriod(t.Period) {
		return t, TickNoop
	}
	newSeconds := t.ElapsedSeconds + 1
	if newSeconds < 60 {
		t.ElapsedSeconds = newSeconds
		return t, TickAdvanced
	}
	newMinutes := t.ElapsedMinutes + 1
	threshold := regulationMinutes[t.Period] + t.StoppageFor(t.Period)
	if newMinutes >= threshold {
		t.IsRunning = false
		t.IsPaused = true
		return t, TickPeriodEnded
	}
	t.ElapsedMinutes = newMinutes
	t.ElapsedSeconds = 0
	return t, TickAdvanced
}

// Advance moves the timer to the next period, resetting the clock to the new
// period's start value, stopped but not paused: the operator starts the new
// period explicitly. Returns false at penalties, which are terminal.
func Advance(t model.MatchTimer) (model.MatchTimer, bool) {
	next, ok := nextPeriod[t.Period]
	if !ok {
		return t, false
	}
	t.Period = next
	t.ElapsedMinutes = periodStartMinutes[next]
	t.ElapsedSeconds = 0
	t.IsRunning = false
	t.IsPaused = false
	return t, true
}

// SetStoppage overwrites the stoppage allowance for the timer's current
// period. Returns false without touching the record when the current period
// has no clock. The new allowance takes effect on the next minute rollover;
// a period already auto-paused stays paused until started again.
func SetStoppage(t model.MatchTimer, minutes int) (model.MatchTimer, bool) {
	if minutes < 0 || !IsTimedPeriod(t.Period) {
		return t, false
	}
	switch t.Period {
	case model.PeriodFirstHalf:
		t.StoppageFirstHalf = minutes
	case model.PeriodSecondHalf:
		t.StoppageSecondHalf = minutes
	case model.PeriodExtraTime1:
		t.StoppageExtra1 = minutes
	case model.PeriodExtraTime2:
		t.StoppageExtra2 = minutes
	}
	return t, true
}

// Start resumes the clock from any stopped state, including mid-period after
// an auto-pause.
func Start(t model.MatchTimer, now time.Time) model.MatchTimer {
	t.IsRunning = true
	t.IsPaused = false
	t.StartedAt = &now
	return t
}

// Pause stops a running clock.
func Pause(t model.MatchTimer, now time.Time) model.MatchTimer {
	t.IsRunning = false
	t.IsPaused = true
	t.PausedAt = &now
	return t
}
