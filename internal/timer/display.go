package timer

import (
	"fmt"

	"matchday-app/internal/model"
)

// DisplayState is the read-only projection of a match timer for rendering.
type DisplayState struct {
	ClockText    string
	StoppageText string
	PeriodLabel  string
	StatusLabel  string
}

var periodLabels = map[model.TimerPeriod]string{
	model.PeriodFirstHalf:  "Pierwsza połowa",
	model.PeriodHalfTime:   "Przerwa",
	model.PeriodSecondHalf: "Druga połowa",
	model.PeriodExtraTime1: "Dogrywka I",
	model.PeriodExtraTime2: "Dogrywka II",
	model.PeriodPenalties:  "Rzuty karne",
}

// Display projects a timer record into presentation fields. Pure, no side
// effects. StoppageText is empty unless the current period carries a nonzero
// allowance.
func Display(t model.MatchTimer) DisplayState {
	state := DisplayState{
		ClockText:   fmt.Sprintf("%02d:%02d", t.ElapsedMinutes, t.ElapsedSeconds),
		PeriodLabel: periodLabels[t.Period],
	}
	if stoppage := t.StoppageFor(t.Period); stoppage > 0 {
		state.StoppageText = fmt.Sprintf("+%d", stoppage)
	}
	switch {
	case t.IsRunning:
		state.StatusLabel = "Running"
	case t.IsPaused:
		state.StatusLabel = "Paused"
	default:
		state.StatusLabel = "Stopped"
	}
	return state
}

// PeriodLabel returns the human label for a period.
func PeriodLabel(p model.TimerPeriod) string {
	return periodLabels[p]
}
