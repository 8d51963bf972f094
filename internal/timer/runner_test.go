package timer

import (
	"context"
	"testing"
	"time"

	"matchday-app/internal/model"
	"matchday-app/internal/store"

	"github.com/jonboulle/clockwork"
)

func newRunnerFixture(t *testing.T) (*Runner, store.Store, model.MatchTimer) {
	t.Helper()
	t.Setenv("APP", "prod")

	s := store.NewMemoryStore()
	match, err := s.CreateMatch(model.Match{HomeTeamID: "home", AwayTeamID: "away", Status: model.MatchLive})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	timer, err := s.CreateMatchTimer(model.MatchTimer{
		MatchID:   match.ID,
		Period:    model.PeriodFirstHalf,
		IsRunning: true,
	})
	if err != nil {
		t.Fatalf("create timer: %v", err)
	}
	return NewRunner(s, nil, clockwork.NewFakeClock()), s, timer
}

func TestTickAllAdvancesRunningTimers(t *testing.T) {
	runner, s, timer := newRunnerFixture(t)

	runner.tickAll()

	got, ok := s.GetMatchTimer(timer.MatchID)
	if !ok {
		t.Fatal("timer disappeared")
	}
	if got.ElapsedSeconds != 1 {
		t.Errorf("expected 00:01, got %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
	}
	if got.Version != timer.Version+1 {
		t.Errorf("expected version bump, got %d", got.Version)
	}
}

func TestTickAllSkipsStoppedTimers(t *testing.T) {
	runner, s, timer := newRunnerFixture(t)

	current, _ := s.GetMatchTimer(timer.MatchID)
	current.IsRunning = false
	if _, err := s.UpdateMatchTimer(current); err != nil {
		t.Fatalf("stop timer: %v", err)
	}

	runner.tickAll()

	got, _ := s.GetMatchTimer(timer.MatchID)
	if got.ElapsedSeconds != 0 {
		t.Errorf("stopped timer must not advance, got %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
	}
}

func TestTickAllAutoPausesAtPeriodEnd(t *testing.T) {
	runner, s, timer := newRunnerFixture(t)

	current, _ := s.GetMatchTimer(timer.MatchID)
	current.ElapsedMinutes = 44
	current.ElapsedSeconds = 59
	if _, err := s.UpdateMatchTimer(current); err != nil {
		t.Fatalf("update timer: %v", err)
	}

	runner.tickAll()

	got, _ := s.GetMatchTimer(timer.MatchID)
	if got.IsRunning || !got.IsPaused {
		t.Errorf("expected auto-pause, got running=%v paused=%v", got.IsRunning, got.IsPaused)
	}
	if got.ElapsedMinutes != 44 || got.ElapsedSeconds != 59 {
		t.Errorf("clock must freeze at 44:59, got %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
	}

	// Paused timers drop out of the running set; another tick changes nothing.
	version := got.Version
	runner.tickAll()
	got, _ = s.GetMatchTimer(timer.MatchID)
	if got.Version != version {
		t.Error("auto-paused timer must not be ticked again")
	}
}

func TestTickAllSurvivesVersionConflict(t *testing.T) {
	_, s, timer := newRunnerFixture(t)
	wrapped := &conflictingStore{Store: s, conflicts: 1}
	runner := NewRunner(wrapped, nil, clockwork.NewFakeClock())

	// The conflicted tick is skipped, the next one lands.
	runner.tickAll()
	got, _ := s.GetMatchTimer(timer.MatchID)
	if got.ElapsedSeconds != 0 {
		t.Errorf("conflicted tick must not advance the clock, got %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
	}

	runner.tickAll()
	got, _ = s.GetMatchTimer(timer.MatchID)
	if got.ElapsedSeconds != 1 {
		t.Errorf("expected 00:01 after retry tick, got %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
	}
}

func TestRunnerRunTicksOnFakeClock(t *testing.T) {
	t.Setenv("APP", "prod")

	s := store.NewMemoryStore()
	match, err := s.CreateMatch(model.Match{HomeTeamID: "home", AwayTeamID: "away", Status: model.MatchLive})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if _, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID, IsRunning: true}); err != nil {
		t.Fatalf("create timer: %v", err)
	}

	fc := clockwork.NewFakeClock()
	runner := NewRunner(s, nil, fc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	fc.BlockUntil(1)
	fc.Advance(time.Second)

	deadline := time.After(2 * time.Second)
	for {
		got, _ := s.GetMatchTimer(match.ID)
		if got.ElapsedSeconds == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timer never ticked, at %02d:%02d", got.ElapsedMinutes, got.ElapsedSeconds)
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on context cancel")
	}
}
