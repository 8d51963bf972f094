package timer

import (
	"errors"
	"testing"

	"matchday-app/internal/model"
	"matchday-app/internal/store"

	"github.com/jonboulle/clockwork"
)

func newTestService(t *testing.T) (*Service, store.Store, model.Match) {
	t.Helper()
	t.Setenv("APP", "prod") // empty store, no seed data

	s := store.NewMemoryStore()
	match, err := s.CreateMatch(model.Match{HomeTeamID: "home", AwayTeamID: "away", Status: model.MatchLive})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return NewService(s, nil, clockwork.NewFakeClock()), s, match
}

func TestServiceInitialize(t *testing.T) {
	svc, _, match := newTestService(t)

	timer, err := svc.Initialize(match.ID)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if timer.Period != model.PeriodFirstHalf {
		t.Errorf("expected first half, got %s", timer.Period)
	}
	if timer.IsRunning || timer.IsPaused {
		t.Error("new timer must be stopped")
	}
	if timer.Version != 1 {
		t.Errorf("expected version 1, got %d", timer.Version)
	}
}

func TestServiceInitializeTwice(t *testing.T) {
	svc, _, match := newTestService(t)

	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := svc.Initialize(match.ID); !errors.Is(err, ErrTimerExists) {
		t.Errorf("expected ErrTimerExists, got %v", err)
	}
}

func TestServiceInitializeUnknownMatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Initialize("no-such-match"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestServiceStartAndPause(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	started, err := svc.Start(match.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !started.IsRunning {
		t.Error("expected running timer")
	}
	if started.Version != 2 {
		t.Errorf("expected version bump to 2, got %d", started.Version)
	}

	paused, err := svc.Pause(match.ID)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.IsRunning || !paused.IsPaused {
		t.Errorf("expected paused, got running=%v paused=%v", paused.IsRunning, paused.IsPaused)
	}
}

func TestServicePauseWhenStopped(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if _, err := svc.Pause(match.ID); !errors.Is(err, ErrTimerNotRunning) {
		t.Errorf("expected ErrTimerNotRunning, got %v", err)
	}
}

func TestServiceStartIsIdempotent(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	first, err := svc.Start(match.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	second, err := svc.Start(match.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.Version != first.Version {
		t.Errorf("starting a running timer must not write, versions %d and %d", first.Version, second.Version)
	}
}

func TestServiceStartInHalfTime(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := svc.Advance(match.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if _, err := svc.Start(match.ID); !errors.Is(err, ErrNoClockInPeriod) {
		t.Errorf("expected ErrNoClockInPeriod, got %v", err)
	}
}

func TestServiceSetStoppage(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	updated, err := svc.SetStoppage(match.ID, 3)
	if err != nil {
		t.Fatalf("set stoppage: %v", err)
	}
	if updated.StoppageFirstHalf != 3 {
		t.Errorf("expected stoppage 3, got %d", updated.StoppageFirstHalf)
	}

	if _, err := svc.SetStoppage(match.ID, -1); !errors.Is(err, ErrInvalidStoppage) {
		t.Errorf("expected ErrInvalidStoppage, got %v", err)
	}
}

func TestServiceSetStoppageInHalfTime(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := svc.Advance(match.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}

	if _, err := svc.SetStoppage(match.ID, 2); !errors.Is(err, ErrNoClockInPeriod) {
		t.Errorf("expected ErrNoClockInPeriod, got %v", err)
	}
}

func TestServiceAdvanceChainAndTerminal(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	want := []model.TimerPeriod{
		model.PeriodHalfTime,
		model.PeriodSecondHalf,
		model.PeriodExtraTime1,
		model.PeriodExtraTime2,
		model.PeriodPenalties,
	}
	for _, period := range want {
		advanced, err := svc.Advance(match.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", period, err)
		}
		if advanced.Period != period {
			t.Fatalf("expected %s, got %s", period, advanced.Period)
		}
	}

	// Penalties are terminal: advancing again is a silent no-op.
	final, err := svc.Advance(match.ID)
	if err != nil {
		t.Fatalf("terminal advance: %v", err)
	}
	if final.Period != model.PeriodPenalties {
		t.Errorf("expected penalties, got %s", final.Period)
	}
}

func TestServiceOperationsWithoutTimer(t *testing.T) {
	svc, _, match := newTestService(t)

	if _, err := svc.Start(match.ID); !errors.Is(err, ErrTimerMissing) {
		t.Errorf("start: expected ErrTimerMissing, got %v", err)
	}
	if _, err := svc.State(match.ID); !errors.Is(err, ErrTimerMissing) {
		t.Errorf("state: expected ErrTimerMissing, got %v", err)
	}
}

func TestServiceState(t *testing.T) {
	svc, _, match := newTestService(t)
	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := svc.SetStoppage(match.ID, 2); err != nil {
		t.Fatalf("set stoppage: %v", err)
	}

	state, err := svc.State(match.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Clock != "00:00" {
		t.Errorf("expected 00:00, got %s", state.Clock)
	}
	if state.StoppageText != "+2" {
		t.Errorf("expected +2, got %q", state.StoppageText)
	}
	if state.PeriodLabel != "Pierwsza połowa" {
		t.Errorf("unexpected label %q", state.PeriodLabel)
	}
	if state.Status != "Stopped" {
		t.Errorf("expected Stopped, got %s", state.Status)
	}
}

// conflictingStore fails the first update with a version conflict to prove
// the service retries against a fresh read.
type conflictingStore struct {
	store.Store
	conflicts int
}

func (c *conflictingStore) UpdateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	if c.conflicts > 0 {
		c.conflicts--
		return model.MatchTimer{}, store.ErrTimerConflict
	}
	return c.Store.UpdateMatchTimer(timer)
}

func TestServiceRetriesOnConflict(t *testing.T) {
	_, base, match := newTestService(t)
	wrapped := &conflictingStore{Store: base, conflicts: 1}
	svc := NewService(wrapped, nil, clockwork.NewFakeClock())

	if _, err := svc.Initialize(match.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	started, err := svc.Start(match.ID)
	if err != nil {
		t.Fatalf("start after conflict: %v", err)
	}
	if !started.IsRunning {
		t.Error("expected running timer after retry")
	}
}

func TestServiceGivesUpAfterRepeatedConflicts(t *testing.T) {
	_, base, match := newTestService(t)
	if _, err := base.CreateMatchTimer(model.MatchTimer{MatchID: match.ID}); err != nil {
		t.Fatalf("create timer: %v", err)
	}
	wrapped := &conflictingStore{Store: base, conflicts: retryAttempts}
	svc := NewService(wrapped, nil, clockwork.NewFakeClock())

	if _, err := svc.Start(match.ID); !errors.Is(err, ErrTimerStateConflict) {
		t.Errorf("expected ErrTimerStateConflict, got %v", err)
	}
}
