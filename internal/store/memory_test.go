package store

import (
	"errors"
	"testing"

	"matchday-app/internal/model"
)

func newEmptyStore(t *testing.T) *MemoryStore {
	t.Helper()
	t.Setenv("APP", "prod")
	return NewMemoryStore()
}

func createTestMatch(t *testing.T, s *MemoryStore) model.Match {
	t.Helper()
	match, err := s.CreateMatch(model.Match{HomeTeamID: "home", AwayTeamID: "away"})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func TestSeedDataLoadsOutsideProd(t *testing.T) {
	t.Setenv("APP", "dev")
	s := NewMemoryStore()

	if len(s.ListTeams()) == 0 {
		t.Error("expected seeded teams")
	}
	if len(s.ListMatches()) == 0 {
		t.Error("expected seeded matches")
	}
	if _, ok := s.GetUserByEmail("admin@matchday.pl"); !ok {
		t.Error("expected seeded admin user")
	}
	if len(s.ListRunningMatchTimers()) != 0 {
		t.Error("seeded timer should start paused")
	}
}

func TestCreateMatchTimerDefaults(t *testing.T) {
	s := newEmptyStore(t)
	match := createTestMatch(t, s)

	timer, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID})
	if err != nil {
		t.Fatalf("create timer: %v", err)
	}
	if timer.ID == "" {
		t.Error("expected generated id")
	}
	if timer.Period != model.PeriodFirstHalf {
		t.Errorf("expected first half, got %s", timer.Period)
	}
	if timer.Version != 1 {
		t.Errorf("expected version 1, got %d", timer.Version)
	}
}

func TestCreateMatchTimerDuplicate(t *testing.T) {
	s := newEmptyStore(t)
	match := createTestMatch(t, s)

	if _, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID}); err != nil {
		t.Fatalf("create timer: %v", err)
	}
	if _, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID}); err == nil {
		t.Error("expected error for duplicate timer")
	}
}

func TestUpdateMatchTimerBumpsVersion(t *testing.T) {
	s := newEmptyStore(t)
	match := createTestMatch(t, s)

	timer, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID})
	if err != nil {
		t.Fatalf("create timer: %v", err)
	}

	timer.ElapsedSeconds = 30
	updated, err := s.UpdateMatchTimer(timer)
	if err != nil {
		t.Fatalf("update timer: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("expected version 2, got %d", updated.Version)
	}
	if got, _ := s.GetMatchTimer(match.ID); got.ElapsedSeconds != 30 {
		t.Errorf("expected persisted seconds 30, got %d", got.ElapsedSeconds)
	}
}

func TestUpdateMatchTimerStaleVersion(t *testing.T) {
	s := newEmptyStore(t)
	match := createTestMatch(t, s)

	timer, err := s.CreateMatchTimer(model.MatchTimer{MatchID: match.ID})
	if err != nil {
		t.Fatalf("create timer: %v", err)
	}
	if _, err := s.UpdateMatchTimer(timer); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// Same version again is now stale.
	if _, err := s.UpdateMatchTimer(timer); !errors.Is(err, ErrTimerConflict) {
		t.Errorf("expected ErrTimerConflict, got %v", err)
	}
	if got, _ := s.GetMatchTimer(match.ID); got.Version != 2 {
		t.Errorf("stale write must not land, version %d", got.Version)
	}
}

func TestUpdateMatchTimerMissing(t *testing.T) {
	s := newEmptyStore(t)

	_, err := s.UpdateMatchTimer(model.MatchTimer{MatchID: "nope", Version: 1})
	if !errors.Is(err, ErrTimerNotFound) {
		t.Errorf("expected ErrTimerNotFound, got %v", err)
	}
}

func TestListRunningMatchTimers(t *testing.T) {
	s := newEmptyStore(t)

	first := createTestMatch(t, s)
	second, err := s.CreateMatch(model.Match{HomeTeamID: "third", AwayTeamID: "fourth"})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	if _, err := s.CreateMatchTimer(model.MatchTimer{MatchID: first.ID, IsRunning: true}); err != nil {
		t.Fatalf("create timer: %v", err)
	}
	if _, err := s.CreateMatchTimer(model.MatchTimer{MatchID: second.ID}); err != nil {
		t.Fatalf("create timer: %v", err)
	}

	running := s.ListRunningMatchTimers()
	if len(running) != 1 {
		t.Fatalf("expected 1 running timer, got %d", len(running))
	}
	if running[0].MatchID != first.ID {
		t.Errorf("unexpected running timer for match %s", running[0].MatchID)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	s := newEmptyStore(t)

	if _, err := s.CreateMatch(model.Match{HomeTeamID: "a"}); err == nil {
		t.Error("expected error for missing away team")
	}
	if _, err := s.CreateMatch(model.Match{HomeTeamID: "a", AwayTeamID: "a"}); err == nil {
		t.Error("expected error for team playing itself")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newEmptyStore(t)

	if _, err := s.CreateUser(model.User{Email: "x@matchday.pl", PasswordHash: "h"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(model.User{Email: "x@matchday.pl", PasswordHash: "h"}); err == nil {
		t.Error("expected error for duplicate email")
	}
}
