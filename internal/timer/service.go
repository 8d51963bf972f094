package timer

import (
	"errors"
	"fmt"

	"matchday-app/internal/model"
	"matchday-app/internal/store"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// retryAttempts bounds how often a control operation re-reads and retries
// after losing a version race against the runner.
const retryAttempts = 3

var (
	ErrMatchNotFound      = errors.New("nie znaleziono meczu")
	ErrTimerExists        = errors.New("zegar dla tego meczu już istnieje")
	ErrTimerMissing       = errors.New("mecz nie ma zegara")
	ErrTimerNotRunning    = errors.New("zegar nie jest uruchomiony")
	ErrNoClockInPeriod    = errors.New("ta faza meczu nie ma zegara")
	ErrInvalidStoppage    = errors.New("doliczony czas nie może być ujemny")
	ErrMatchFinished      = errors.New("mecz dobiegł końca")
	ErrTimerStateConflict = errors.New("zegar został w międzyczasie zmieniony, spróbuj ponownie")
)

// Service is the control surface for match clocks. All writes go through the
// store's optimistic version check; a lost race is retried against a fresh
// read a few times before giving up.
type Service struct {
	store store.Store
	hub   *Hub
	clock clockwork.Clock
}

func NewService(s store.Store, hub *Hub, clock clockwork.Clock) *Service {
	return &Service{store: s, hub: hub, clock: clock}
}

// Initialize creates a stopped first-half timer for a match. Fails when the
// match does not exist or already has a timer.
func (s *Service) Initialize(matchID string) (model.MatchTimer, error) {
	match, ok := s.store.GetMatch(matchID)
	if !ok {
		return model.MatchTimer{}, ErrMatchNotFound
	}
	if _, exists := s.store.GetMatchTimer(match.ID); exists {
		return model.MatchTimer{}, ErrTimerExists
	}
	timer := model.MatchTimer{
		ID:      uuid.NewString(),
		MatchID: match.ID,
		Period:  model.PeriodFirstHalf,
	}
	created, err := s.store.CreateMatchTimer(timer)
	if err != nil {
		return model.MatchTimer{}, fmt.Errorf("create match timer: %w", err)
	}
	s.notifyState(created)
	return created, nil
}

// Start resumes the clock, including mid-period after an auto-pause.
func (s *Service) Start(matchID string) (model.MatchTimer, error) {
	return s.mutate(matchID, func(t model.MatchTimer) (model.MatchTimer, error) {
		if t.Period == model.PeriodPenalties {
			return t, ErrMatchFinished
		}
		if !IsTimedPeriod(t.Period) {
			return t, ErrNoClockInPeriod
		}
		if t.IsRunning {
			return t, nil
		}
		return Start(t, s.clock.Now()), nil
	})
}

// Pause stops a running clock.
func (s *Service) Pause(matchID string) (model.MatchTimer, error) {
	return s.mutate(matchID, func(t model.MatchTimer) (model.MatchTimer, error) {
		if !t.IsRunning {
			return t, ErrTimerNotRunning
		}
		return Pause(t, s.clock.Now()), nil
	})
}

// SetStoppage sets the added-time allowance for the timer's current period.
func (s *Service) SetStoppage(matchID string, minutes int) (model.MatchTimer, error) {
	if minutes < 0 {
		return model.MatchTimer{}, ErrInvalidStoppage
	}
	return s.mutate(matchID, func(t model.MatchTimer) (model.MatchTimer, error) {
		updated, ok := SetStoppage(t, minutes)
		if !ok {
			return t, ErrNoClockInPeriod
		}
		return updated, nil
	})
}

// Advance moves the match to the next period. At penalties it is a no-op.
func (s *Service) Advance(matchID string) (model.MatchTimer, error) {
	return s.mutate(matchID, func(t model.MatchTimer) (model.MatchTimer, error) {
		advanced, ok := Advance(t)
		if !ok {
			return t, nil
		}
		return advanced, nil
	})
}

// State returns the current subscriber payload for a match clock.
func (s *Service) State(matchID string) (StatePayload, error) {
	t, ok := s.store.GetMatchTimer(matchID)
	if !ok {
		return StatePayload{}, ErrTimerMissing
	}
	return NewStatePayload(t), nil
}

// mutate runs fn against a fresh read of the timer and persists the result,
// retrying on version conflicts. fn returning the timer unchanged with a nil
// error skips the write.
func (s *Service) mutate(matchID string, fn func(model.MatchTimer) (model.MatchTimer, error)) (model.MatchTimer, error) {
	for attempt := 0; attempt < retryAttempts; attempt++ {
		current, ok := s.store.GetMatchTimer(matchID)
		if !ok {
			return model.MatchTimer{}, ErrTimerMissing
		}
		next, err := fn(current)
		if err != nil {
			return model.MatchTimer{}, err
		}
		if next == current {
			return current, nil
		}
		persisted, err := s.store.UpdateMatchTimer(next)
		if errors.Is(err, store.ErrTimerConflict) {
			log.Debug().Str("match_id", matchID).Int("attempt", attempt+1).Msg("timer version conflict, retrying")
			continue
		}
		if err != nil {
			return model.MatchTimer{}, fmt.Errorf("update match timer: %w", err)
		}
		s.notifyState(persisted)
		return persisted, nil
	}
	return model.MatchTimer{}, ErrTimerStateConflict
}

func (s *Service) notifyState(t model.MatchTimer) {
	if s.hub != nil {
		s.hub.BroadcastState(t)
	}
}
