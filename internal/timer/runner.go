package timer

import (
	"context"
	"errors"
	"time"

	"matchday-app/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Runner is the single tick authority: one loop advancing every running
// match clock once per second. Clients never tick; they only observe.
type Runner struct {
	store    store.Store
	hub      *Hub
	clock    clockwork.Clock
	interval time.Duration
}

func NewRunner(s store.Store, hub *Hub, clock clockwork.Clock) *Runner {
	return &Runner{
		store:    s,
		hub:      hub,
		clock:    clock,
		interval: time.Second,
	}
}

// Run ticks all running timers once per interval until the context is
// cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Msg("timer runner started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("timer runner shutting down")
			return
		case <-ticker.Chan():
			r.tickAll()
		}
	}
}

// tickAll advances every running clock by one second. A version conflict
// means an admin action landed between the read and the write; the tick is
// skipped and the next one works from the fresh record.
func (r *Runner) tickAll() {
	for _, t := range r.store.ListRunningMatchTimers() {
		ticked, result := Tick(t)
		if result == TickNoop {
			continue
		}
		persisted, err := r.store.UpdateMatchTimer(ticked)
		if errors.Is(err, store.ErrTimerConflict) {
			log.Debug().Str("match_id", t.MatchID).Msg("tick lost version race, skipping")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("match_id", t.MatchID).Msg("persist tick")
			continue
		}
		if r.hub == nil {
			continue
		}
		if result == TickPeriodEnded {
			r.hub.BroadcastPeriodEnded(persisted)
		}
		r.hub.BroadcastState(persisted)
	}
}
