package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"matchday-app/internal/timer"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleTimerInit(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, err := s.timers.Initialize(matchID); err != nil {
		s.redirectTimerError(w, r, matchID, err)
		return
	}
	redirectBack(w, r, "/matches/"+matchID, "timer_initialized")
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, err := s.timers.Start(matchID); err != nil {
		s.redirectTimerError(w, r, matchID, err)
		return
	}
	redirectBack(w, r, "/matches/"+matchID, "timer_started")
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, err := s.timers.Pause(matchID); err != nil {
		s.redirectTimerError(w, r, matchID, err)
		return
	}
	redirectBack(w, r, "/matches/"+matchID, "timer_paused")
}

func (s *Server) handleTimerStoppage(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(r.FormValue("minutes")))
	if err != nil {
		http.Error(w, "nieprawidłowa liczba minut", http.StatusBadRequest)
		return
	}
	if _, err := s.timers.SetStoppage(matchID, minutes); err != nil {
		s.redirectTimerError(w, r, matchID, err)
		return
	}
	redirectBack(w, r, "/matches/"+matchID, "stoppage_set")
}

func (s *Server) handleTimerAdvance(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, err := s.timers.Advance(matchID); err != nil {
		s.redirectTimerError(w, r, matchID, err)
		return
	}
	redirectBack(w, r, "/matches/"+matchID, "period_advanced")
}

// handleTimerPanel serves the HTMX refresh of the clock partial. A missing
// timer renders the empty panel rather than an error so public pages degrade
// quietly.
func (s *Server) handleTimerPanel(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if !isHTMX(r) {
		http.Redirect(w, r, "/matches/"+matchID, http.StatusSeeOther)
		return
	}
	state, err := s.timers.State(matchID)
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	view := struct {
		Timer   *TimerPanelView
		IsAdmin bool
	}{
		Timer:   newTimerPanelView(matchID, state),
		IsAdmin: isAdmin(s.currentUser(r)),
	}
	if err := s.templates.RenderPartial(w, "timer_panel.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	state, err := s.timers.State(matchID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Error().Err(err).Str("match_id", matchID).Msg("encode timer state")
	}
}

func (s *Server) handleTimerSubscribe(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	if _, ok := s.store.GetMatch(matchID); !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.hub.Subscribe(w, r, matchID); err != nil {
		log.Error().Err(err).Str("match_id", matchID).Msg("websocket subscribe")
	}
}

func (s *Server) redirectTimerError(w http.ResponseWriter, r *http.Request, matchID string, err error) {
	if errors.Is(err, timer.ErrMatchNotFound) {
		http.NotFound(w, r)
		return
	}
	log.Warn().Err(err).Str("match_id", matchID).Msg("timer control rejected")
	http.Redirect(w, r, "/matches/"+matchID+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
