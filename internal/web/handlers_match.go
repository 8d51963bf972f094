package web

import (
	"net/http"
	"strconv"
	"strings"

	"matchday-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMatchList(w http.ResponseWriter, r *http.Request) {
	teamID := strings.TrimSpace(r.URL.Query().Get("team"))
	var matches []model.Match
	if teamID != "" {
		matches = s.store.ListMatchesByTeam(teamID)
	} else {
		matches = s.store.ListMatches()
	}
	sortMatchesByKickoff(matches, false)

	view := MatchListView{
		BaseView: s.baseView(r, "Mecze"),
		Matches:  s.matchViews(matches),
		Teams:    s.store.ListTeams(),
	}
	if err := s.templates.Render(w, "matches.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMatchShow(w http.ResponseWriter, r *http.Request) {
	match, ok := s.store.GetMatch(chi.URLParam(r, "matchID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	matchView := s.matchView(match)
	// The detail page shows the clock whenever one exists, whatever the
	// match status says.
	if matchView.Timer == nil {
		if state, err := s.timers.State(match.ID); err == nil {
			matchView.Timer = newTimerPanelView(match.ID, state)
		}
	}
	view := MatchDetailView{
		BaseView: s.baseView(r, "Mecz"),
		Match:    matchView,
		Timer:    matchView.Timer,
	}
	if err := s.templates.Render(w, "match_show.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMatchNew(w http.ResponseWriter, r *http.Request) {
	view := MatchFormView{
		BaseView: s.baseView(r, "Nowy mecz"),
		Teams:    s.store.ListTeams(),
	}
	if err := s.templates.Render(w, "match_new.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleMatchCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}

	renderError := func(message string) {
		view := MatchFormView{
			BaseView: s.baseView(r, "Nowy mecz"),
			Teams:    s.store.ListTeams(),
			Error:    message,
		}
		if err := s.templates.Render(w, "match_new.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	homeID := strings.TrimSpace(r.FormValue("home_team_id"))
	awayID := strings.TrimSpace(r.FormValue("away_team_id"))
	if homeID == "" || awayID == "" {
		renderError("Wybierz obie drużyny")
		return
	}
	if homeID == awayID {
		renderError("Drużyna nie może grać sama ze sobą")
		return
	}
	home, ok := s.store.GetTeam(homeID)
	if !ok {
		renderError("Nie znaleziono drużyny gospodarzy")
		return
	}
	if _, ok := s.store.GetTeam(awayID); !ok {
		renderError("Nie znaleziono drużyny gości")
		return
	}
	kickoff, err := parseKickoff(r.FormValue("kickoff_at"))
	if err != nil {
		renderError("Podaj datę i godzinę meczu")
		return
	}
	round, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("round")))

	match := model.Match{
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Round:      round,
		Stadium:    home.Stadium,
		Status:     model.MatchScheduled,
		KickoffAt:  kickoff,
	}
	if _, err := s.store.CreateMatch(match); err != nil {
		renderError("Nie można dodać meczu: " + err.Error())
		return
	}
	http.Redirect(w, r, "/matches?notice=match_added", http.StatusSeeOther)
}

// handleMatchResult records goals and optionally moves the match between
// statuses. The live clock is untouched; it is driven only by its own
// endpoints.
func (s *Server) handleMatchResult(w http.ResponseWriter, r *http.Request) {
	match, ok := s.store.GetMatch(chi.URLParam(r, "matchID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}
	homeGoals, err := strconv.Atoi(strings.TrimSpace(r.FormValue("home_goals")))
	if err != nil || homeGoals < 0 {
		http.Error(w, "nieprawidłowy wynik", http.StatusBadRequest)
		return
	}
	awayGoals, err := strconv.Atoi(strings.TrimSpace(r.FormValue("away_goals")))
	if err != nil || awayGoals < 0 {
		http.Error(w, "nieprawidłowy wynik", http.StatusBadRequest)
		return
	}
	match.HomeGoals = homeGoals
	match.AwayGoals = awayGoals
	if status := model.MatchStatus(strings.TrimSpace(r.FormValue("status"))); status != "" {
		switch status {
		case model.MatchScheduled, model.MatchLive, model.MatchFinished, model.MatchPostponed:
			match.Status = status
		default:
			http.Error(w, "nieprawidłowy status", http.StatusBadRequest)
			return
		}
	}
	if err := s.store.UpdateMatch(match); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectBack(w, r, "/matches/"+match.ID, "result_saved")
}
