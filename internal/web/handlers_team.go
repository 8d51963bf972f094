package web

import (
	"net/http"
	"strconv"
	"strings"

	"matchday-app/internal/model"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleTeamList(w http.ResponseWriter, r *http.Request) {
	teams := s.store.ListTeams()
	entries := make([]TeamEntry, 0, len(teams))
	for _, team := range teams {
		played := 0
		for _, m := range s.store.ListMatchesByTeam(team.ID) {
			if m.Status == model.MatchFinished {
				played++
			}
		}
		entries = append(entries, TeamEntry{Team: team, Played: played})
	}

	view := TeamListView{
		BaseView: s.baseView(r, "Drużyny"),
		Teams:    entries,
	}
	if err := s.templates.Render(w, "teams.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleTeamShow(w http.ResponseWriter, r *http.Request) {
	team, ok := s.store.GetTeam(chi.URLParam(r, "teamID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	matches := s.store.ListMatchesByTeam(team.ID)
	sortMatchesByKickoff(matches, false)

	entry := TeamEntry{Team: team, Matches: s.matchViews(matches)}
	for _, m := range matches {
		if m.Status == model.MatchFinished {
			entry.Played++
		}
	}

	view := TeamListView{
		BaseView: s.baseView(r, team.Name),
		Teams:    []TeamEntry{entry},
	}
	if err := s.templates.Render(w, "team_show.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleTeamNew(w http.ResponseWriter, r *http.Request) {
	view := TeamFormView{BaseView: s.baseView(r, "Nowa drużyna")}
	if err := s.templates.Render(w, "team_new.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleTeamCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "nieprawidłowe dane", http.StatusBadRequest)
		return
	}

	renderError := func(message string) {
		view := TeamFormView{
			BaseView: s.baseView(r, "Nowa drużyna"),
			Error:    message,
		}
		if err := s.templates.Render(w, "team_new.html", view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		renderError("Podaj nazwę drużyny")
		return
	}
	shortCode := strings.ToUpper(strings.TrimSpace(r.FormValue("short_code")))
	if len(shortCode) < 2 || len(shortCode) > 4 {
		renderError("Skrót musi mieć od 2 do 4 znaków")
		return
	}
	founded, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("founded")))

	team := model.Team{
		Name:      name,
		ShortCode: shortCode,
		City:      strings.TrimSpace(r.FormValue("city")),
		Stadium:   strings.TrimSpace(r.FormValue("stadium")),
		Founded:   founded,
	}
	if _, err := s.store.CreateTeam(team); err != nil {
		renderError("Nie można dodać drużyny: " + err.Error())
		return
	}
	http.Redirect(w, r, "/teams?notice=team_added", http.StatusSeeOther)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	view := TableView{
		BaseView:  s.baseView(r, "Tabela"),
		Standings: BuildStandings(s.store.ListTeams(), s.store.ListMatches()),
	}
	if err := s.templates.Render(w, "table.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
