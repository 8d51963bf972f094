package web

import (
	"net/http"

	"matchday-app/internal/model"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	matches := s.store.ListMatches()

	live := make([]model.Match, 0)
	upcoming := make([]model.Match, 0)
	finished := make([]model.Match, 0)
	for _, m := range matches {
		switch m.Status {
		case model.MatchLive:
			live = append(live, m)
		case model.MatchScheduled:
			upcoming = append(upcoming, m)
		case model.MatchFinished:
			finished = append(finished, m)
		}
	}
	sortMatchesByKickoff(upcoming, true)
	sortMatchesByKickoff(finished, false)
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}
	if len(finished) > 5 {
		finished = finished[:5]
	}

	standings := BuildStandings(s.store.ListTeams(), matches)
	if len(standings) > 5 {
		standings = standings[:5]
	}

	news := s.newsPostViews(s.store.ListNewsPosts())
	if len(news) > 3 {
		news = news[:3]
	}

	view := HomeView{
		BaseView:        s.baseView(r, "Matchday"),
		LiveMatches:     s.matchViews(live),
		UpcomingMatches: s.matchViews(upcoming),
		RecentResults:   s.matchViews(finished),
		TopOfTable:      standings,
		LatestNews:      news,
	}
	if err := s.templates.Render(w, "home.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
