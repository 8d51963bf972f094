package web

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"matchday-app/internal/model"
)

func (s *Server) matchView(match model.Match) MatchView {
	home, _ := s.store.GetTeam(match.HomeTeamID)
	away, _ := s.store.GetTeam(match.AwayTeamID)
	view := MatchView{
		Match:       match,
		HomeTeam:    home,
		AwayTeam:    away,
		StatusText:  matchStatusText(match.Status),
		KickoffText: match.KickoffAt.Format("02.01.2006 15:04"),
	}
	if match.Status == model.MatchLive || match.Status == model.MatchFinished {
		view.ScoreLine = fmt.Sprintf("%d : %d", match.HomeGoals, match.AwayGoals)
	} else {
		view.ScoreLine = "- : -"
	}
	if match.Status == model.MatchLive {
		if state, err := s.timers.State(match.ID); err == nil {
			view.Timer = newTimerPanelView(match.ID, state)
		}
	}
	return view
}

func (s *Server) matchViews(matches []model.Match) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, s.matchView(m))
	}
	return views
}

func matchStatusText(status model.MatchStatus) string {
	switch status {
	case model.MatchScheduled:
		return "Zaplanowany"
	case model.MatchLive:
		return "Na żywo"
	case model.MatchFinished:
		return "Zakończony"
	case model.MatchPostponed:
		return "Przełożony"
	}
	return string(status)
}

func sortMatchesByKickoff(matches []model.Match, ascending bool) {
	sort.Slice(matches, func(i, j int) bool {
		if ascending {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].KickoffAt.After(matches[j].KickoffAt)
	})
}

func parseKickoff(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing kickoff date")
	}
	// datetime-local inputs send this layout
	return time.Parse("2006-01-02T15:04", value)
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string, notice string) {
	ref := strings.TrimSpace(r.Referer())
	if ref != "" {
		if notice == "" {
			http.Redirect(w, r, ref, http.StatusSeeOther)
			return
		}
		if u, err := url.Parse(ref); err == nil {
			q := u.Query()
			q.Set("notice", notice)
			u.RawQuery = q.Encode()
			http.Redirect(w, r, u.String(), http.StatusSeeOther)
			return
		}
	}
	if notice == "" {
		http.Redirect(w, r, fallback, http.StatusSeeOther)
		return
	}
	if u, err := url.Parse(fallback); err == nil {
		q := u.Query()
		q.Set("notice", notice)
		u.RawQuery = q.Encode()
		http.Redirect(w, r, u.String(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

func (s *Server) baseView(r *http.Request, title string) BaseView {
	currentUser := s.currentUser(r)
	notice := strings.TrimSpace(r.URL.Query().Get("notice"))
	return BaseView{
		Title:           title,
		CurrentUser:     currentUser,
		Users:           s.store.ListUsers(),
		IsAuthenticated: currentUser.ID != "",
		IsAdmin:         isAdmin(currentUser),
		IsDev:           isDevMode(),
		FlashSuccess:    flashMessage(notice),
		FlashError:      errorMessage(strings.TrimSpace(r.URL.Query().Get("error"))),
	}
}

func errorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg := flashMessage(code); msg != "" {
		return msg
	}
	return code
}
