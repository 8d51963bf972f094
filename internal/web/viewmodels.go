package web

import (
	"matchday-app/internal/model"
	"matchday-app/internal/timer"
)

type BaseView struct {
	Title           string
	CurrentUser     model.User
	Users           []model.User
	IsAuthenticated bool
	IsAdmin         bool
	IsDev           bool
	FlashSuccess    string
	FlashError      string
}

type HomeView struct {
	BaseView
	LiveMatches     []MatchView
	UpcomingMatches []MatchView
	RecentResults   []MatchView
	TopOfTable      []StandingEntry
	LatestNews      []NewsPostView
}

type MatchView struct {
	Match       model.Match
	HomeTeam    model.Team
	AwayTeam    model.Team
	ScoreLine   string
	StatusText  string
	KickoffText string
	Timer       *TimerPanelView
}

// TimerPanelView drives the live clock partial on match pages. A match
// without an initialized timer renders no panel at all.
type TimerPanelView struct {
	MatchID        string
	Clock          string
	Stoppage       string
	PeriodLabel    string
	StatusLabel    string
	IsRunning      bool
	IsPaused       bool
	IsTerminal     bool
	CanAdvance     bool
	CanSetStoppage bool
}

type MatchListView struct {
	BaseView
	Matches []MatchView
	Teams   []model.Team
}

type MatchDetailView struct {
	BaseView
	Match MatchView
	Timer *TimerPanelView
}

type MatchFormView struct {
	BaseView
	Teams []model.Team
	Error string
}

type TeamListView struct {
	BaseView
	Teams []TeamEntry
}

type TeamEntry struct {
	Team    model.Team
	Played  int
	Matches []MatchView
}

type TeamFormView struct {
	BaseView
	Error string
}

type TableView struct {
	BaseView
	Standings []StandingEntry
}

type StandingEntry struct {
	Position     int
	Team         model.Team
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (e StandingEntry) GoalDifference() int {
	return e.GoalsFor - e.GoalsAgainst
}

type NewsPostView struct {
	Post        model.NewsPost
	Author      model.User
	CreatedText string
}

type NewsListView struct {
	BaseView
	Posts []NewsPostView
}

type NewsDetailView struct {
	BaseView
	Post NewsPostView
}

type NewsFormView struct {
	BaseView
	Error string
}

type AuthView struct {
	BaseView
	Error string
}

func newTimerPanelView(matchID string, state timer.StatePayload) *TimerPanelView {
	return &TimerPanelView{
		MatchID:        matchID,
		Clock:          state.Clock,
		Stoppage:       state.StoppageText,
		PeriodLabel:    state.PeriodLabel,
		StatusLabel:    state.Status,
		IsRunning:      state.IsRunning,
		IsPaused:       state.IsPaused,
		IsTerminal:     state.Period == model.PeriodPenalties,
		CanAdvance:     state.Period != model.PeriodPenalties,
		CanSetStoppage: state.Period != model.PeriodHalfTime && state.Period != model.PeriodPenalties,
	}
}
