package store

import (
	"errors"

	"matchday-app/internal/model"
)

var (
	// ErrTimerConflict is returned when an update carries a stale version.
	ErrTimerConflict = errors.New("timer version conflict")
	ErrTimerNotFound = errors.New("timer not found")
)

type Store interface {
	ListUsers() []model.User
	GetUser(id string) (model.User, bool)
	GetUserByEmail(email string) (model.User, bool)
	CreateUser(user model.User) (model.User, error)

	ListTeams() []model.Team
	GetTeam(id string) (model.Team, bool)
	CreateTeam(team model.Team) (model.Team, error)
	UpdateTeam(team model.Team) error

	ListMatches() []model.Match
	ListMatchesByTeam(teamID string) []model.Match
	GetMatch(id string) (model.Match, bool)
	CreateMatch(match model.Match) (model.Match, error)
	UpdateMatch(match model.Match) error

	ListNewsPosts() []model.NewsPost
	GetNewsPost(id string) (model.NewsPost, bool)
	CreateNewsPost(post model.NewsPost) (model.NewsPost, error)

	GetMatchTimer(matchID string) (model.MatchTimer, bool)
	CreateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error)
	UpdateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error)
	ListRunningMatchTimers() []model.MatchTimer
}
