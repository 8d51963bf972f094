package model

import (
	"strings"
	"time"
)

type UserRole string

type MatchStatus string

const (
	RoleAdmin      UserRole = "admin"
	RoleUser       UserRole = "user"
	RoleSuperAdmin UserRole = "super_admin"

	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchPostponed MatchStatus = "postponed"
)

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         UserRole
	AvatarURL    string
}

func (u User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

type Team struct {
	ID        string
	Name      string
	ShortCode string
	City      string
	Stadium   string
	CrestURL  string
	Founded   int
	CreatedAt time.Time
}

type Match struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	HomeGoals  int
	AwayGoals  int
	Round      int
	Stadium    string
	Status     MatchStatus
	KickoffAt  time.Time
	CreatedAt  time.Time
}

type TimerPeriod string

const (
	PeriodFirstHalf  TimerPeriod = "first_half"
	PeriodHalfTime   TimerPeriod = "half_time"
	PeriodSecondHalf TimerPeriod = "second_half"
	PeriodExtraTime1 TimerPeriod = "extra_time_1"
	PeriodExtraTime2 TimerPeriod = "extra_time_2"
	PeriodPenalties  TimerPeriod = "penalties"
)

// MatchTimer is the shared match clock, one row per match. Elapsed time is
// authoritative via the stored minute/second fields; StartedAt and PausedAt
// are audit stamps only. Version guards concurrent writes: an update must
// carry the version it read.
type MatchTimer struct {
	ID                 string
	MatchID            string
	Period             TimerPeriod
	ElapsedMinutes     int
	ElapsedSeconds     int
	StoppageFirstHalf  int
	StoppageSecondHalf int
	StoppageExtra1     int
	StoppageExtra2     int
	IsRunning          bool
	IsPaused           bool
	StartedAt          *time.Time
	PausedAt           *time.Time
	Version            int64
	UpdatedAt          time.Time
}

// StoppageFor returns the stoppage allowance for the given period; zero for
// half time and penalties, which carry no allowance.
func (t MatchTimer) StoppageFor(period TimerPeriod) int {
	switch period {
	case PeriodFirstHalf:
		return t.StoppageFirstHalf
	case PeriodSecondHalf:
		return t.StoppageSecondHalf
	case PeriodExtraTime1:
		return t.StoppageExtra1
	case PeriodExtraTime2:
		return t.StoppageExtra2
	}
	return 0
}

type NewsPost struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	CreatedAt time.Time
}
