package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"matchday-app/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

type SQLiteOptions struct {
	MigrationsDir string
}

func NewSQLiteStore(path string, opts SQLiteOptions) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := applyMigrations(db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListUsers() []model.User {
	rows, err := s.db.Query(`SELECT id, first_name, last_name, email, password_hash, role, avatar_url FROM users`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL); err != nil {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName() < users[j].FullName() })
	return users
}

func (s *SQLiteStore) GetUser(id string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role, avatar_url FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *SQLiteStore) GetUserByEmail(email string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role, avatar_url FROM users WHERE lower(email) = lower(?) LIMIT 1`, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *SQLiteStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role, avatar_url) VALUES (?,?,?,?,?,?,?)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, string(user.Role), user.AvatarURL,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.User{}, errors.New("email already exists")
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *SQLiteStore) ListTeams() []model.Team {
	rows, err := s.db.Query(`SELECT id, name, short_code, city, stadium, crest_url, founded, created_at FROM teams`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanSQLiteTeamRow(rows)
		if err != nil {
			continue
		}
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (s *SQLiteStore) GetTeam(id string) (model.Team, bool) {
	row := s.db.QueryRow(`SELECT id, name, short_code, city, stadium, crest_url, founded, created_at FROM teams WHERE id = ?`, id)
	team, err := scanSQLiteTeamRow(row)
	if err != nil {
		return model.Team{}, false
	}
	return team, true
}

func (s *SQLiteStore) CreateTeam(team model.Team) (model.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO teams (id, name, short_code, city, stadium, crest_url, founded, created_at) VALUES (?,?,?,?,?,?,?,?)`,
		team.ID, team.Name, team.ShortCode, team.City, team.Stadium, team.CrestURL, team.Founded, timeValueString(team.CreatedAt),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Team{}, errors.New("team name already exists")
		}
		return model.Team{}, err
	}
	return team, nil
}

func (s *SQLiteStore) UpdateTeam(team model.Team) error {
	res, err := s.db.Exec(`UPDATE teams SET name = ?, short_code = ?, city = ?, stadium = ?, crest_url = ?, founded = ? WHERE id = ?`,
		team.Name, team.ShortCode, team.City, team.Stadium, team.CrestURL, team.Founded, team.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("team not found")
	}
	return nil
}

func (s *SQLiteStore) ListMatches() []model.Match {
	return s.queryMatches(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches`)
}

func (s *SQLiteStore) ListMatchesByTeam(teamID string) []model.Match {
	return s.queryMatches(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches WHERE home_team_id = ? OR away_team_id = ?`, teamID, teamID)
}

func (s *SQLiteStore) queryMatches(query string, args ...any) []model.Match {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		match, err := scanSQLiteMatchRow(rows)
		if err != nil {
			continue
		}
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].KickoffAt.After(matches[j].KickoffAt) })
	return matches
}

func (s *SQLiteStore) GetMatch(id string) (model.Match, bool) {
	row := s.db.QueryRow(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches WHERE id = ?`, id)
	match, err := scanSQLiteMatchRow(row)
	if err != nil {
		return model.Match{}, false
	}
	return match, true
}

func (s *SQLiteStore) CreateMatch(match model.Match) (model.Match, error) {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.HomeTeamID == "" || match.AwayTeamID == "" {
		return model.Match{}, errors.New("both teams are required")
	}
	if match.HomeTeamID == match.AwayTeamID {
		return model.Match{}, errors.New("a team cannot play itself")
	}
	if match.Status == "" {
		match.Status = model.MatchScheduled
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO matches (id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		match.ID, match.HomeTeamID, match.AwayTeamID, match.HomeGoals, match.AwayGoals, match.Round, match.Stadium, string(match.Status), timeValueString(match.KickoffAt), timeValueString(match.CreatedAt),
	)
	if err != nil {
		return model.Match{}, err
	}
	return match, nil
}

func (s *SQLiteStore) UpdateMatch(match model.Match) error {
	res, err := s.db.Exec(`UPDATE matches SET home_team_id = ?, away_team_id = ?, home_goals = ?, away_goals = ?, round = ?, stadium = ?, status = ?, kickoff_at = ? WHERE id = ?`,
		match.HomeTeamID, match.AwayTeamID, match.HomeGoals, match.AwayGoals, match.Round, match.Stadium, string(match.Status), timeValueString(match.KickoffAt), match.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return errors.New("match not found")
	}
	return nil
}

func (s *SQLiteStore) ListNewsPosts() []model.NewsPost {
	rows, err := s.db.Query(`SELECT id, author_id, title, body, created_at FROM news_posts`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	posts := []model.NewsPost{}
	for rows.Next() {
		post, err := scanSQLiteNewsRow(rows)
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func (s *SQLiteStore) GetNewsPost(id string) (model.NewsPost, bool) {
	row := s.db.QueryRow(`SELECT id, author_id, title, body, created_at FROM news_posts WHERE id = ?`, id)
	post, err := scanSQLiteNewsRow(row)
	if err != nil {
		return model.NewsPost{}, false
	}
	return post, true
}

func (s *SQLiteStore) CreateNewsPost(post model.NewsPost) (model.NewsPost, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if strings.TrimSpace(post.Title) == "" {
		return model.NewsPost{}, errors.New("title is required")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO news_posts (id, author_id, title, body, created_at) VALUES (?,?,?,?,?)`,
		post.ID, post.AuthorID, post.Title, post.Body, timeValueString(post.CreatedAt),
	)
	if err != nil {
		return model.NewsPost{}, err
	}
	return post, nil
}

func (s *SQLiteStore) GetMatchTimer(matchID string) (model.MatchTimer, bool) {
	row := s.db.QueryRow(`SELECT id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at FROM match_timers WHERE match_id = ?`, matchID)
	timer, err := scanSQLiteTimerRow(row)
	if err != nil {
		return model.MatchTimer{}, false
	}
	return timer, true
}

func (s *SQLiteStore) CreateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	if timer.MatchID == "" {
		return model.MatchTimer{}, errors.New("match id is required")
	}
	if timer.ID == "" {
		timer.ID = uuid.NewString()
	}
	if timer.Period == "" {
		timer.Period = model.PeriodFirstHalf
	}
	if timer.Version == 0 {
		timer.Version = 1
	}
	timer.UpdatedAt = time.Now()
	_, err := s.db.Exec(`INSERT INTO match_timers (id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		timer.ID, timer.MatchID, string(timer.Period), timer.ElapsedMinutes, timer.ElapsedSeconds,
		timer.StoppageFirstHalf, timer.StoppageSecondHalf, timer.StoppageExtra1, timer.StoppageExtra2,
		boolValue(timer.IsRunning), boolValue(timer.IsPaused), timePtrValueString(timer.StartedAt), timePtrValueString(timer.PausedAt),
		timer.Version, timeValueString(timer.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.MatchTimer{}, errors.New("timer already exists for this match")
		}
		return model.MatchTimer{}, err
	}
	return timer, nil
}

func (s *SQLiteStore) UpdateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	next := timer
	next.Version = timer.Version + 1
	next.UpdatedAt = time.Now()
	res, err := s.db.Exec(`UPDATE match_timers SET period = ?, elapsed_minutes = ?, elapsed_seconds = ?, stoppage_first_half = ?, stoppage_second_half = ?, stoppage_extra_1 = ?, stoppage_extra_2 = ?, is_running = ?, is_paused = ?, started_at = ?, paused_at = ?, version = ?, updated_at = ? WHERE id = ? AND version = ?`,
		string(next.Period), next.ElapsedMinutes, next.ElapsedSeconds,
		next.StoppageFirstHalf, next.StoppageSecondHalf, next.StoppageExtra1, next.StoppageExtra2,
		boolValue(next.IsRunning), boolValue(next.IsPaused), timePtrValueString(next.StartedAt), timePtrValueString(next.PausedAt),
		next.Version, timeValueString(next.UpdatedAt), timer.ID, timer.Version,
	)
	if err != nil {
		return model.MatchTimer{}, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		if _, ok := s.GetMatchTimer(timer.MatchID); ok {
			return model.MatchTimer{}, ErrTimerConflict
		}
		return model.MatchTimer{}, ErrTimerNotFound
	}
	return next, nil
}

func (s *SQLiteStore) ListRunningMatchTimers() []model.MatchTimer {
	rows, err := s.db.Query(`SELECT id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at FROM match_timers WHERE is_running = 1 ORDER BY match_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	timers := []model.MatchTimer{}
	for rows.Next() {
		timer, err := scanSQLiteTimerRow(rows)
		if err != nil {
			continue
		}
		timers = append(timers, timer)
	}
	return timers
}

func scanSQLiteTeamRow(scanner interface{ Scan(dest ...any) error }) (model.Team, error) {
	var team model.Team
	var createdAt sql.NullString
	if err := scanner.Scan(
		&team.ID,
		&team.Name,
		&team.ShortCode,
		&team.City,
		&team.Stadium,
		&team.CrestURL,
		&team.Founded,
		&createdAt,
	); err != nil {
		return model.Team{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			team.CreatedAt = parsed
		}
	}
	return team, nil
}

func scanSQLiteMatchRow(scanner interface{ Scan(dest ...any) error }) (model.Match, error) {
	var match model.Match
	var kickoffAt, createdAt sql.NullString
	var status string
	if err := scanner.Scan(
		&match.ID,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.HomeGoals,
		&match.AwayGoals,
		&match.Round,
		&match.Stadium,
		&status,
		&kickoffAt,
		&createdAt,
	); err != nil {
		return model.Match{}, err
	}
	match.Status = model.MatchStatus(status)
	if kickoffAt.Valid {
		if parsed, ok := parseTimeString(kickoffAt.String); ok {
			match.KickoffAt = parsed
		}
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			match.CreatedAt = parsed
		}
	}
	return match, nil
}

func scanSQLiteNewsRow(scanner interface{ Scan(dest ...any) error }) (model.NewsPost, error) {
	var post model.NewsPost
	var createdAt sql.NullString
	if err := scanner.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		&createdAt,
	); err != nil {
		return model.NewsPost{}, err
	}
	if createdAt.Valid {
		if parsed, ok := parseTimeString(createdAt.String); ok {
			post.CreatedAt = parsed
		}
	}
	return post, nil
}

func scanSQLiteTimerRow(scanner interface{ Scan(dest ...any) error }) (model.MatchTimer, error) {
	var timer model.MatchTimer
	var period string
	var running, paused int
	var startedAt, pausedAt, updatedAt sql.NullString
	if err := scanner.Scan(
		&timer.ID,
		&timer.MatchID,
		&period,
		&timer.ElapsedMinutes,
		&timer.ElapsedSeconds,
		&timer.StoppageFirstHalf,
		&timer.StoppageSecondHalf,
		&timer.StoppageExtra1,
		&timer.StoppageExtra2,
		&running,
		&paused,
		&startedAt,
		&pausedAt,
		&timer.Version,
		&updatedAt,
	); err != nil {
		return model.MatchTimer{}, err
	}
	timer.Period = model.TimerPeriod(period)
	timer.IsRunning = running != 0
	timer.IsPaused = paused != 0
	if startedAt.Valid {
		if parsed, ok := parseTimeString(startedAt.String); ok {
			timer.StartedAt = &parsed
		}
	}
	if pausedAt.Valid {
		if parsed, ok := parseTimeString(pausedAt.String); ok {
			timer.PausedAt = &parsed
		}
	}
	if updatedAt.Valid {
		if parsed, ok := parseTimeString(updatedAt.String); ok {
			timer.UpdatedAt = parsed
		}
	}
	return timer, nil
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeValueString(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func timePtrValueString(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
