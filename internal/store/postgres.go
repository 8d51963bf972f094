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
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB
}

type PostgresOptions struct {
	MigrationsDir string
}

func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations/postgres"
	}
	if err := applyMigrations(db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ListUsers() []model.User {
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

func (s *PostgresStore) GetUser(id string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role, avatar_url FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *PostgresStore) GetUserByEmail(email string) (model.User, bool) {
	var u model.User
	err := s.db.QueryRow(`SELECT id, first_name, last_name, email, password_hash, role, avatar_url FROM users WHERE lower(email) = lower($1) LIMIT 1`, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.AvatarURL)
	if err != nil {
		return model.User{}, false
	}
	return u, true
}

func (s *PostgresStore) CreateUser(user model.User) (model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if strings.TrimSpace(user.Email) == "" {
		return model.User{}, errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	_, err := s.db.Exec(`INSERT INTO users (id, first_name, last_name, email, password_hash, role, avatar_url) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
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

func (s *PostgresStore) ListTeams() []model.Team {
	rows, err := s.db.Query(`SELECT id, name, short_code, city, stadium, crest_url, founded, created_at FROM teams`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			continue
		}
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (s *PostgresStore) GetTeam(id string) (model.Team, bool) {
	row := s.db.QueryRow(`SELECT id, name, short_code, city, stadium, crest_url, founded, created_at FROM teams WHERE id = $1`, id)
	team, err := scanTeamRow(row)
	if err != nil {
		return model.Team{}, false
	}
	return team, true
}

func (s *PostgresStore) CreateTeam(team model.Team) (model.Team, error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO teams (id, name, short_code, city, stadium, crest_url, founded, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		team.ID, team.Name, team.ShortCode, team.City, team.Stadium, team.CrestURL, team.Founded, team.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.Team{}, errors.New("team name already exists")
		}
		return model.Team{}, err
	}
	return team, nil
}

func (s *PostgresStore) UpdateTeam(team model.Team) error {
	res, err := s.db.Exec(`UPDATE teams SET name = $1, short_code = $2, city = $3, stadium = $4, crest_url = $5, founded = $6 WHERE id = $7`,
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

func (s *PostgresStore) ListMatches() []model.Match {
	return s.queryMatches(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches`)
}

func (s *PostgresStore) ListMatchesByTeam(teamID string) []model.Match {
	return s.queryMatches(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches WHERE home_team_id = $1 OR away_team_id = $1`, teamID)
}

func (s *PostgresStore) queryMatches(query string, args ...any) []model.Match {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		match, err := scanMatchRow(rows)
		if err != nil {
			continue
		}
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].KickoffAt.After(matches[j].KickoffAt) })
	return matches
}

func (s *PostgresStore) GetMatch(id string) (model.Match, bool) {
	row := s.db.QueryRow(`SELECT id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at FROM matches WHERE id = $1`, id)
	match, err := scanMatchRow(row)
	if err != nil {
		return model.Match{}, false
	}
	return match, true
}

func (s *PostgresStore) CreateMatch(match model.Match) (model.Match, error) {
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
	_, err := s.db.Exec(`INSERT INTO matches (id, home_team_id, away_team_id, home_goals, away_goals, round, stadium, status, kickoff_at, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		match.ID, match.HomeTeamID, match.AwayTeamID, match.HomeGoals, match.AwayGoals, match.Round, match.Stadium, string(match.Status), match.KickoffAt, match.CreatedAt,
	)
	if err != nil {
		return model.Match{}, err
	}
	return match, nil
}

func (s *PostgresStore) UpdateMatch(match model.Match) error {
	res, err := s.db.Exec(`UPDATE matches SET home_team_id = $1, away_team_id = $2, home_goals = $3, away_goals = $4, round = $5, stadium = $6, status = $7, kickoff_at = $8 WHERE id = $9`,
		match.HomeTeamID, match.AwayTeamID, match.HomeGoals, match.AwayGoals, match.Round, match.Stadium, string(match.Status), match.KickoffAt, match.ID,
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

func (s *PostgresStore) ListNewsPosts() []model.NewsPost {
	rows, err := s.db.Query(`SELECT id, author_id, title, body, created_at FROM news_posts`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	posts := []model.NewsPost{}
	for rows.Next() {
		post, err := scanNewsRow(rows)
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func (s *PostgresStore) GetNewsPost(id string) (model.NewsPost, bool) {
	row := s.db.QueryRow(`SELECT id, author_id, title, body, created_at FROM news_posts WHERE id = $1`, id)
	post, err := scanNewsRow(row)
	if err != nil {
		return model.NewsPost{}, false
	}
	return post, true
}

func (s *PostgresStore) CreateNewsPost(post model.NewsPost) (model.NewsPost, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if strings.TrimSpace(post.Title) == "" {
		return model.NewsPost{}, errors.New("title is required")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO news_posts (id, author_id, title, body, created_at) VALUES ($1,$2,$3,$4,$5)`,
		post.ID, post.AuthorID, post.Title, post.Body, post.CreatedAt,
	)
	if err != nil {
		return model.NewsPost{}, err
	}
	return post, nil
}

func (s *PostgresStore) GetMatchTimer(matchID string) (model.MatchTimer, bool) {
	row := s.db.QueryRow(`SELECT id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at FROM match_timers WHERE match_id = $1`, matchID)
	timer, err := scanTimerRow(row)
	if err != nil {
		return model.MatchTimer{}, false
	}
	return timer, true
}

func (s *PostgresStore) CreateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
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
	_, err := s.db.Exec(`INSERT INTO match_timers (id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		timer.ID, timer.MatchID, string(timer.Period), timer.ElapsedMinutes, timer.ElapsedSeconds,
		timer.StoppageFirstHalf, timer.StoppageSecondHalf, timer.StoppageExtra1, timer.StoppageExtra2,
		timer.IsRunning, timer.IsPaused, timePtrValue(timer.StartedAt), timePtrValue(timer.PausedAt),
		timer.Version, timer.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return model.MatchTimer{}, errors.New("timer already exists for this match")
		}
		return model.MatchTimer{}, err
	}
	return timer, nil
}

func (s *PostgresStore) UpdateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	next := timer
	next.Version = timer.Version + 1
	next.UpdatedAt = time.Now()
	res, err := s.db.Exec(`UPDATE match_timers SET period = $1, elapsed_minutes = $2, elapsed_seconds = $3, stoppage_first_half = $4, stoppage_second_half = $5, stoppage_extra_1 = $6, stoppage_extra_2 = $7, is_running = $8, is_paused = $9, started_at = $10, paused_at = $11, version = $12, updated_at = $13 WHERE id = $14 AND version = $15`,
		string(next.Period), next.ElapsedMinutes, next.ElapsedSeconds,
		next.StoppageFirstHalf, next.StoppageSecondHalf, next.StoppageExtra1, next.StoppageExtra2,
		next.IsRunning, next.IsPaused, timePtrValue(next.StartedAt), timePtrValue(next.PausedAt),
		next.Version, next.UpdatedAt, timer.ID, timer.Version,
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

func (s *PostgresStore) ListRunningMatchTimers() []model.MatchTimer {
	rows, err := s.db.Query(`SELECT id, match_id, period, elapsed_minutes, elapsed_seconds, stoppage_first_half, stoppage_second_half, stoppage_extra_1, stoppage_extra_2, is_running, is_paused, started_at, paused_at, version, updated_at FROM match_timers WHERE is_running ORDER BY match_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	timers := []model.MatchTimer{}
	for rows.Next() {
		timer, err := scanTimerRow(rows)
		if err != nil {
			continue
		}
		timers = append(timers, timer)
	}
	return timers
}

func scanTeamRow(scanner interface{ Scan(dest ...any) error }) (model.Team, error) {
	var team model.Team
	var createdAt sql.NullTime
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
		team.CreatedAt = createdAt.Time
	}
	return team, nil
}

func scanMatchRow(scanner interface{ Scan(dest ...any) error }) (model.Match, error) {
	var match model.Match
	var kickoffAt, createdAt sql.NullTime
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
		match.KickoffAt = kickoffAt.Time
	}
	if createdAt.Valid {
		match.CreatedAt = createdAt.Time
	}
	return match, nil
}

func scanNewsRow(scanner interface{ Scan(dest ...any) error }) (model.NewsPost, error) {
	var post model.NewsPost
	var createdAt sql.NullTime
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
		post.CreatedAt = createdAt.Time
	}
	return post, nil
}

func scanTimerRow(scanner interface{ Scan(dest ...any) error }) (model.MatchTimer, error) {
	var timer model.MatchTimer
	var period string
	var startedAt, pausedAt, updatedAt sql.NullTime
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
		&timer.IsRunning,
		&timer.IsPaused,
		&startedAt,
		&pausedAt,
		&timer.Version,
		&updatedAt,
	); err != nil {
		return model.MatchTimer{}, err
	}
	timer.Period = model.TimerPeriod(period)
	if startedAt.Valid {
		t := startedAt.Time
		timer.StartedAt = &t
	}
	if pausedAt.Valid {
		t := pausedAt.Time
		timer.PausedAt = &t
	}
	if updatedAt.Valid {
		timer.UpdatedAt = updatedAt.Time
	}
	return timer, nil
}

func timePtrValue(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}
