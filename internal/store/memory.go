package store

import (
	"errors"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"matchday-app/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.User
	teams   map[string]model.Team
	matches map[string]model.Match
	news    map[string]model.NewsPost
	timers  map[string]model.MatchTimer // keyed by match id
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:   make(map[string]model.User),
		teams:   make(map[string]model.Team),
		matches: make(map[string]model.Match),
		news:    make(map[string]model.NewsPost),
		timers:  make(map[string]model.MatchTimer),
	}
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}

	return s
}

func (s *MemoryStore) ListUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName() < users[j].FullName() })
	return users
}

func (s *MemoryStore) GetUser(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryStore) GetUserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *MemoryStore) CreateUser(user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Email == "" {
		return model.User{}, errors.New("email is required")
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errors.New("email already exists")
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) ListTeams() []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (s *MemoryStore) GetTeam(id string) (model.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	return t, ok
}

func (s *MemoryStore) CreateTeam(team model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if strings.TrimSpace(team.Name) == "" {
		return model.Team{}, errors.New("team name is required")
	}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now()
	}
	for _, t := range s.teams {
		if strings.EqualFold(t.Name, team.Name) {
			return model.Team{}, errors.New("team name already exists")
		}
	}
	s.teams[team.ID] = team
	return team, nil
}

func (s *MemoryStore) UpdateTeam(team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.ID]; !ok {
		return errors.New("team not found")
	}
	s.teams[team.ID] = team
	return nil
}

func (s *MemoryStore) ListMatches() []model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].KickoffAt.After(matches[j].KickoffAt) })
	return matches
}

func (s *MemoryStore) ListMatchesByTeam(teamID string) []model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]model.Match, 0)
	for _, m := range s.matches {
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].KickoffAt.After(matches[j].KickoffAt) })
	return matches
}

func (s *MemoryStore) GetMatch(id string) (model.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	return m, ok
}

func (s *MemoryStore) CreateMatch(match model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.matches[match.ID] = match
	return match, nil
}

func (s *MemoryStore) UpdateMatch(match model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[match.ID]; !ok {
		return errors.New("match not found")
	}
	s.matches[match.ID] = match
	return nil
}

func (s *MemoryStore) ListNewsPosts() []model.NewsPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.NewsPost, 0, len(s.news))
	for _, p := range s.news {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func (s *MemoryStore) GetNewsPost(id string) (model.NewsPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.news[id]
	return p, ok
}

func (s *MemoryStore) CreateNewsPost(post model.NewsPost) (model.NewsPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if strings.TrimSpace(post.Title) == "" {
		return model.NewsPost{}, errors.New("title is required")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	s.news[post.ID] = post
	return post, nil
}

func (s *MemoryStore) GetMatchTimer(matchID string) (model.MatchTimer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.timers[matchID]
	return t, ok
}

func (s *MemoryStore) CreateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer.MatchID == "" {
		return model.MatchTimer{}, errors.New("match id is required")
	}
	if _, ok := s.timers[timer.MatchID]; ok {
		return model.MatchTimer{}, errors.New("timer already exists for this match")
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
	s.timers[timer.MatchID] = timer
	return timer, nil
}

func (s *MemoryStore) UpdateMatchTimer(timer model.MatchTimer) (model.MatchTimer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.timers[timer.MatchID]
	if !ok {
		return model.MatchTimer{}, ErrTimerNotFound
	}
	if current.Version != timer.Version {
		return model.MatchTimer{}, ErrTimerConflict
	}
	timer.Version++
	timer.UpdatedAt = time.Now()
	s.timers[timer.MatchID] = timer
	return timer, nil
}

func (s *MemoryStore) ListRunningMatchTimers() []model.MatchTimer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timers := make([]model.MatchTimer, 0)
	for _, t := range s.timers {
		if t.IsRunning {
			timers = append(timers, t)
		}
	}
	sort.Slice(timers, func(i, j int) bool { return timers[i].MatchID < timers[j].MatchID })
	return timers
}

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func seedData(s *MemoryStore) {
	rng := rand.New(rand.NewSource(42))
	defaultHash := hashPassword("password123")

	seedUsers := []model.User{
		{ID: uuid.NewString(), FirstName: "Marta", LastName: "Sobczak", Email: "admin@matchday.pl", Role: model.RoleSuperAdmin, AvatarURL: "https://i.pravatar.cc/100?img=21"},
		{ID: uuid.NewString(), FirstName: "Adrian", LastName: "Pawlak", Email: "adrian.pawlak@matchday.pl", Role: model.RoleAdmin, AvatarURL: "https://i.pravatar.cc/100?img=22"},
		{ID: uuid.NewString(), FirstName: "Kamil", LastName: "Borowski", Email: "kamil.borowski@example.com", Role: model.RoleUser, AvatarURL: "https://i.pravatar.cc/100?img=23"},
		{ID: uuid.NewString(), FirstName: "Julia", LastName: "Mazur", Email: "julia.mazur@example.com", Role: model.RoleUser, AvatarURL: "https://i.pravatar.cc/100?img=24"},
	}
	for i := range seedUsers {
		seedUsers[i].PasswordHash = defaultHash
		s.users[seedUsers[i].ID] = seedUsers[i]
	}
	adminID := seedUsers[0].ID

	teamDefs := []struct {
		Name, Code, City, Stadium string
		Founded                   int
	}{
		{"Stal Nadodrze", "STN", "Wrocław", "Stadion Nadodrzański", 1946},
		{"Warta Zielona", "WRZ", "Poznań", "Arena Warciańska", 1921},
		{"Orzeł Mokotów", "ORM", "Warszawa", "Stadion na Skarpie", 1953},
		{"Pogoń Kazimierz", "PGK", "Kraków", "Stadion Królewski", 1933},
		{"Bałtyk Oliwa", "BLO", "Gdańsk", "Arena Bałtycka", 1928},
		{"Hutnik Dąbrowa", "HTD", "Dąbrowa Górnicza", "Stadion Hutniczy", 1949},
		{"Znicz Podhale", "ZNP", "Nowy Targ", "Stadion pod Tatrami", 1961},
		{"Czarni Łęczna", "CZL", "Łęczna", "Stadion Górniczy", 1957},
	}

	teams := make([]model.Team, 0, len(teamDefs))
	for _, td := range teamDefs {
		team := model.Team{
			ID:        uuid.NewString(),
			Name:      td.Name,
			ShortCode: td.Code,
			City:      td.City,
			Stadium:   td.Stadium,
			CrestURL:  "https://placehold.co/64x64?text=" + td.Code,
			Founded:   td.Founded,
			CreatedAt: time.Now().AddDate(0, 0, -90),
		}
		s.teams[team.ID] = team
		teams = append(teams, team)
	}

	// Round-robin: every pair once, spread over weekly rounds.
	round := 1
	pairIndex := 0
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			home, away := teams[i], teams[j]
			if pairIndex%2 == 1 {
				home, away = away, home
			}
			kickoff := time.Now().AddDate(0, 0, -28+round*7).Truncate(time.Hour)
			match := model.Match{
				ID:         uuid.NewString(),
				HomeTeamID: home.ID,
				AwayTeamID: away.ID,
				Round:      round,
				Stadium:    home.Stadium,
				KickoffAt:  kickoff,
				CreatedAt:  time.Now().AddDate(0, 0, -60),
			}
			if kickoff.Before(time.Now()) {
				match.Status = model.MatchFinished
				match.HomeGoals = rng.Intn(4)
				match.AwayGoals = rng.Intn(3)
			} else {
				match.Status = model.MatchScheduled
			}
			s.matches[match.ID] = match
			pairIndex++
			if pairIndex%4 == 0 {
				round++
			}
		}
	}

	// One live match with a clock paused mid second half, for the demo.
	live := model.Match{
		ID:         uuid.NewString(),
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		HomeGoals:  1,
		AwayGoals:  1,
		Round:      round,
		Stadium:    teams[0].Stadium,
		Status:     model.MatchLive,
		KickoffAt:  time.Now().Add(-70 * time.Minute),
		CreatedAt:  time.Now().AddDate(0, 0, -7),
	}
	s.matches[live.ID] = live
	startedAt := live.KickoffAt
	s.timers[live.ID] = model.MatchTimer{
		ID:                uuid.NewString(),
		MatchID:           live.ID,
		Period:            model.PeriodSecondHalf,
		ElapsedMinutes:    67,
		ElapsedSeconds:    14,
		StoppageFirstHalf: 2,
		IsRunning:         false,
		IsPaused:          true,
		StartedAt:         &startedAt,
		Version:           1,
		UpdatedAt:         time.Now(),
	}

	posts := []model.NewsPost{
		{Title: "Start nowego sezonu", Body: "Rozpoczynamy rozgrywki ligowe. Terminarz pierwszych kolejek jest już dostępny."},
		{Title: "Transmisje na żywo", Body: "Zegary meczowe na stronie pokazują czas gry w czasie rzeczywistym, razem z doliczonym czasem."},
	}
	for i, p := range posts {
		p.ID = uuid.NewString()
		p.AuthorID = adminID
		p.CreatedAt = time.Now().AddDate(0, 0, -i)
		s.news[p.ID] = p
	}
}
