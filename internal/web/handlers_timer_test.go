package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"matchday-app/internal/model"
	"matchday-app/internal/store"
	"matchday-app/internal/timer"

	"github.com/jonboulle/clockwork"
)

type fixture struct {
	server *Server
	store  store.Store
	match  model.Match
	admin  model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("APP", "prod")

	s := store.NewMemoryStore()
	admin, err := s.CreateUser(model.User{
		FirstName:    "Admin",
		LastName:     "Testowy",
		Email:        "admin@test.pl",
		PasswordHash: "x",
		Role:         model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	match, err := s.CreateMatch(model.Match{HomeTeamID: "home", AwayTeamID: "away", Status: model.MatchLive})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	hub := timer.NewHub(timer.DefaultHubConfig())
	svc := timer.NewService(s, hub, clockwork.NewFakeClock())
	return &fixture{
		server: NewServer(s, nil, svc, hub),
		store:  s,
		match:  match,
		admin:  admin,
	}
}

func (f *fixture) adminPost(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: userCookieName, Value: f.admin.ID})
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)
	return rec
}

func TestTimerInitRequiresLogin(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/matches/"+f.match.ID+"/timer/init", nil)
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %s", loc)
	}
}

func TestTimerInitRejectsNonAdmin(t *testing.T) {
	f := newFixture(t)
	user, err := f.store.CreateUser(model.User{Email: "widz@test.pl", PasswordHash: "x", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/matches/"+f.match.ID+"/timer/init", nil)
	req.AddCookie(&http.Cookie{Name: userCookieName, Value: user.ID})
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestTimerInitCreatesTimer(t *testing.T) {
	f := newFixture(t)

	rec := f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/init", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "notice=timer_initialized") {
		t.Errorf("expected success notice, got %s", rec.Header().Get("Location"))
	}

	created, ok := f.store.GetMatchTimer(f.match.ID)
	if !ok {
		t.Fatal("timer not created")
	}
	if created.Period != model.PeriodFirstHalf {
		t.Errorf("expected first half, got %s", created.Period)
	}
}

func TestTimerInitUnknownMatch(t *testing.T) {
	f := newFixture(t)

	rec := f.adminPost(t, "/admin/matches/no-such-match/timer/init", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTimerStartPauseFlow(t *testing.T) {
	f := newFixture(t)
	f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/init", nil)

	rec := f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/start", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("start: expected 303, got %d", rec.Code)
	}
	if got, _ := f.store.GetMatchTimer(f.match.ID); !got.IsRunning {
		t.Error("timer should be running after start")
	}

	rec = f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/pause", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("pause: expected 303, got %d", rec.Code)
	}
	if got, _ := f.store.GetMatchTimer(f.match.ID); got.IsRunning || !got.IsPaused {
		t.Error("timer should be paused after pause")
	}
}

func TestTimerStoppageEndpoint(t *testing.T) {
	f := newFixture(t)
	f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/init", nil)

	rec := f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/stoppage", url.Values{"minutes": {"4"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got, _ := f.store.GetMatchTimer(f.match.ID); got.StoppageFirstHalf != 4 {
		t.Errorf("expected stoppage 4, got %d", got.StoppageFirstHalf)
	}

	rec = f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/stoppage", url.Values{"minutes": {"abc"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad minutes, got %d", rec.Code)
	}
}

func TestTimerAdvanceEndpoint(t *testing.T) {
	f := newFixture(t)
	f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/init", nil)

	rec := f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/advance", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got, _ := f.store.GetMatchTimer(f.match.ID); got.Period != model.PeriodHalfTime {
		t.Errorf("expected half time, got %s", got.Period)
	}
}

func TestTimerStateJSON(t *testing.T) {
	f := newFixture(t)
	f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/init", nil)
	f.adminPost(t, "/admin/matches/"+f.match.ID+"/timer/stoppage", url.Values{"minutes": {"2"}})

	req := httptest.NewRequest(http.MethodGet, "/api/matches/"+f.match.ID+"/timer", nil)
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var state timer.StatePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Clock != "00:00" {
		t.Errorf("expected 00:00, got %s", state.Clock)
	}
	if state.StoppageText != "+2" {
		t.Errorf("expected +2, got %q", state.StoppageText)
	}
	if state.Period != model.PeriodFirstHalf {
		t.Errorf("expected first half, got %s", state.Period)
	}
}

func TestTimerStateMissing(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/matches/"+f.match.ID+"/timer", nil)
	rec := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
