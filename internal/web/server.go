package web

import (
	"net/http"

	"matchday-app/internal/store"
	"matchday-app/internal/timer"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

type Server struct {
	store     store.Store
	templates *Templates
	timers    *timer.Service
	hub       *timer.Hub
}

func NewServer(store store.Store, templates *Templates, timers *timer.Service, hub *timer.Hub) *Server {
	return &Server{store: store, templates: templates, timers: timers, hub: hub}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/", s.handleHome)
	r.Post("/dev/switch-user", s.handleDevSwitchUser)
	r.Get("/login", s.handleLogin)
	r.Post("/login", s.handleLoginPost)
	r.Get("/register", s.handleRegister)
	r.Post("/register", s.handleRegisterPost)
	r.Post("/logout", s.handleLogout)
	r.Get("/matches", s.handleMatchList)
	r.Get("/matches/{matchID}", s.handleMatchShow)
	r.Get("/matches/{matchID}/timer/panel", s.handleTimerPanel)
	r.Get("/teams", s.handleTeamList)
	r.Get("/teams/{teamID}", s.handleTeamShow)
	r.Get("/table", s.handleTable)
	r.Get("/news", s.handleNewsList)
	r.Get("/news/{postID}", s.handleNewsShow)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/matches/new", s.handleMatchNew)
		r.Post("/matches", s.handleMatchCreate)
		r.Post("/matches/{matchID}/result", s.handleMatchResult)
		r.Get("/teams/new", s.handleTeamNew)
		r.Post("/teams", s.handleTeamCreate)
		r.Get("/news/new", s.handleNewsNew)
		r.Post("/news", s.handleNewsCreate)
		r.Post("/matches/{matchID}/timer/init", s.handleTimerInit)
		r.Post("/matches/{matchID}/timer/start", s.handleTimerStart)
		r.Post("/matches/{matchID}/timer/pause", s.handleTimerPause)
		r.Post("/matches/{matchID}/timer/stoppage", s.handleTimerStoppage)
		r.Post("/matches/{matchID}/timer/advance", s.handleTimerAdvance)
	})

	// JSON state and the websocket feed are open cross-origin so external
	// scoreboards can subscribe.
	api := chi.NewRouter()
	api.Get("/matches/{matchID}/timer", s.handleTimerState)
	r.Mount("/api", cors.AllowAll().Handler(api))
	r.Get("/ws/matches/{matchID}/timer", s.handleTimerSubscribe)

	return r
}
