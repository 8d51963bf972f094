package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"matchday-app/internal/store"
	"matchday-app/internal/timer"
	"matchday-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/* templates/partials/* static/* static/css/*
var content embed.FS

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if strings.EqualFold(strings.TrimSpace(os.Getenv("APP")), "dev") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		_ = godotenv.Load(".env", ".env.local")
	}

	var appStore store.Store
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		pgStore, err := store.NewPostgresStore(dsn, store.PostgresOptions{
			MigrationsDir: os.Getenv("POSTGRES_MIGRATIONS_DIR"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres store")
		}
		appStore = pgStore
	} else if dbPath := strings.TrimSpace(os.Getenv("DB_PATH")); dbPath != "" {
		sqliteStore, err := store.NewSQLiteStore(dbPath, store.SQLiteOptions{
			MigrationsDir: os.Getenv("DB_MIGRATIONS_DIR"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite store")
		}
		appStore = sqliteStore
	} else {
		appStore = store.NewMemoryStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewRealClock()
	hub := timer.NewHub(timer.DefaultHubConfig())
	go hub.Run(ctx)
	runner := timer.NewRunner(appStore, hub, clock)
	go runner.Run(ctx)

	timerService := timer.NewService(appStore, hub, clock)
	server := web.NewServer(appStore, templates, timerService, hub)

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("static fs")
	}

	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Info().Msg("starting in Lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
	} else {
		addr := strings.TrimSpace(os.Getenv("ADDR"))
		if addr == "" {
			addr = ":8080"
		}
		log.Info().Str("addr", addr).Msg("starting HTTP server")
		if err := http.ListenAndServe(addr, r); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}
}
