package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/quizdrill/quizdrill/internal/api/http"
	auth "github.com/quizdrill/quizdrill/internal/auth/middleware"
	"github.com/quizdrill/quizdrill/internal/bank"
	"github.com/quizdrill/quizdrill/internal/config"
	"github.com/quizdrill/quizdrill/internal/db"
	"github.com/quizdrill/quizdrill/internal/eventlog"
	"github.com/quizdrill/quizdrill/internal/history"
	"github.com/quizdrill/quizdrill/internal/quiz"
	rbac "github.com/quizdrill/quizdrill/internal/rbac"
	"github.com/quizdrill/quizdrill/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Question banks ---
	var banks bank.Store
	if cfg.RemoteBankURL != "" {
		banks = bank.NewRemoteStore(cfg.RemoteBankURL, 10*time.Second)
	} else {
		banks, err = bank.NewStaticStore()
		if err != nil {
			log.Fatalf("load banks: %v", err)
		}
	}

	// --- Stores and live sessions ---
	histStore := history.NewSQLStore(dbh)
	settingsStore := settings.NewSQLStore(dbh)
	events := eventlog.New(dbh)
	registry := quiz.NewRegistry(cfg.SessionTTL)

	// Periodic sweep of finished and abandoned sessions.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.SweepSchedule, func() {
		if n := registry.Sweep(cfg.SweepGrace); n > 0 {
			log.Printf("swept %d stale sessions (%d live)", n, registry.Len())
		}
	}); err != nil {
		log.Fatalf("sweep schedule %q: %v", cfg.SweepSchedule, err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	sessions := &api.SessionAPI{
		Registry:               registry,
		Banks:                  banks,
		Settings:               settingsStore,
		History:                histStore,
		Events:                 events,
		RequireAnswerToAdvance: cfg.RequireAnswerToAdvance,
		MixedCount:             cfg.MixedCount,
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, true))

		pr.With(rbac.Require("user:change_password")).
			Post("/auth/change-password", api.ChangePasswordHandler(dbh))

		pr.With(rbac.Require("bank:view")).
			Get("/banks", api.ListBanksHandler(banks))
		pr.With(rbac.Require("bank:view")).
			Get("/banks/{slug}", api.GetBankHandler(banks))

		pr.Group(func(sr chi.Router) {
			sr.Use(rbac.Require("session:run"))
			sr.Post("/sessions", sessions.Start)
			sr.Route("/sessions/{sessionID}", func(rr chi.Router) {
				rr.Get("/", sessions.Get)
				rr.Post("/answer", sessions.Answer)
				rr.Post("/next", sessions.Next)
				rr.Post("/prev", sessions.Prev)
				rr.Post("/goto", sessions.GoTo)
				rr.Post("/flag", sessions.Flag)
				rr.Post("/exit", sessions.Exit)
				rr.Post("/exit/confirm", sessions.ExitConfirm)
				rr.Post("/exit/cancel", sessions.ExitCancel)
				rr.Post("/submit", sessions.Submit)
				rr.Get("/result", sessions.Result)
				rr.Get("/review", sessions.Review)
			})
		})

		pr.With(rbac.Require("history:view-own")).
			Get("/history", api.ListHistoryHandler(histStore))
		pr.With(rbac.Require("history:view-own")).
			Get("/history/stats", api.HistoryStatsHandler(histStore))
		pr.With(rbac.Require("history:view-own")).
			Get("/history/{attemptID}/review", api.HistoryReviewHandler(histStore, banks))
		pr.With(rbac.Require("history:delete-own")).
			Delete("/history", api.DeleteHistoryHandler(histStore, events))
		pr.With(rbac.Require("history:delete-own")).
			Delete("/history/{attemptID}", api.DeleteAttemptHandler(histStore, events))

		pr.With(rbac.Require("settings:read")).
			Get("/settings", api.GetSettingsHandler(settingsStore))
		pr.With(rbac.Require("settings:write")).
			Put("/settings", api.PutSettingsHandler(settingsStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
