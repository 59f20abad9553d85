package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"dashboard/internal/config"
	"dashboard/internal/credentials"
	"dashboard/internal/database"
	"dashboard/internal/logging"
	"dashboard/internal/server"
	"dashboard/internal/store"
	"dashboard/internal/ws"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)
	log.WithField("env", cfg.Env).WithField("port", cfg.Port).Info("config loaded")

	var (
		db   *sql.DB
		repo store.Repository
	)
	if cfg.DSN != "" {
		if err := database.Connect(cfg.DSN); err != nil {
			log.Fatalf("DB connect error: %v", err)
		}
		// Run migrations if the directory exists
		if err := database.RunMigrations(cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations error: %v", err)
		}
		db = database.GetDB()
		defer db.Close()
		repo = store.NewMySQLStore(db)
	} else {
		log.Warn("DB_DSN not set, users are kept in memory and lost on restart")
		repo = store.NewMemoryStore()
	}

	hub := ws.NewHub(log)
	svc := credentials.NewService(repo, log, cfg.JWTSecret, cfg.JWTTTL, credentials.WithNotifier(hub))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg.Addr(), db, svc, hub, cfg.JWTSecret, cfg.CORSOrigins, log)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
