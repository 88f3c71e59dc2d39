package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlexTLDR/hawkins/internal/config"
	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/notify"
	"github.com/AlexTLDR/hawkins/internal/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("LOG_PRETTY") != "" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	if err := godotenv.Overload(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	} else {
		log.Info().Msg(".env file loaded successfully (with overload)")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.AdminConfigured() {
		log.Warn().Msg("ADMIN_USER or ADMIN_PASSWORD is empty, admin pages will deny every request")
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func(db *database.DB) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}(db)

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	notifier := notify.New(cfg.SendgridAPIKey, cfg.NotifyEmail, cfg.Event.Host, log)

	// Create and start the server
	srv, err := server.New(cfg, db, notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server failed")
	}
}
