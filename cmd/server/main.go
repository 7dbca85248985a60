// Package main implements the entry point for the adboard API server,
// which serves classified ads with their comments, images and owners.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/adboard/adboard-api/internal/config"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/platform/postgres"
)

// main loads configuration, connects to the database and either runs a
// migration command or starts the HTTP server.
func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Fatalf("adboard-api: %v", err)
	}
}

func run(ctx context.Context, migrateCmd string) error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := initializeApp()
	if err != nil {
		return err
	}

	appLogger := slog.Default()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, migrateCmd, appLogger)
	}
	appLogger.Info("database connection established")

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up the default structured logger.
func initializeApp() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"images_backend", cfg.Images.Backend,
		"strict_comment_ad_lookup", cfg.Comments.StrictAdLookup)

	return cfg, nil
}
