// Command seed applies migrations and loads the starter curated dataset
// into Postgres.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	pg "qrsafe/internal/adapters/postgres"
	"qrsafe/internal/config"
	"qrsafe/internal/platform/logger"
	"qrsafe/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.Warn("configuration incomplete", "error", err)
	}

	if err := run(cfg, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to seed the curated store")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	counts, err := seed.Load(ctx, db, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("after %d verified, %d malicious: %w", counts.Verified, counts.Malicious, err)
	}
	log.Info("seed complete", "verified", counts.Verified, "malicious", counts.Malicious)
	return nil
}
