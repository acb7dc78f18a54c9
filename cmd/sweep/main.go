package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"leadnurture/internal/config"
	"leadnurture/internal/database"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/pkg/logger"
)

// sweep purges settled commit journal records older than the retention
// window. Partial commits are kept until an operator resolves them.
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(false, "info")
		boot.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.IsProd(), cfg.LogLevel)

	retention := flag.Duration("retention", cfg.JournalRetention, "age after which settled commits are removed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := sweep(ctx, cfg.DatabaseURL, *retention, time.Now(), log); err != nil {
		log.Fatal().Err(err).Msg("journal sweep failed")
	}
}

func sweep(ctx context.Context, dsn string, retention time.Duration, now time.Time, log zerolog.Logger) (int64, error) {
	if dsn == "" {
		return 0, errors.New("DATABASE_URL is required")
	}
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be > 0, got %s", retention)
	}

	db, err := database.Connect(dsn, log)
	if err != nil {
		return 0, fmt.Errorf("db connect: %w", err)
	}
	defer database.Close(db)

	journal := campaign.NewJournal(db)
	if err := journal.Migrate(); err != nil {
		return 0, fmt.Errorf("journal migrate: %w", err)
	}

	cutoff := now.Add(-retention)
	removed, err := journal.Purge(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal purge: %w", err)
	}
	log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("journal sweep completed")
	return removed, nil
}
