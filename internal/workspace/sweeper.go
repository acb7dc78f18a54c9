package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Purger drops commit journal rows older than a cutoff.
type Purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweeperConfig controls the background jobs.
type SweeperConfig struct {
	Schedule  string
	IdleTTL   time.Duration
	Retention time.Duration
}

// Sweeper runs the periodic maintenance of the console: closing idle or
// logged-out workspaces and, when a journal is configured, purging old
// commit records.
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	purger   Purger
	cfg      SweeperConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewSweeper(registry *Registry, purger Purger, cfg SweeperConfig, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		registry: registry,
		purger:   purger,
		cfg:      cfg,
		log:      log.With().Str("component", "sweeper").Logger(),
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.SweepWorkspaces); err != nil {
		return fmt.Errorf("schedule workspace sweep %q: %w", s.cfg.Schedule, err)
	}
	if s.purger != nil && s.cfg.Retention > 0 {
		if _, err := s.cron.AddFunc("@daily", func() { _, _ = s.PurgeJournal(context.Background()) }); err != nil {
			return fmt.Errorf("schedule journal purge: %w", err)
		}
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.cfg.Schedule).Dur("idle_ttl", s.cfg.IdleTTL).Msg("sweeper started")
	return nil
}

// Stop stops scheduling and waits for a running job until ctx ends.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.log.Info().Msg("sweeper stopped")
}

func (s *Sweeper) SweepWorkspaces() {
	closed := s.registry.Sweep(s.cfg.IdleTTL)
	if len(closed) > 0 {
		s.log.Info().Int("closed", len(closed)).Int("open", s.registry.Len()).Msg("workspaces swept")
	}
}

func (s *Sweeper) PurgeJournal(ctx context.Context) (int64, error) {
	if s.purger == nil || s.cfg.Retention <= 0 {
		return 0, nil
	}
	removed, err := s.purger.Purge(ctx, s.now().Add(-s.cfg.Retention))
	if err != nil {
		s.log.Error().Err(err).Msg("journal purge failed")
		return 0, err
	}
	s.log.Info().Int64("removed", removed).Msg("journal purged")
	return removed, nil
}
