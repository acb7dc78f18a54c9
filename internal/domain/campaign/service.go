package campaign

import (
	"context"

	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
)

// MetricsSource lists per-campaign analytics from the remote.
type MetricsSource interface {
	CampaignMetrics(ctx context.Context, cred auth.Credential) ([]Metric, error)
}

// Service serves the read side: remote analytics and the local journal.
type Service struct {
	metrics MetricsSource
	journal *Journal
	log     zerolog.Logger
}

// NewService creates campaign service. journal may be nil when the console
// runs without a database.
func NewService(metrics MetricsSource, journal *Journal, log zerolog.Logger) *Service {
	return &Service{
		metrics: metrics,
		journal: journal,
		log:     log.With().Str("component", "campaign").Logger(),
	}
}

func (s *Service) Metrics(ctx context.Context, cred auth.Credential) ([]Metric, error) {
	metrics, err := s.metrics.CampaignMetrics(ctx, cred)
	if err != nil {
		s.log.Warn().Err(err).Msg("fetch campaign metrics failed")
		return nil, err
	}
	if metrics == nil {
		metrics = []Metric{}
	}
	return metrics, nil
}

func (s *Service) Commits(ctx context.Context, username string, q CommitsQuery) ([]CommitRecord, error) {
	if s.journal == nil {
		return []CommitRecord{}, nil
	}
	records, err := s.journal.List(ctx, username, q)
	if err != nil {
		return nil, err
	}
	return records, nil
}
