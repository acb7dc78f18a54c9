package lead

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
)

// Source fetches the full lead set from the remote CRM.
type Source interface {
	FetchLeads(ctx context.Context, cred auth.Credential) ([]Lead, error)
}

// Service loads leads into filter sessions.
type Service struct {
	source Source
	log    zerolog.Logger
}

// NewService creates lead service
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("component", "lead").Logger(),
	}
}

// Refresh fetches the lead set and swaps it into the session. On failure
// the session keeps its previous source set.
func (s *Service) Refresh(ctx context.Context, cred auth.Credential, session *FilterSession) (View, error) {
	start := time.Now()
	leads, err := s.source.FetchLeads(ctx, cred)
	if err != nil {
		s.log.Warn().Err(err).Msg("fetch leads failed")
		return session.View(), err
	}

	view := session.SetLeads(leads)
	s.log.Info().
		Int("leads", len(leads)).
		Int("matched", view.Matched).
		Int("projects", len(view.Projects)).
		Dur("took", time.Since(start)).
		Msg("leads refreshed")
	return view, nil
}
