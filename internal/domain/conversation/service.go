package conversation

import (
	"context"

	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
)

// Service lists the conversation threads available to an operator.
type Service struct {
	remote Remote
	log    zerolog.Logger
}

func NewService(remote Remote, log zerolog.Logger) *Service {
	return &Service{
		remote: remote,
		log:    log.With().Str("component", "conversation").Logger(),
	}
}

func (s *Service) List(ctx context.Context, cred auth.Credential) ([]Summary, error) {
	list, err := s.remote.ListConversations(ctx, cred)
	if err != nil {
		s.log.Warn().Err(err).Msg("list conversations failed")
		return nil, err
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}
