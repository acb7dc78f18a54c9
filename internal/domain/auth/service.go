package auth

import (
	"context"

	"github.com/rs/zerolog"

	"leadnurture/internal/pkg/jwt"
	"leadnurture/internal/pkg/logger"
)

// Service logs operators in against the remote and opens their workspace.
type Service struct {
	remote     Authenticator
	workspaces Workspaces
	jwt        *jwt.Service
	log        zerolog.Logger
}

func NewService(remote Authenticator, workspaces Workspaces, jwtService *jwt.Service, log zerolog.Logger) *Service {
	return &Service{
		remote:     remote,
		workspaces: workspaces,
		jwt:        jwtService,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	access, err := s.remote.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.log.Info().Str("username", req.Username).Err(err).Msg("remote login rejected")
		return nil, err
	}
	return s.open(req.Username, access)
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	access, err := s.remote.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		s.log.Info().Str("username", req.Username).Err(err).Msg("remote registration rejected")
		return nil, err
	}
	return s.open(req.Username, access)
}

// Logout drops the credential first so requests racing the close cannot
// dispatch new remote calls.
func (s *Service) Logout(workspaceID string, session *Session) {
	if session != nil {
		session.Logout()
	}
	if s.workspaces.Close(workspaceID) {
		s.log.Info().Str("workspace_id", workspaceID).Msg("workspace closed")
	}
}

func (s *Service) open(username, access string) (*SessionResponse, error) {
	session := NewSession()
	session.Login(access)

	id := s.workspaces.Open(username, session)
	token, expiresAt, err := s.jwt.GenerateToken(id, username)
	if err != nil {
		s.workspaces.Close(id)
		return nil, err
	}

	resp := &SessionResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		WorkspaceID: id,
		Username:    username,
	}
	if exp, ok := session.ExpiresAt(); ok {
		resp.RemoteUntil = &exp
	}

	s.log.Info().
		Str("workspace_id", id).
		Str("username", username).
		Str("credential", logger.MaskToken(access)).
		Msg("workspace opened")
	return resp, nil
}
