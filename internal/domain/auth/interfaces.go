package auth

import "context"

// Authenticator exchanges operator credentials for a remote access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, email string) (string, error)
}

// Workspaces opens and closes per-operator workspaces around a session.
type Workspaces interface {
	Open(username string, session *Session) string
	Close(workspaceID string) bool
}
