package auth

import (
	"github.com/gin-gonic/gin"

	"leadnurture/internal/pkg/response"
)

const (
	WorkspaceIDKey = "workspace_id"
	UsernameKey    = "username"
	SessionKey     = "credential_session"
)

// SessionFrom returns the credential holder the auth middleware attached.
func SessionFrom(c *gin.Context) (*Session, error) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, ErrNoWorkspace
	}
	s, ok := v.(*Session)
	if !ok || s == nil {
		return nil, ErrNoWorkspace
	}
	return s, nil
}

// RespondError writes the error envelope and, for authentication
// failures, logs the operator out so the next request is rejected.
func RespondError(c *gin.Context, err error) {
	if response.FromError(c, err) {
		if s, serr := SessionFrom(c); serr == nil {
			s.Logout()
		}
	}
}
