package auth

import (
	"sync/atomic"
	"time"

	"leadnurture/internal/pkg/apperror"
	"leadnurture/internal/pkg/jwt"
)

// Credential supplies the bearer token for one outgoing remote call. The
// token is read at dispatch time; a call already in flight keeps the token
// it captured even if the operator logs out meanwhile.
type Credential interface {
	BearerToken() (string, error)
}

// Session holds the remote access token of one operator. Login and Logout
// swap it atomically.
type Session struct {
	token atomic.Pointer[string]
	now   func() time.Time
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

func (s *Session) Login(token string) {
	s.token.Store(&token)
}

// Logout invalidates the credential. It is safe to call more than once.
func (s *Session) Logout() {
	s.token.Store(nil)
}

func (s *Session) LoggedIn() bool {
	_, err := s.BearerToken()
	return err == nil
}

// BearerToken fails with an AuthenticationError when logged out or when the
// token's exp claim has passed.
func (s *Session) BearerToken() (string, error) {
	t := s.token.Load()
	if t == nil {
		return "", &apperror.AuthenticationError{Reason: ErrNotLoggedIn.Error(), Err: ErrNotLoggedIn}
	}
	if exp, err := jwt.ExpiresAt(*t); err == nil && !s.now().Before(exp) {
		return "", &apperror.AuthenticationError{Reason: ErrCredentialExpired.Error(), Err: ErrCredentialExpired}
	}
	return *t, nil
}

// ExpiresAt reports the credential expiry when the token carries one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	t := s.token.Load()
	if t == nil {
		return time.Time{}, false
	}
	exp, err := jwt.ExpiresAt(*t)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// StaticToken is a fixed credential, handy for tools and tests.
type StaticToken string

func (t StaticToken) BearerToken() (string, error) {
	if t == "" {
		return "", &apperror.AuthenticationError{Reason: ErrNotLoggedIn.Error(), Err: ErrNotLoggedIn}
	}
	return string(t), nil
}
