package auth

import "errors"

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrCredentialExpired = errors.New("credential expired")
	ErrNoWorkspace       = errors.New("no workspace in request context")
)
