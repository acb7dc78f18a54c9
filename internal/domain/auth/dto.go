package auth

import "time"

// LoginRequest is the operator login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates an operator account on the remote.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// SessionResponse carries the console session token.
type SessionResponse struct {
	Token       string     `json:"token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	WorkspaceID string     `json:"workspace_id"`
	Username    string     `json:"username"`
	RemoteUntil *time.Time `json:"remote_credential_expires_at,omitempty"`
}
