// Package apperror holds the failure kinds shared by the lead filtering,
// campaign commit and conversation components. Callers branch on kind with
// errors.As; the HTTP layer maps each kind to one response code.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GenericRemoteMessage is shown when the remote gave no usable reason.
const GenericRemoteMessage = "lead nurture service request failed"

// ValidationError blocks a transition locally; no remote call is issued.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// NewValidation builds a ValidationError from a field->rule map.
func NewValidation(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AuthenticationError means the credential is missing, expired or was
// rejected by the remote. Callers return the operator to a logged-out state.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RemoteRequestError is a network or server failure on a remote call.
// Reason is the server provided text when there was one.
type RemoteRequestError struct {
	Op         string
	StatusCode int
	Reason     string
	Err        error
}

func (e *RemoteRequestError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = GenericRemoteMessage
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, reason, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Op, reason)
}

func (e *RemoteRequestError) Unwrap() error { return e.Err }

// Message is what the operator sees: the server reason verbatim, or the
// generic text.
func (e *RemoteRequestError) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	return GenericRemoteMessage
}

// PartialCommitError reports a campaign that exists remotely but whose
// nurture trigger failed. Recovery is a nurture retry, not a resubmission.
type PartialCommitError struct {
	CampaignID int64
	Err        error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("campaign %d created but nurture trigger failed: %v", e.CampaignID, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

func IsRemote(err error) bool {
	var target *RemoteRequestError
	return errors.As(err, &target)
}

func IsPartialCommit(err error) bool {
	var target *PartialCommitError
	return errors.As(err, &target)
}
