package campaign

import "errors"

var (
	ErrSubmitInFlight  = errors.New("a commit attempt is already in flight")
	ErrNotEditable     = errors.New("draft cannot be edited in its current state")
	ErrNotSubmittable  = errors.New("draft cannot be submitted in its current state")
	ErrNoPartialCommit = errors.New("no campaign is waiting for a nurture retry")
	ErrNoOrchestrator  = errors.New("campaign orchestrator not found")
)
