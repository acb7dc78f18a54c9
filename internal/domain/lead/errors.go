package lead

import "errors"

var (
	ErrNegativeBudget  = errors.New("budget threshold must not be negative")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrNoFilterSession = errors.New("no filter session for this workspace")
)
