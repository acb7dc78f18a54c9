package conversation

import "errors"

var (
	ErrNotOpen         = errors.New("no conversation is open")
	ErrSendInFlight    = errors.New("a message is already being sent")
	ErrStaleResponse   = errors.New("conversation changed while the request was in flight")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotRetryable    = errors.New("only failed messages can be retried")
	ErrNoController    = errors.New("conversation controller not found")
	ErrInvalidID       = errors.New("invalid conversation id")
)
