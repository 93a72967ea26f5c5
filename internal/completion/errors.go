package completion

import "errors"

// Error taxonomy for the confirmation workflow. Handlers map these to HTTP
// status codes with errors.Is; callers wrap them with context via %w.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("not authorized")
	ErrConflict     = errors.New("already confirmed")
	ErrNotFound     = errors.New("completion not found")
	ErrNotReady     = errors.New("completion not yet confirmed")
)
