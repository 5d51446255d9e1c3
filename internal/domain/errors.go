package domain

import "errors"

// Domain errors
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOverlappingMatches = errors.New("overlapping matches")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPageNotFound       = errors.New("page not found")
	ErrDocumentNotLoaded  = errors.New("document not loaded")
	ErrPositionNotFound   = errors.New("reading position not found")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidArgument).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
