package resumes

import "errors"

var (
	// ErrNotFound is returned when a resume is missing or not visible to the caller.
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid resume input")
)
