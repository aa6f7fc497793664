package timeline

import "errors"

// Rejected mutations return one of these and leave the store unchanged.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid time range")
	ErrKindMismatch = errors.New("kind mismatch")
	ErrLocked       = errors.New("track is locked")
)
