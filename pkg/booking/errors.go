package booking

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is;
// the telnet shell maps them to styled error lines, the loader surfaces them
// at startup.
var (
	// ErrInvalidArgument indicates a nil booker or otherwise malformed input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates an unknown movie or theatre name.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate catalog key or an already-joined booker.
	ErrConflict = errors.New("already exists")

	// ErrBadMessage indicates a malformed catalog document.
	ErrBadMessage = errors.New("bad message")

	// ErrOutOfRange indicates a seat index outside [0, MaxSeats).
	ErrOutOfRange = errors.New("seat out of range")
)
