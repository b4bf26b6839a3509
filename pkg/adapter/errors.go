package adapter

import "errors"

var (
	// ErrAdmissionLimit is returned when a connection is turned away because
	// the adapter has admitted its configured maximum. The admission counter
	// only ever grows, so once the limit is reached the listener admits no
	// further connections for the life of the process.
	ErrAdmissionLimit = errors.New("connection limit reached")

	// ErrShuttingDown is returned for operations attempted after shutdown
	// has been initiated.
	ErrShuttingDown = errors.New("adapter is shutting down")
)
