package metrics

import (
	"time"
)

// SessionMetrics provides observability for adapter session lifecycle and
// command dispatch.
//
// Implementations can collect metrics about accepted and rejected
// connections, active sessions, and per-command latency. This interface is
// optional - pass nil to disable metrics collection with zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	sm := prometheus.NewSessionMetrics()
//	bm := prometheus.NewBookingMetrics()
//	a := telnet.New(config, sm, bm)
//
//	// Without metrics (pass nil for zero overhead)
//	a := telnet.New(config, nil, nil)
type SessionMetrics interface {
	// RecordConnectionAccepted increments the total accepted connections
	// counter for the given listener address.
	RecordConnectionAccepted(listener string)

	// RecordConnectionRejected increments the counter of connections turned
	// away because the admission limit was reached.
	RecordConnectionRejected(listener string)

	// RecordConnectionClosed increments the total closed connections counter.
	RecordConnectionClosed(listener string)

	// RecordConnectionForceClosed increments the force-closed connections
	// counter. Called when sessions are torn down during shutdown.
	RecordConnectionForceClosed(listener string)

	// SetActiveSessions updates the current session count.
	SetActiveSessions(count int32)

	// RecordCommand records a dispatched shell command with its duration.
	//
	// Parameters:
	//   - command: command word (e.g. "book", "unbook", "status")
	//   - duration: time taken to run the handler
	RecordCommand(command string, duration time.Duration)

	// RecordProtocolError increments the counter of sessions dropped for
	// violating the wire protocol.
	RecordProtocolError(listener string)
}
