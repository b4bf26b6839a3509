package adapter

import (
	"context"

	"github.com/bookerd/bookerd/pkg/booking"
)

// Adapter represents a protocol-specific server adapter managed by the
// bookerd server.
//
// Each adapter exposes the shared reservation engine over one wire protocol
// (currently telnet) and provides a unified interface for lifecycle
// management. All adapters operate on the same engine, so bookings are
// consistent across listeners.
//
// Lifecycle:
//  1. Creation: adapter is created with protocol-specific configuration
//  2. Engine injection: SetEngine() provides the shared reservation engine
//  3. Startup: Serve() starts the listener and blocks until shutdown
//  4. Shutdown: Stop() initiates graceful shutdown with timeout
//
// Thread safety:
// Implementations must be safe for concurrent use. SetEngine() is called once
// before Serve(), but Stop() may be called concurrently with Serve().
type Adapter interface {
	// Serve starts the protocol server and blocks until the context is
	// cancelled or an unrecoverable error occurs.
	//
	// When the context is cancelled, Serve must initiate graceful shutdown:
	//   - Stop accepting new connections
	//   - Wait for active sessions to drain their outbound queues (with timeout)
	//   - Clean up resources
	//   - Return context.Canceled or nil
	Serve(ctx context.Context) error

	// SetEngine injects the shared reservation engine.
	//
	// Called exactly once before Serve(); no synchronization needed.
	SetEngine(engine *booking.Engine)

	// Stop initiates graceful shutdown of the protocol server.
	//
	// Must be idempotent and safe to call concurrently with Serve(). The
	// context controls the shutdown timeout; when cancelled, remaining
	// sessions are force-closed.
	Stop(ctx context.Context) error

	// Protocol returns the human-readable protocol name for logging and
	// metrics, e.g. "telnet".
	Protocol() string

	// Port returns the TCP port the adapter is listening on. Returns 0
	// before Serve() is called when the port is allocated dynamically.
	Port() int
}
