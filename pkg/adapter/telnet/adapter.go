// Package telnet implements the adapter.Adapter interface for the interactive
// telnet protocol.
//
// Each accepted connection becomes a Session that joins the shared reservation
// engine as a booker, negotiates server-side echo with the client, and drives
// a menu shell built from the engine's catalog. The adapter embeds
// adapter.BaseAdapter for shared TCP lifecycle management (listener, admission
// control, shutdown, connection tracking); protocol-specific behavior stays on
// the Session.
package telnet

import (
	"context"
	"fmt"
	"net"

	"github.com/bookerd/bookerd/pkg/adapter"
	"github.com/bookerd/bookerd/pkg/booking"
	"github.com/bookerd/bookerd/pkg/metrics"
)

// Adapter serves the reservation engine over telnet.
//
// Shutdown flow:
//  1. Context cancelled or Stop() called
//  2. Listener closed (no new connections) [BaseAdapter]
//  3. ShutdownCtx cancelled (signals sessions to drain and close) [BaseAdapter]
//  4. Wait for active sessions to complete (up to ShutdownTimeout) [BaseAdapter]
//  5. Force-close any remaining connections after timeout [BaseAdapter]
type Adapter struct {
	*adapter.BaseAdapter

	// config holds the telnet-specific server configuration
	config Config

	// engine is the shared reservation engine all sessions book against
	engine *booking.Engine

	// sessionMetrics and bookingMetrics are optional recorders.
	// If nil, no metrics are collected (zero overhead).
	sessionMetrics metrics.SessionMetrics
	bookingMetrics metrics.BookingMetrics
}

// New creates a new Adapter with the specified configuration.
//
// The adapter is created in a stopped state. Call SetEngine() to inject the
// reservation engine, then Serve() to start accepting connections.
//
// Panics if config validation fails (indicates programmer error).
func New(config Config, sm metrics.SessionMetrics, bm metrics.BookingMetrics) *Adapter {
	config.applyDefaults()

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid telnet config: %v", err))
	}

	baseConfig := adapter.BaseConfig{
		BindAddress:        config.BindAddress,
		Port:               config.Port,
		MaxConnections:     config.MaxConnections,
		Admission:          config.Admission,
		ShutdownTimeout:    config.ShutdownTimeout,
		MetricsLogInterval: config.MetricsLogInterval,
	}

	a := &Adapter{
		BaseAdapter:    adapter.NewBaseAdapter(baseConfig, "telnet"),
		config:         config,
		sessionMetrics: sm,
		bookingMetrics: bm,
	}
	a.BaseAdapter.Metrics = sm
	return a
}

// SetEngine injects the shared reservation engine.
//
// Called exactly once before Serve(); no synchronization needed.
func (a *Adapter) SetEngine(engine *booking.Engine) {
	a.engine = engine
}

// Serve starts the telnet server and blocks until the context is cancelled
// or an unrecoverable error occurs.
//
// Serve delegates to BaseAdapter.ServeWithFactory() for the shared TCP accept
// loop, providing session creation via the ConnectionFactory interface.
func (a *Adapter) Serve(ctx context.Context) error {
	if a.engine == nil {
		return fmt.Errorf("telnet adapter: engine not set")
	}
	return a.ServeWithFactory(ctx, a, nil)
}

// NewConnection creates a Session for an accepted TCP connection. This
// implements the adapter.ConnectionFactory interface.
func (a *Adapter) NewConnection(conn net.Conn) adapter.ConnectionHandler {
	return newSession(a, conn)
}
