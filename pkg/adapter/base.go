package adapter

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bookerd/bookerd/internal/logger"
	"github.com/bookerd/bookerd/pkg/metrics"
)

// ConnectionHandler represents a protocol-specific connection that can serve
// a client. Each protocol adapter creates its own session type implementing
// this interface. The Serve method blocks until the session is closed or the
// context is cancelled.
type ConnectionHandler interface {
	Serve(ctx context.Context)
}

// ConnectionFactory creates protocol-specific connection handlers for
// accepted TCP connections. Protocol adapters implement this interface and
// pass themselves to BaseAdapter.ServeWithFactory().
type ConnectionFactory interface {
	NewConnection(conn net.Conn) ConnectionHandler
}

// BaseConfig holds configuration common to all protocol adapters.
// Protocol-specific adapters embed this alongside their own config.
type BaseConfig struct {
	// BindAddress is the IP address to bind to.
	// Empty string or "0.0.0.0" binds to all interfaces.
	BindAddress string

	// Port is the TCP port to listen on.
	Port int

	// MaxConnections caps the number of connections this adapter will admit
	// over its lifetime. The admission counter is never decremented, so a
	// closed session does not free a slot. 0 means unlimited.
	// Ignored when Admission is set.
	MaxConnections int

	// Admission optionally shares one admission limiter across several
	// adapters, making MaxConnections a process-wide cap instead of a
	// per-listener one. When nil, the adapter builds its own limiter from
	// MaxConnections.
	Admission *AdmissionLimiter

	// ShutdownTimeout is the maximum duration to wait for active sessions
	// to complete during graceful shutdown.
	ShutdownTimeout time.Duration

	// MetricsLogInterval is the interval at which to log server metrics.
	// 0 disables periodic metrics logging.
	MetricsLogInterval time.Duration
}

// OnConnectionClose is an optional callback invoked when a connection's serve
// goroutine completes (before WaitGroup.Done). Protocol adapters use this for
// protocol-specific cleanup. The callback receives the connection remote
// address.
type OnConnectionClose func(addr string)

// BaseAdapter provides shared TCP lifecycle management for protocol adapters.
//
// Protocol adapters embed this struct and delegate listener management,
// admission control, graceful shutdown, connection tracking, and metrics
// logging to it. Protocol-specific behavior is injected via
// ConnectionFactory and the onClose hook.
//
// Thread safety:
// All exported methods are safe for concurrent use. The shutdown mechanism
// uses sync.Once so Stop() is idempotent.
type BaseAdapter struct {
	// Config holds the shared configuration (bind address, port, limits, timeouts)
	Config BaseConfig

	// protocolName is the human-readable protocol name for logging (e.g., "telnet")
	protocolName string

	// Metrics is an optional recorder for connection lifecycle metrics.
	// If nil, no metrics are collected (zero overhead).
	Metrics metrics.SessionMetrics

	// listener is the TCP listener for accepting connections.
	// Closed during shutdown to stop accepting new connections.
	listener net.Listener

	// activeConns tracks all currently active connections for graceful shutdown.
	activeConns sync.WaitGroup

	// shutdownOnce ensures shutdown is only initiated once.
	shutdownOnce sync.Once

	// Shutdown signals that graceful shutdown has been initiated.
	// Closed by initiateShutdown(), monitored by ServeWithFactory().
	Shutdown chan struct{}

	// ConnCount tracks the current number of active connections.
	ConnCount atomic.Int32

	// admission tracks lifetime admissions. Possibly shared with other
	// adapters when the cap is process-wide.
	admission *AdmissionLimiter

	// ShutdownCtx is cancelled during shutdown to abort in-flight sessions.
	ShutdownCtx context.Context

	// CancelSessions cancels ShutdownCtx during shutdown.
	CancelSessions context.CancelFunc

	// ActiveConnections tracks all active TCP connections for forced closure.
	// Maps connection remote address (string) to net.Conn.
	ActiveConnections sync.Map

	// ListenerReady is closed when the listener is ready to accept connections.
	// Used by tests to synchronize with server startup.
	ListenerReady chan struct{}

	// listenerMu protects access to the listener field.
	listenerMu sync.RWMutex
}

// NewBaseAdapter creates a new BaseAdapter with the specified configuration.
// The adapter is created in a stopped state. Call ServeWithFactory() to start.
//
// Returns a pointer to avoid copying sync primitives (WaitGroup, Once, Map, RWMutex).
func NewBaseAdapter(config BaseConfig, protocol string) *BaseAdapter {
	if config.MaxConnections > 0 {
		logger.Debug(protocol+" connection limit", "max_connections", config.MaxConnections)
	} else {
		logger.Debug(protocol+" connection limit", "max_connections", "unlimited")
	}

	shutdownCtx, cancelSessions := context.WithCancel(context.Background())

	admission := config.Admission
	if admission == nil {
		admission = NewAdmissionLimiter(config.MaxConnections)
	}

	return &BaseAdapter{
		Config:         config,
		protocolName:   protocol,
		admission:      admission,
		Shutdown:       make(chan struct{}),
		ShutdownCtx:    shutdownCtx,
		CancelSessions: cancelSessions,
		ListenerReady:  make(chan struct{}),
	}
}

// admit performs the lifetime admission check. Returns false once the
// limiter has admitted its configured maximum.
func (b *BaseAdapter) admit() bool {
	return b.admission.Admit()
}

// ServeWithFactory runs the shared TCP accept loop, delegating to factory for
// protocol-specific connection creation.
//
// Parameters:
//   - ctx: Controls the server lifecycle. Cancellation triggers graceful shutdown.
//   - factory: Creates protocol-specific connection handlers for each accepted connection.
//   - onClose: Optional callback invoked when a connection's goroutine exits,
//     before WaitGroup.Done. Used for protocol-specific cleanup. May be nil.
//
// Returns:
//   - nil on graceful shutdown
//   - error if listener fails to start or shutdown is not graceful
func (b *BaseAdapter) ServeWithFactory(
	ctx context.Context,
	factory ConnectionFactory,
	onClose OnConnectionClose,
) error {
	select {
	case <-b.Shutdown:
		return ErrShuttingDown
	default:
	}

	// Create TCP listener
	listenAddr := fmt.Sprintf("%s:%d", b.Config.BindAddress, b.Config.Port)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to create %s listener on port %d: %w", b.protocolName, b.Config.Port, err)
	}

	// Store listener with mutex protection and signal readiness
	b.listenerMu.Lock()
	b.listener = listener
	b.listenerMu.Unlock()
	close(b.ListenerReady)

	logger.Info(b.protocolName+" server listening", logger.Listener(listener.Addr().String()))

	// Monitor context cancellation in separate goroutine
	go func() {
		<-ctx.Done()
		logger.Info(b.protocolName+" shutdown signal received", "error", ctx.Err())
		b.initiateShutdown()
	}()

	// Start metrics logging if enabled
	if b.Config.MetricsLogInterval > 0 {
		go b.logMetrics(ctx)
	}

	listenerLabel := listener.Addr().String()

	// Accept connections until shutdown
	for {
		// Accept next connection (blocks until connection arrives or error)
		tcpConn, err := b.listener.Accept()
		if err != nil {
			// Check if error is due to shutdown (expected) or network error (unexpected)
			select {
			case <-b.Shutdown:
				// Expected error during shutdown (listener was closed)
				return b.gracefulShutdown()
			default:
				// Unexpected error - log but continue
				logger.Debug("Error accepting "+b.protocolName+" connection", "error", err)
				continue
			}
		}

		// Enable TCP_NODELAY to disable Nagle's algorithm
		if tcp, ok := tcpConn.(*net.TCPConn); ok {
			if err := tcp.SetNoDelay(true); err != nil {
				logger.Debug("Failed to set TCP_NODELAY", "error", err)
			}
		}

		// Lifetime admission check
		if !b.admit() {
			logger.Warn(b.protocolName+" connection rejected",
				"address", tcpConn.RemoteAddr(),
				logger.Err(ErrAdmissionLimit))
			if b.Metrics != nil {
				b.Metrics.RecordConnectionRejected(listenerLabel)
			}
			_ = tcpConn.Close()
			continue
		}

		// Track connection for graceful shutdown
		b.activeConns.Add(1)
		b.ConnCount.Add(1)

		// Register connection for forced closure capability
		connAddr := tcpConn.RemoteAddr().String()
		b.ActiveConnections.Store(connAddr, tcpConn)

		// Record metrics for connection accepted
		currentConns := b.ConnCount.Load()
		if b.Metrics != nil {
			b.Metrics.RecordConnectionAccepted(listenerLabel)
			b.Metrics.SetActiveSessions(currentConns)
		}

		// Log new connection
		logger.Debug(b.protocolName+" connection accepted", "address", tcpConn.RemoteAddr(), "active", currentConns)

		// Create protocol-specific connection handler
		conn := factory.NewConnection(tcpConn)

		// Handle connection in separate goroutine
		go func(addr string, tcp net.Conn) {
			defer func() {
				// Protocol-specific cleanup callback
				if onClose != nil {
					onClose(addr)
				}

				// Unregister connection from tracking map
				b.ActiveConnections.Delete(addr)

				// Cleanup on connection close
				b.activeConns.Done()
				b.ConnCount.Add(-1)

				// Record metrics for connection closed
				if b.Metrics != nil {
					b.Metrics.RecordConnectionClosed(listenerLabel)
					b.Metrics.SetActiveSessions(b.ConnCount.Load())
				}

				logger.Debug(b.protocolName+" connection closed", "address", tcp.RemoteAddr(), "active", b.ConnCount.Load())
			}()

			// Handle the session
			conn.Serve(b.ShutdownCtx)
		}(connAddr, tcpConn)
	}
}

// initiateShutdown signals the server to begin graceful shutdown.
//
// Shutdown sequence:
//  1. Close shutdown channel (signals accept loop to stop)
//  2. Close listener (stops accepting new connections)
//  3. Interrupt blocking reads on all active connections
//  4. Cancel ShutdownCtx (signals in-flight sessions to drain and close)
//
// Thread safety:
// Safe to call multiple times and from multiple goroutines.
func (b *BaseAdapter) initiateShutdown() {
	b.shutdownOnce.Do(func() {
		logger.Debug(b.protocolName + " shutdown initiated")

		// Close shutdown channel (signals accept loop)
		close(b.Shutdown)

		// Close listener (stops accepting new connections)
		b.listenerMu.Lock()
		if b.listener != nil {
			if err := b.listener.Close(); err != nil {
				logger.Debug("Error closing "+b.protocolName+" listener", "error", err)
			}
		}
		b.listenerMu.Unlock()

		// Set a short deadline on all connections to unblock any pending reads
		b.interruptBlockingReads()

		// Cancel all active session contexts
		b.CancelSessions()
		logger.Debug(b.protocolName + " cancellation signal sent to all active sessions")
	})
}

// interruptBlockingReads sets a short deadline on all active connections
// to interrupt any blocking read operations during shutdown.
func (b *BaseAdapter) interruptBlockingReads() {
	deadline := time.Now().Add(100 * time.Millisecond)

	b.ActiveConnections.Range(func(key, value any) bool {
		if conn, ok := value.(net.Conn); ok {
			if err := conn.SetReadDeadline(deadline); err != nil {
				logger.Debug("Error setting shutdown deadline on connection",
					"address", key, "error", err)
			}
		}
		return true
	})
	logger.Debug(b.protocolName + " shutdown: interrupted blocking reads on all connections")
}

// gracefulShutdown waits for active sessions to complete or timeout.
//
// Returns:
//   - nil if all sessions completed gracefully
//   - error if shutdown timeout exceeded (sessions were force-closed)
func (b *BaseAdapter) gracefulShutdown() error {
	activeCount := b.ConnCount.Load()
	logger.Info(b.protocolName+" graceful shutdown: waiting for active sessions",
		"active", activeCount, "timeout", b.Config.ShutdownTimeout)

	// Create channel that closes when all sessions are done
	done := make(chan struct{})
	go func() {
		b.activeConns.Wait()
		close(done)
	}()

	// Wait for completion or timeout
	select {
	case <-done:
		logger.Info(b.protocolName + " graceful shutdown complete: all sessions closed")
		return nil

	case <-time.After(b.Config.ShutdownTimeout):
		remaining := b.ConnCount.Load()
		logger.Warn(b.protocolName+" shutdown timeout exceeded - forcing closure",
			"active", remaining, "timeout", b.Config.ShutdownTimeout)

		// Force-close all remaining connections
		b.forceCloseConnections()

		return fmt.Errorf("%s shutdown timeout: %d sessions force-closed", b.protocolName, remaining)
	}
}

// forceCloseConnections closes all active TCP connections to accelerate shutdown.
func (b *BaseAdapter) forceCloseConnections() {
	logger.Info("Force-closing active " + b.protocolName + " sessions")

	b.listenerMu.RLock()
	listenerLabel := ""
	if b.listener != nil {
		listenerLabel = b.listener.Addr().String()
	}
	b.listenerMu.RUnlock()

	closedCount := 0
	b.ActiveConnections.Range(func(key, value any) bool {
		addr := key.(string)
		conn := value.(net.Conn)

		if err := conn.Close(); err != nil {
			logger.Debug("Error force-closing connection", "address", addr, "error", err)
		} else {
			closedCount++
			logger.Debug("Force-closed connection", "address", addr)
			if b.Metrics != nil {
				b.Metrics.RecordConnectionForceClosed(listenerLabel)
			}
		}

		return true
	})

	if closedCount == 0 {
		logger.Debug("No sessions to force-close")
	} else {
		logger.Info("Force-closed sessions", "count", closedCount)
	}
}

// Stop initiates graceful shutdown of the server.
//
// Stop is safe to call multiple times and safe to call concurrently with
// ServeWithFactory(). It signals the server to begin shutdown and waits for
// active sessions to complete up to ShutdownTimeout.
//
// Parameters:
//   - ctx: Controls the shutdown timeout. If cancelled, Stop returns
//     immediately with the context error after initiating shutdown.
//
// Returns:
//   - nil on successful graceful shutdown
//   - error if shutdown timeout exceeded or context cancelled
func (b *BaseAdapter) Stop(ctx context.Context) error {
	// Always initiate shutdown first
	b.initiateShutdown()

	// If no context provided, use gracefulShutdown with configured timeout
	if ctx == nil {
		return b.gracefulShutdown()
	}

	// Wait for graceful shutdown with context timeout
	activeCount := b.ConnCount.Load()
	logger.Info(b.protocolName+" graceful shutdown: waiting for active sessions (context timeout)",
		"active", activeCount)

	// Create channel that closes when all sessions are done
	done := make(chan struct{})
	go func() {
		b.activeConns.Wait()
		close(done)
	}()

	// Wait for completion or context cancellation
	select {
	case <-done:
		logger.Info(b.protocolName + " graceful shutdown complete: all sessions closed")
		return nil

	case <-ctx.Done():
		remaining := b.ConnCount.Load()
		logger.Warn(b.protocolName+" shutdown context cancelled",
			"active", remaining, "error", ctx.Err())
		b.forceCloseConnections()
		return ctx.Err()
	}
}

// logMetrics periodically logs server metrics for monitoring.
func (b *BaseAdapter) logMetrics(ctx context.Context) {
	ticker := time.NewTicker(b.Config.MetricsLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Info(b.protocolName+" metrics", "active_sessions", b.ConnCount.Load())
		}
	}
}

// GetActiveConnections returns the current number of active connections.
func (b *BaseAdapter) GetActiveConnections() int32 {
	return b.ConnCount.Load()
}

// GetListenerAddr returns the address the server is listening on.
// This method blocks until the listener is ready, making it safe for tests.
func (b *BaseAdapter) GetListenerAddr() string {
	<-b.ListenerReady

	b.listenerMu.RLock()
	defer b.listenerMu.RUnlock()

	if b.listener == nil {
		return ""
	}
	return b.listener.Addr().String()
}

// Port returns the configured TCP port.
func (b *BaseAdapter) Port() int {
	return b.Config.Port
}

// Protocol returns the human-readable protocol name (e.g., "telnet").
func (b *BaseAdapter) Protocol() string {
	return b.protocolName
}
