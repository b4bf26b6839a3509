package telnet

import (
	"fmt"
	"time"

	"github.com/bookerd/bookerd/pkg/adapter"
)

// DefaultPort is the TCP port the reservation service listens on when no port
// is configured.
const DefaultPort = 50000

// Config holds the telnet adapter configuration.
type Config struct {
	// BindAddress is the IP address to bind to.
	// Empty string or "0.0.0.0" binds to all interfaces.
	BindAddress string

	// Port is the TCP port to listen on.
	Port int

	// MaxConnections caps the number of connections the listener will admit
	// over its lifetime. 0 means unlimited. Ignored when Admission is set.
	MaxConnections int

	// Admission optionally shares one admission limiter with other
	// listeners so MaxConnections caps the whole process. When nil, the
	// listener enforces MaxConnections on its own.
	Admission *adapter.AdmissionLimiter

	// ShutdownTimeout is the maximum duration to wait for sessions to drain
	// during graceful shutdown.
	ShutdownTimeout time.Duration

	// MetricsLogInterval is the interval at which to log adapter metrics.
	// 0 disables periodic metrics logging.
	MetricsLogInterval time.Duration
}

// applyDefaults replaces zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// validate checks the configuration for programmer errors.
func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("invalid max connections: %d", c.MaxConnections)
	}
	return nil
}
