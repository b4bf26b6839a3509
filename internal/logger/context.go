package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds session-scoped logging context
type LogContext struct {
	ClientIP  string    // Client IP address (without port)
	Booker    string    // Booker UID once the session has joined
	Movie     string    // Movie menu the command ran under, if any
	Theatre   string    // Theatre the command targeted, if any
	Command   string    // Shell command word
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithBooker returns a copy with the booker UID set
func (lc *LogContext) WithBooker(uid string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Booker = uid
	}
	return clone
}

// WithCommand returns a copy with the command and its movie/theatre target set
func (lc *LogContext) WithCommand(command, movie, theatre string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Command = command
		clone.Movie = movie
		clone.Theatre = theatre
		clone.StartTime = time.Now()
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
