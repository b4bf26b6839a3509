package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so records can be
// aggregated and queried by session, movie or theatre.
const (
	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP   = "client_ip"   // Client IP address
	KeyClientPort = "client_port" // Client source port
	KeyBooker     = "booker"      // Booker UID (address plus join sequence)

	// ========================================================================
	// Session & Connection
	// ========================================================================
	KeySessionID = "session_id" // Session identifier
	KeyListener  = "listener"   // Listener bind address
	KeyAdapter   = "adapter"    // Adapter name (telnet)

	// ========================================================================
	// Booking Operations
	// ========================================================================
	KeyMovie       = "movie"      // Movie name
	KeyTheatre     = "theatre"    // Theatre name
	KeyCommand     = "command"    // Shell command word dispatched
	KeySeats       = "seats"      // Seat list literal
	KeySeatCount   = "seat_count" // Number of seats in an operation
	KeyBookedCount = "booked"     // Seats owned by the booker after the call

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyCount      = "count"       // Generic count
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// ClientPort returns a slog.Attr for client source port
func ClientPort(port int) slog.Attr {
	return slog.Int(KeyClientPort, port)
}

// Booker returns a slog.Attr for a booker UID
func Booker(uid string) slog.Attr {
	return slog.String(KeyBooker, uid)
}

// SessionID returns a slog.Attr for session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// Listener returns a slog.Attr for a listener bind address
func Listener(addr string) slog.Attr {
	return slog.String(KeyListener, addr)
}

// Adapter returns a slog.Attr for an adapter name
func Adapter(name string) slog.Attr {
	return slog.String(KeyAdapter, name)
}

// Movie returns a slog.Attr for a movie name
func Movie(name string) slog.Attr {
	return slog.String(KeyMovie, name)
}

// Theatre returns a slog.Attr for a theatre name
func Theatre(name string) slog.Attr {
	return slog.String(KeyTheatre, name)
}

// Command returns a slog.Attr for a dispatched shell command
func Command(word string) slog.Attr {
	return slog.String(KeyCommand, word)
}

// Seats returns a slog.Attr for a seat list literal
func Seats(literal string) slog.Attr {
	return slog.String(KeySeats, literal)
}

// SeatCount returns a slog.Attr for the number of seats in an operation
func SeatCount(n int) slog.Attr {
	return slog.Int(KeySeatCount, n)
}

// BookedCount returns a slog.Attr for seats owned after a booking call
func BookedCount(n int) slog.Attr {
	return slog.Int(KeyBookedCount, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Count returns a slog.Attr for a generic count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
