package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// sessionKeys is the render order for the attrs that identify where a log
// line came from. Lines belonging to one session keep these aligned at the
// front regardless of the order the call site passed them in.
var sessionKeys = []string{
	KeyClientIP,
	KeyBooker,
	KeyMovie,
	KeyTheatre,
	KeyCommand,
}

// textHandler is a compact slog.Handler for operator-facing output:
//
//	[2006-01-02 15:04:05] [INFO] session started client_ip=... booker=...
//
// Session-identifying attrs render first, errors render red. Attr groups
// are flattened; nothing in this codebase logs grouped attrs.
type textHandler struct {
	level    slog.Leveler
	w        io.Writer
	mu       *sync.Mutex
	attrs    []slog.Attr
	useColor bool
}

// NewColorTextHandler returns the text handler. Colors apply only when
// useColor is set; opts may be nil.
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) slog.Handler {
	var level slog.Leveler
	if opts != nil {
		level = opts.Level
	}

	return &textHandler{
		level:    level,
		w:        w,
		mu:       &sync.Mutex{},
		useColor: useColor,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.level != nil {
		minLevel = h.level.Level()
	}
	return level >= minLevel
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128)
	buf = fmt.Appendf(buf, "[%s] [%s] %s",
		r.Time.Format("2006-01-02 15:04:05"), h.formatLevel(r.Level), r.Message)

	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	// session attrs first, the rest in call order
	rendered := make(map[int]bool, len(attrs))
	for _, key := range sessionKeys {
		for i, a := range attrs {
			if a.Key == key && !rendered[i] {
				buf = h.appendAttr(buf, a)
				rendered[i] = true
			}
		}
	}
	for i, a := range attrs {
		if !rendered[i] {
			buf = h.appendAttr(buf, a)
		}
	}

	buf = append(buf, '\n')

	h.mu.Lock()
	_, err := h.w.Write(buf)
	h.mu.Unlock()
	return err
}

func (h *textHandler) formatLevel(level slog.Level) string {
	var levelStr, color string
	switch {
	case level < slog.LevelInfo:
		levelStr, color = "DEBUG", colorGray
	case level < slog.LevelWarn:
		levelStr, color = "INFO", colorGreen
	case level < slog.LevelError:
		levelStr, color = "WARN", colorYellow
	default:
		levelStr, color = "ERROR", colorRed
	}

	if h.useColor {
		return color + levelStr + colorReset
	}
	return levelStr
}

func (h *textHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	a.Value = a.Value.Resolve()
	val := formatValue(a.Value)

	if !h.useColor {
		return fmt.Appendf(buf, " %s=%s", a.Key, val)
	}
	if a.Key == KeyError {
		return fmt.Appendf(buf, " %s%s%s=%s%s%s",
			colorCyan, a.Key, colorReset, colorRed, val, colorReset)
	}
	return fmt.Appendf(buf, " %s%s%s=%s", colorCyan, a.Key, colorReset, val)
}

// formatValue renders the value kinds this codebase actually logs; anything
// exotic falls through to the %v rendering.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindFloat64:
		return fmt.Sprintf("%.3f", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &textHandler{
		level:    h.level,
		w:        h.w,
		mu:       h.mu, // share the write lock with the parent
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
		useColor: h.useColor,
	}
}

// WithGroup flattens groups into the parent namespace.
func (h *textHandler) WithGroup(string) slog.Handler {
	return h
}
