package logger

import "os"

// isTerminal reports whether f is attached to an interactive terminal, which
// decides whether text output gets ANSI colors. A character-device stat is
// portable and precise enough for that; pipes, files and daemon log
// redirects all come back false, and a dumb terminal opts out via TERM.
func isTerminal(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
