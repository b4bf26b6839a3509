package shell

import (
	"fmt"
	"strings"
)

// ANSI spans for styled command responses.
const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiReset  = "\033[0m"
)

// Output collects a command's response text. Styled spans degrade to plain
// text when color is off for the session.
type Output struct {
	b     strings.Builder
	color bool
}

func (o *Output) Print(s string) {
	o.b.WriteString(s)
}

func (o *Output) Printf(format string, args ...any) {
	fmt.Fprintf(&o.b, format, args...)
}

func (o *Output) styled(span, s string) {
	if o.color {
		o.b.WriteString(span)
		o.b.WriteString(s)
		o.b.WriteString(ansiReset)
	} else {
		o.b.WriteString(s)
	}
	o.b.WriteString("\n")
}

// OK renders a success line.
func (o *Output) OK(s string) { o.styled(ansiGreen, s) }

// Warn renders a warning line (unavailable/invalid seat listings).
func (o *Output) Warn(s string) { o.styled(ansiYellow, s) }

// Error renders an error line. The session keeps running.
func (o *Output) Error(s string) { o.styled(ansiRed, s) }

func (o *Output) String() string { return o.b.String() }
