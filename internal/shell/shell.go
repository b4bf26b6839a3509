package shell

import (
	"fmt"
	"strings"
)

// Config wires a shell to its session.
type Config struct {
	// Root is the top of the command tree.
	Root *Menu

	// Send transmits rendered text towards the client. Required.
	Send func(string)

	// OnEnter renders the greeting when the shell starts.
	OnEnter func(out *Output)

	// OnExit renders the farewell when the user exits the root menu. After it
	// returns the shell dispatches nothing further; the session drains its
	// queue and closes.
	OnExit func(out *Output)
}

// Shell drives one interactive session over the menu tree: line editing with
// server-side echo, prompt rendering, dispatch, help/exit builtins and TAB
// completion of command names. Not safe for concurrent use; the session feeds
// it from its receive path only.
type Shell struct {
	cfg   Config
	stack []*Menu

	line   []byte
	lastCR bool
	esc    escState

	color  bool
	exited bool
}

type escState int

const (
	escNone escState = iota
	escSeen          // ESC consumed, deciding sequence kind
	escCSI           // inside ESC [ ... sequence
)

// New creates a shell positioned at the root menu. Colors start enabled, as
// the sessions of old did.
func New(cfg Config) *Shell {
	return &Shell{
		cfg:   cfg,
		stack: []*Menu{cfg.Root},
		color: true,
	}
}

// Exited reports whether the user has left the root menu.
func (s *Shell) Exited() bool { return s.exited }

// ColorEnabled reports the per-session color state.
func (s *Shell) ColorEnabled() bool { return s.color }

// SetColor toggles ANSI color in responses for this session.
func (s *Shell) SetColor(on bool) { s.color = on }

func (s *Shell) current() *Menu { return s.stack[len(s.stack)-1] }

func (s *Shell) prompt() string {
	return s.current().name + "> "
}

// Start emits the greeting banner and the first prompt.
func (s *Shell) Start() {
	if s.cfg.OnEnter != nil {
		out := &Output{color: s.color}
		s.cfg.OnEnter(out)
		s.cfg.Send(out.String())
	}
	s.cfg.Send(s.prompt())
}

// Read consumes decoded terminal bytes: printable characters are echoed and
// buffered, BS/DEL edits, CR (optionally followed by LF or NUL) submits, TAB
// completes, CSI sequences are swallowed.
func (s *Shell) Read(p []byte) {
	for _, b := range p {
		if s.exited {
			return
		}

		switch s.esc {
		case escSeen:
			if b == '[' {
				s.esc = escCSI
			} else {
				s.esc = escNone
			}
			continue
		case escCSI:
			// CSI terminates on a byte in 0x40..0x7E
			if b >= 0x40 && b <= 0x7E {
				s.esc = escNone
			}
			continue
		}

		wasCR := s.lastCR
		s.lastCR = false

		switch {
		case b == '\r':
			s.lastCR = true
			s.submit()
		case b == '\n' || b == 0:
			if !wasCR {
				s.submit()
			}
		case b == 0x08 || b == 0x7F:
			if len(s.line) > 0 {
				s.line = s.line[:len(s.line)-1]
				s.cfg.Send("\b \b")
			}
		case b == '\t':
			s.complete()
		case b == 0x1B:
			s.esc = escSeen
		case b >= 0x20 && b < 0x7F:
			s.line = append(s.line, b)
			s.cfg.Send(string(rune(b)))
		default:
			// remaining control bytes are ignored
		}
	}
}

func (s *Shell) submit() {
	line := strings.TrimSpace(string(s.line))
	s.line = s.line[:0]
	s.cfg.Send("\n")

	if line != "" {
		s.dispatch(line)
	}
	if !s.exited {
		s.cfg.Send(s.prompt())
	}
}

func (s *Shell) dispatch(line string) {
	word, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch word {
	case "help":
		s.cfg.Send(s.renderHelp())
		return
	case "exit":
		s.exit()
		return
	}

	menu := s.current()
	if c := menu.findCommand(word); c != nil {
		out := &Output{color: s.color}
		s.runCommand(c, out, arg)
		s.cfg.Send(out.String())
		return
	}
	if sub := menu.findSubmenu(word); sub != nil && arg == "" {
		s.stack = append(s.stack, sub)
		return
	}

	out := &Output{color: s.color}
	out.Error("Unknown command or incorrect parameters: " + line + ".")
	s.cfg.Send(out.String())
}

// runCommand isolates handler panics so a failing command renders an error
// line instead of tearing down the session.
func (s *Shell) runCommand(c *Command, out *Output, arg string) {
	defer func() {
		if r := recover(); r != nil {
			out.Error(fmt.Sprintf("Exception caught in handler: %v while handling command: %s.", r, c.name))
		}
	}()
	c.run(out, arg)
}

func (s *Shell) exit() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
		return
	}
	if s.cfg.OnExit != nil {
		out := &Output{color: s.color}
		s.cfg.OnExit(out)
		s.cfg.Send(out.String())
	}
	s.exited = true
}

func (s *Shell) renderHelp() string {
	menu := s.current()

	var b strings.Builder
	b.WriteString("Commands:\n")
	writeEntry := func(name, help string) {
		fmt.Fprintf(&b, "  %-12s %s\n", name, help)
	}
	writeEntry("help", "Show this help")
	writeEntry("exit", "Leave the current menu")
	for _, c := range menu.commands {
		if !c.disabled {
			writeEntry(c.name, c.help)
		}
	}
	for _, sub := range menu.submenus {
		writeEntry(sub.name, sub.help)
	}
	return b.String()
}

// complete expands the first word of the line against the current menu. A
// unique match is filled in; multiple matches are listed and the line
// reprinted.
func (s *Shell) complete() {
	line := string(s.line)
	if strings.Contains(line, " ") {
		return
	}

	var matches []string
	for _, name := range s.candidates() {
		if strings.HasPrefix(name, line) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
	case 1:
		rest := matches[0][len(line):] + " "
		s.line = append(s.line, rest...)
		s.cfg.Send(rest)
	default:
		s.cfg.Send("\n" + strings.Join(matches, "  ") + "\n" + s.prompt() + line)
	}
}

func (s *Shell) candidates() []string {
	menu := s.current()
	names := []string{"help", "exit"}
	for _, c := range menu.commands {
		if !c.disabled {
			names = append(names, c.name)
		}
	}
	for _, sub := range menu.submenus {
		names = append(names, sub.name)
	}
	return names
}
