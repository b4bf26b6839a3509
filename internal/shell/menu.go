// Package shell implements the hierarchical menu engine behind interactive
// sessions: a tree of named menus and commands, a line editor with server-side
// echo, styled output spans and help/exit builtins. It is transport-agnostic;
// the session layer feeds decoded bytes in and receives rendered text through
// a callback.
package shell

// Handler is the body of a leaf command. arg is the raw text after the
// command word, trimmed.
type Handler func(out *Output, arg string)

// Command is a leaf entry in a menu. A disabled command is hidden from help
// and completion and does not dispatch (the color/nocolor pair disable each
// other this way).
type Command struct {
	name     string
	help     string
	run      Handler
	disabled bool
}

func (c *Command) Name() string { return c.name }
func (c *Command) Enable()      { c.disabled = false }
func (c *Command) Disable()     { c.disabled = true }

// Menu is a named node of the command tree holding commands and submenus.
// Trees are built once per session and not mutated while the shell runs.
type Menu struct {
	name     string
	help     string
	commands []*Command
	submenus []*Menu
}

// NewMenu creates an empty menu. name is what the user types to enter it.
func NewMenu(name, help string) *Menu {
	return &Menu{name: name, help: help}
}

func (m *Menu) Name() string { return m.name }

// AddCommand registers a leaf command and returns its handle so callers can
// enable/disable it later.
func (m *Menu) AddCommand(name, help string, run Handler) *Command {
	c := &Command{name: name, help: help, run: run}
	m.commands = append(m.commands, c)
	return c
}

// AddMenu attaches a submenu.
func (m *Menu) AddMenu(sub *Menu) {
	m.submenus = append(m.submenus, sub)
}

func (m *Menu) findCommand(name string) *Command {
	for _, c := range m.commands {
		if c.name == name && !c.disabled {
			return c
		}
	}
	return nil
}

func (m *Menu) findSubmenu(name string) *Menu {
	for _, sub := range m.submenus {
		if sub.name == name {
			return sub
		}
	}
	return nil
}
