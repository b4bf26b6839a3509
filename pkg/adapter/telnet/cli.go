package telnet

import (
	"context"
	"errors"
	"time"

	"github.com/bookerd/bookerd/internal/logger"
	"github.com/bookerd/bookerd/internal/shell"
	"github.com/bookerd/bookerd/pkg/booking"
)

// cliMovie pins the menu tree to catalog positions so handlers resolve names
// without re-reading the catalog.
type cliMovie struct {
	name     string
	theatres []string
}

// buildCLI assembles the session's command tree from the engine catalog:
// a root menu with status and color toggles, one submenu per movie and one
// per theatre under it. Each session gets its own tree because the color
// commands enable and disable each other per session.
func (s *Session) buildCLI() *shell.Menu {
	s.movies = s.movies[:0]
	for _, mc := range s.engine.Catalog() {
		s.movies = append(s.movies, cliMovie{name: mc.Movie, theatres: mc.Theatres})
	}

	root := shell.NewMenu("cli", "")
	root.AddCommand("status", "Show current booking status",
		s.rootCommand("status", func(out *shell.Output, _ string) {
			out.Print(s.engine.DumpStatus())
		}))

	var colorCmd, nocolorCmd *shell.Command
	colorCmd = root.AddCommand("color", "Enable colors in the cli",
		s.rootCommand("color", func(out *shell.Output, _ string) {
			s.shell.SetColor(true)
			colorCmd.Disable()
			nocolorCmd.Enable()
			out.Print("Colors ON\n")
		}))
	nocolorCmd = root.AddCommand("nocolor", "Disable colors in the cli",
		s.rootCommand("nocolor", func(out *shell.Output, _ string) {
			s.shell.SetColor(false)
			nocolorCmd.Disable()
			colorCmd.Enable()
			out.Print("Colors OFF\n")
		}))
	// colors start enabled, so only the off switch is offered
	colorCmd.Disable()

	for mi, m := range s.movies {
		movieMenu := shell.NewMenu(m.name, "Movie: "+m.name)
		for ti := range m.theatres {
			movieMenu.AddMenu(s.buildTheatreMenu(mi, ti))
		}
		root.AddMenu(movieMenu)
	}
	return root
}

func (s *Session) buildTheatreMenu(mi, ti int) *shell.Menu {
	theatre := s.movies[mi].theatres[ti]
	menu := shell.NewMenu(theatre, "Theatre: "+theatre)
	menu.AddCommand("seats", "Show free seats",
		s.theatreCommand("seats", mi, ti, s.handleSeats))
	menu.AddCommand("book", "Book selected seats",
		s.theatreCommand("book", mi, ti, s.handleBook))
	menu.AddCommand("trybook", "Try to book selected seats",
		s.theatreCommand("trybook", mi, ti, s.handleTryBook))
	menu.AddCommand("unbook", "Release selected seats",
		s.theatreCommand("unbook", mi, ti, s.handleUnbook))
	menu.AddCommand("status", "Show our booking status",
		s.theatreCommand("status", mi, ti, s.handleStatus))
	return menu
}

// theatreHandler is a leaf handler bound to one theatre of one movie.
type theatreHandler func(out *shell.Output, arg, movie, theatre string)

// theatreCommand wraps a theatre handler with per-command logging context and
// a duration metric.
func (s *Session) theatreCommand(name string, mi, ti int, fn theatreHandler) shell.Handler {
	movie := s.movies[mi].name
	theatre := s.movies[mi].theatres[ti]
	return func(out *shell.Output, arg string) {
		lc := logger.FromContext(s.lctx).WithCommand(name, movie, theatre)
		start := time.Now()

		fn(out, arg, movie, theatre)

		if sm := s.adapter.sessionMetrics; sm != nil {
			sm.RecordCommand(name, time.Since(start))
		}
		logger.DebugCtx(logger.WithContext(context.Background(), lc),
			"Command handled", logger.DurationMs(lc.DurationMs()))
	}
}

// rootCommand is theatreCommand for commands with no theatre target.
func (s *Session) rootCommand(name string, fn shell.Handler) shell.Handler {
	return func(out *shell.Output, arg string) {
		lc := logger.FromContext(s.lctx).WithCommand(name, "", "")
		start := time.Now()

		fn(out, arg)

		if sm := s.adapter.sessionMetrics; sm != nil {
			sm.RecordCommand(name, time.Since(start))
		}
		logger.DebugCtx(logger.WithContext(context.Background(), lc),
			"Command handled", logger.DurationMs(lc.DurationMs()))
	}
}

// fail logs the reason and renders the generic error line. The session keeps
// running; only the transport or an exit ends it.
func (s *Session) fail(out *shell.Output, command, movie, theatre string, err error) {
	logger.WarnCtx(s.lctx, "Command failed",
		logger.Command(command), logger.Movie(movie), logger.Theatre(theatre), logger.Err(err))
	out.Error("Failed to process an request")
}

// printOwned renders the canonical closing line of every mutating command:
// the seats the booker currently holds in the theatre.
func (s *Session) printOwned(out *shell.Output, command, movie, theatre string) {
	owned, err := s.engine.OwnedSeats(s, movie, theatre)
	if err != nil {
		s.fail(out, command, movie, theatre, err)
		return
	}
	out.OK("Currently reserved seats: " + owned.String())
}

// updateSeatGauge refreshes the per-theatre booked-seats gauge.
func (s *Session) updateSeatGauge(movie, theatre string) {
	bm := s.adapter.bookingMetrics
	if bm == nil {
		return
	}
	free, err := s.engine.FreeSeats(movie, theatre)
	if err != nil {
		return
	}
	bm.SetSeatsBooked(movie, theatre, int(booking.MaxSeats)-free.Len())
}

func (s *Session) handleSeats(out *shell.Output, _ string, movie, theatre string) {
	free, err := s.engine.FreeSeats(movie, theatre)
	if err != nil {
		s.fail(out, "seats", movie, theatre, err)
		return
	}
	if free.Len() == 0 {
		out.Print("There are no seats available\n")
		return
	}
	out.Print("Free available seats: " + free.String() + "\n")
}

func (s *Session) handleBook(out *shell.Output, arg, movie, theatre string) {
	s.book(out, "book", arg, movie, theatre, false)
}

func (s *Session) handleTryBook(out *shell.Output, arg, movie, theatre string) {
	s.book(out, "trybook", arg, movie, theatre, true)
}

func (s *Session) book(out *shell.Output, command, arg, movie, theatre string, bestEffort bool) {
	seats, err := booking.ParseSeats(arg)
	if err != nil {
		s.fail(out, command, movie, theatre, err)
		return
	}
	requested := seats.Len()

	// ownership before the call, so the metric counts only newly acquired
	// seats and not re-booked ones the session already held
	ownedBefore := 0
	if before, err := s.engine.OwnedSeats(s, movie, theatre); err == nil {
		ownedBefore = before.Len()
	}

	ownedAfter, unavailable, err := s.engine.Book(s, movie, theatre, seats, bestEffort)
	if err != nil {
		if bm := s.adapter.bookingMetrics; bm != nil && errors.Is(err, booking.ErrOutOfRange) {
			bm.RecordBook(movie, theatre, requested, 0, bestEffort, "out_of_range")
		}
		s.fail(out, command, movie, theatre, err)
		return
	}

	if bm := s.adapter.bookingMetrics; bm != nil {
		granted := ownedAfter - ownedBefore
		switch {
		case unavailable.Len() == 0:
			bm.RecordBook(movie, theatre, requested, granted, bestEffort, "ok")
		case bestEffort:
			bm.RecordBook(movie, theatre, requested, granted, bestEffort, "partial")
		default:
			bm.RecordBook(movie, theatre, requested, 0, bestEffort, "conflict")
		}
	}
	s.updateSeatGauge(movie, theatre)

	if unavailable.Len() > 0 {
		out.Warn("Unavailable seats: " + unavailable.String())
	}
	s.printOwned(out, command, movie, theatre)
}

func (s *Session) handleUnbook(out *shell.Output, arg, movie, theatre string) {
	seats, err := booking.ParseSeats(arg)
	if err != nil {
		s.fail(out, "unbook", movie, theatre, err)
		return
	}

	_, invalid, err := s.engine.Unbook(s, movie, theatre, seats)
	if err != nil {
		s.fail(out, "unbook", movie, theatre, err)
		return
	}

	if bm := s.adapter.bookingMetrics; bm != nil {
		// requested minus invalid covers the unknown-booker case too, where
		// the engine's count reports the invalid seats rather than releases
		bm.RecordUnbook(movie, theatre, seats.Len()-invalid.Len(), invalid.Len())
	}
	s.updateSeatGauge(movie, theatre)

	if invalid.Len() > 0 {
		out.Warn("Invalid seats: " + invalid.String())
	}
	s.printOwned(out, "unbook", movie, theatre)
}

func (s *Session) handleStatus(out *shell.Output, _ string, movie, theatre string) {
	s.printOwned(out, "status", movie, theatre)
}
