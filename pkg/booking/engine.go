package booking

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Booker identifies a connected client that can own seats. Implementations
// must be comparable (sessions use pointer identity) and must return a UID
// that is stable for the booker's lifetime.
type Booker interface {
	UID() string
}

type theatre struct {
	free SeatSet
	// owned maps booker UID to a non-empty seat set. Entries are removed as
	// soon as the set drains; free and owned partition [0, MaxSeats).
	owned map[string]SeatSet
}

type movie struct {
	// mu serializes every read and write across all of the movie's theatres.
	// It is never held across I/O.
	mu       sync.Mutex
	theatres map[string]*theatre
}

// Engine is the reservation engine: the movie/theatre catalog, the seat
// ownership state, and the registry of active bookers. The catalog shape is
// immutable once Load returns; per-theatre state is only mutated under the
// owning movie's lock, so operations on distinct movies never serialize
// against each other.
type Engine struct {
	movies map[string]*movie

	regMu   sync.Mutex
	bookers map[Booker]struct{}
	seq     uint32
}

// New returns an empty engine. Call Load before serving sessions.
func New() *Engine {
	return &Engine{
		movies:  make(map[string]*movie),
		bookers: make(map[Booker]struct{}),
	}
}

func (e *Engine) lookup(movieName string) (*movie, error) {
	m, ok := e.movies[movieName]
	if !ok {
		return nil, fmt.Errorf("movie %q: %w", movieName, ErrNotFound)
	}
	return m, nil
}

func (m *movie) lookup(theatreName string) (*theatre, error) {
	t, ok := m.theatres[theatreName]
	if !ok {
		return nil, fmt.Errorf("theatre %q: %w", theatreName, ErrNotFound)
	}
	return t, nil
}

// Book reserves the requested seats for the booker in one theatre.
//
// Seats already owned by the booker are a no-op; seats owned by others are
// reported in the returned unavailable set. With bestEffort false, any
// unavailable seat makes the whole request a no-op; with bestEffort true the
// grantable subset is committed. A seat index >= MaxSeats fails the call with
// ErrOutOfRange and leaves the theatre untouched.
//
// The returned count is the number of seats the booker owns in this theatre
// after the call.
func (e *Engine) Book(b Booker, movieName, theatreName string, seats SeatSet, bestEffort bool) (int, SeatSet, error) {
	if b == nil {
		return 0, nil, fmt.Errorf("nil booker: %w", ErrInvalidArgument)
	}
	m, err := e.lookup(movieName)
	if err != nil {
		return 0, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(theatreName)
	if err != nil {
		return 0, nil, err
	}
	return t.book(b.UID(), seats, bestEffort)
}

func (t *theatre) book(uid string, seats SeatSet, bestEffort bool) (int, SeatSet, error) {
	owned, hasEntry := t.owned[uid]
	if !hasEntry {
		owned = make(SeatSet)
	}

	// The range check is interleaved with allocation; newly holds the seats
	// taken out of free so far so they can be put back on failure.
	newly := make(SeatSet)
	unavailable := make(SeatSet)
	var rangeErr error

	for _, seat := range seats.Sorted() {
		if seat >= MaxSeats {
			rangeErr = fmt.Errorf("seat %d: %w", seat, ErrOutOfRange)
			break
		}
		switch {
		case t.free.Has(seat):
			t.free.Remove(seat)
			newly.Add(seat)
		case owned.Has(seat):
			// already ours, nothing to do
		default:
			unavailable.Add(seat)
		}
	}

	if rangeErr != nil || (unavailable.Len() > 0 && !bestEffort) {
		for seat := range newly {
			t.free.Add(seat)
		}
		if rangeErr != nil {
			return 0, nil, rangeErr
		}
		return owned.Len(), unavailable, nil
	}

	for seat := range newly {
		owned.Add(seat)
	}
	if !hasEntry && owned.Len() > 0 {
		t.owned[uid] = owned
	}
	return owned.Len(), unavailable, nil
}

// Unbook releases seats the booker owns in one theatre. Requested seats not
// owned by the booker come back in the invalid set; a booker with no entry in
// the theatre gets every requested seat reported invalid. The returned count
// is the number of seats actually released, or len(invalid) for a booker with
// no entry.
func (e *Engine) Unbook(b Booker, movieName, theatreName string, seats SeatSet) (int, SeatSet, error) {
	if b == nil {
		return 0, nil, fmt.Errorf("nil booker: %w", ErrInvalidArgument)
	}
	m, err := e.lookup(movieName)
	if err != nil {
		return 0, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(theatreName)
	if err != nil {
		return 0, nil, err
	}
	return t.unbook(b.UID(), seats)
}

func (t *theatre) unbook(uid string, seats SeatSet) (int, SeatSet, error) {
	owned, ok := t.owned[uid]
	if !ok {
		invalid := seats.Clone()
		return invalid.Len(), invalid, nil
	}

	for seat := range seats {
		if seat >= MaxSeats {
			return 0, nil, fmt.Errorf("seat %d: %w", seat, ErrOutOfRange)
		}
	}

	released := 0
	invalid := make(SeatSet)
	for _, seat := range seats.Sorted() {
		if owned.Has(seat) {
			owned.Remove(seat)
			t.free.Add(seat)
			released++
		} else {
			invalid.Add(seat)
		}
	}
	if owned.Len() == 0 {
		delete(t.owned, uid)
	}
	return released, invalid, nil
}

// FreeSeats returns a copy of the theatre's free set.
func (e *Engine) FreeSeats(movieName, theatreName string) (SeatSet, error) {
	m, err := e.lookup(movieName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(theatreName)
	if err != nil {
		return nil, err
	}
	return t.free.Clone(), nil
}

// OwnedSeats returns a copy of the booker's owned set in the theatre, empty
// when the booker holds nothing there.
func (e *Engine) OwnedSeats(b Booker, movieName, theatreName string) (SeatSet, error) {
	if b == nil {
		return nil, fmt.Errorf("nil booker: %w", ErrInvalidArgument)
	}
	m, err := e.lookup(movieName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(theatreName)
	if err != nil {
		return nil, err
	}
	owned, ok := t.owned[b.UID()]
	if !ok {
		return make(SeatSet), nil
	}
	return owned.Clone(), nil
}

// uidPadWidth is the column the seat list starts at in status dumps.
const uidPadWidth = 20

// DumpStatus renders every movie, theatre, free set and per-booker owned set
// in a fixed human-readable layout. Movies are visited in name order and each
// movie's lock is taken in turn, so an in-flight booking on one movie does
// not block inspection of the others. The outer map is iterated without a
// lock; its shape is immutable after Load.
func (e *Engine) DumpStatus() string {
	const offset = "   "

	var b strings.Builder
	for _, movieName := range sortedKeys(e.movies) {
		m := e.movies[movieName]
		b.WriteString("Movie: " + movieName + "\n")

		m.mu.Lock()
		for _, theatreName := range sortedKeys(m.theatres) {
			t := m.theatres[theatreName]
			b.WriteString(offset + "Theater: " + theatreName + "\n")
			b.WriteString(offset + "  Free seats: " + t.free.String() + "\n")
			b.WriteString(offset + "  Allocated seats: \n")

			for _, uid := range sortedKeys(t.owned) {
				pad := 0
				if len(uid) <= uidPadWidth {
					pad = uidPadWidth - len(uid)
				}
				b.WriteString(offset + offset + uid + strings.Repeat(" ", pad) + ": " + t.owned[uid].String() + "\n")
			}
		}
		m.mu.Unlock()
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
