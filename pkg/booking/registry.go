package booking

import "fmt"

// Join registers a booker and hands out its connection sequence number. The
// sequence starts at 1, is monotonically increasing for the process lifetime
// and is never reused, so it is safe to bake into booker UIDs. Joining a nil
// booker fails with ErrInvalidArgument; joining twice with ErrConflict.
func (e *Engine) Join(b Booker) (uint32, error) {
	if b == nil {
		return 0, fmt.Errorf("nil booker: %w", ErrInvalidArgument)
	}

	e.regMu.Lock()
	defer e.regMu.Unlock()

	if _, ok := e.bookers[b]; ok {
		return 0, fmt.Errorf("booker already joined: %w", ErrConflict)
	}
	e.bookers[b] = struct{}{}
	e.seq++
	return e.seq, nil
}

// Leave removes a booker from the registry. Idempotent; a nil booker is
// ignored. Seats the booker holds are deliberately left in place: reservations
// survive the session that made them (see the design notes).
func (e *Engine) Leave(b Booker) {
	if b == nil {
		return
	}

	e.regMu.Lock()
	defer e.regMu.Unlock()
	delete(e.bookers, b)
}

// ActiveBookers returns the number of currently joined bookers.
func (e *Engine) ActiveBookers() int {
	e.regMu.Lock()
	defer e.regMu.Unlock()
	return len(e.bookers)
}
