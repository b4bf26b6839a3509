package booking

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBooker string

func (b testBooker) UID() string { return string(b) }

func testCatalog() *CatalogConfig {
	return &CatalogConfig{Movies: []MovieConfig{
		{Movie: "GodFather", Theatres: []string{"Tokyo", "Delhi", "Shanghai", "SaoPaulo", "MexicoCity"}},
		{Movie: "Matrix", Theatres: []string{"Tokyo", "MexicoCity"}},
	}}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	require.NoError(t, e.Load(testCatalog()))
	return e
}

// checkInvariants asserts that for every theatre the free set and the union
// of owned sets are disjoint, together cover [0, MaxSeats), and that no owned
// entry is empty.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	for movieName, m := range e.movies {
		m.mu.Lock()
		for theatreName, th := range m.theatres {
			seen := make(map[uint32]int)
			for seat := range th.free {
				seen[seat]++
			}
			for uid, owned := range th.owned {
				assert.NotZero(t, owned.Len(), "%s/%s: empty owned entry for %s", movieName, theatreName, uid)
				for seat := range owned {
					seen[seat]++
				}
			}
			for seat := uint32(0); seat < MaxSeats; seat++ {
				assert.Equal(t, 1, seen[seat], "%s/%s: seat %d coverage", movieName, theatreName, seat)
			}
			assert.Len(t, seen, int(MaxSeats), "%s/%s: seats outside the plane", movieName, theatreName)
		}
		m.mu.Unlock()
	}
}

func TestBookStrict(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	count, unavailable, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(17, 12), false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, unavailable.Sorted())

	owned, err := e.OwnedSeats(b1, "GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, []uint32{12, 17}, owned.Sorted())

	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats)-2, free.Len())
	assert.False(t, free.Has(12))
	assert.False(t, free.Has(17))

	checkInvariants(t, e)
}

func TestBookRebookOwnSeatIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(17, 12), false)
	require.NoError(t, err)

	count, unavailable, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(17), false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, unavailable.Sorted())
	checkInvariants(t, e)
}

func TestBookStrictConflictChangesNothing(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")
	b2 := testBooker("b2")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(10), false)
	require.NoError(t, err)

	count, unavailable, err := e.Book(b2, "GodFather", "Delhi", NewSeatSet(10, 15), false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, []uint32{10}, unavailable.Sorted())

	// seat 15 must have been rolled back to free, b2 owns nothing
	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.True(t, free.Has(15))
	owned, err := e.OwnedSeats(b2, "GodFather", "Delhi")
	require.NoError(t, err)
	assert.Zero(t, owned.Len())
	checkInvariants(t, e)
}

func TestBookBestEffortGrantsPartial(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")
	b2 := testBooker("b2")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(10), false)
	require.NoError(t, err)

	count, unavailable, err := e.Book(b2, "GodFather", "Delhi", NewSeatSet(10, 15), true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []uint32{10}, unavailable.Sorted())

	owned, err := e.OwnedSeats(b2, "GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, []uint32{15}, owned.Sorted())
	checkInvariants(t, e)
}

func TestBookOutOfRangeRollsBack(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(3, 22), false)
	require.ErrorIs(t, err, ErrOutOfRange)

	// seat 3 was allocated before the range check tripped; it must be back
	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
	checkInvariants(t, e)

	// best effort does not bypass the range check
	_, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(22), true)
	require.ErrorIs(t, err, ErrOutOfRange)
	checkInvariants(t, e)
}

func TestBookEmptyRequestIsNoop(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	count, unavailable, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(), false)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, unavailable.Sorted())

	// no empty entry may be created
	checkInvariants(t, e)

	_, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(4), false)
	require.NoError(t, err)
	count, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBookUnknownNames(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, _, err := e.Book(b1, "Dune", "Delhi", NewSeatSet(1), false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = e.Book(b1, "GodFather", "Berlin", NewSeatSet(1), false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = e.Book(nil, "GodFather", "Delhi", NewSeatSet(1), false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUnbook(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")
	b2 := testBooker("b2")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(12, 17), false)
	require.NoError(t, err)

	// seat not owned by b1
	count, invalid, err := e.Unbook(b1, "GodFather", "Delhi", NewSeatSet(10))
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, []uint32{10}, invalid.Sorted())

	// b2 has no entry at all: every seat reported invalid, b1 keeps 17
	count, invalid, err = e.Unbook(b2, "GodFather", "Delhi", NewSeatSet(17))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []uint32{17}, invalid.Sorted())
	owned, err := e.OwnedSeats(b1, "GodFather", "Delhi")
	require.NoError(t, err)
	assert.True(t, owned.Has(17))

	// releasing everything removes the entry
	count, invalid, err = e.Unbook(b1, "GodFather", "Delhi", NewSeatSet(12, 17))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, invalid.Sorted())
	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
	checkInvariants(t, e)
}

func TestUnbookOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(5), false)
	require.NoError(t, err)

	_, _, err = e.Unbook(b1, "GodFather", "Delhi", NewSeatSet(5, 22))
	require.ErrorIs(t, err, ErrOutOfRange)

	// state unchanged
	owned, err := e.OwnedSeats(b1, "GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, []uint32{5}, owned.Sorted())
	checkInvariants(t, e)
}

func TestBookThenUnbookIsIdentity(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	seats := NewSeatSet(1, 5, 9)
	_, _, err := e.Book(b1, "Matrix", "Tokyo", seats, false)
	require.NoError(t, err)
	count, invalid, err := e.Unbook(b1, "Matrix", "Tokyo", seats)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Empty(t, invalid.Sorted())

	free, err := e.FreeSeats("Matrix", "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
	owned, err := e.OwnedSeats(b1, "Matrix", "Tokyo")
	require.NoError(t, err)
	assert.Zero(t, owned.Len())
	checkInvariants(t, e)
}

func TestTheatresOfSameNameAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, _, err := e.Book(b1, "GodFather", "Tokyo", NewSeatSet(0, 1), false)
	require.NoError(t, err)

	free, err := e.FreeSeats("Matrix", "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
}

func TestConcurrentDisjointMovies(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i, movieName := range []string{"GodFather", "Matrix"} {
		wg.Add(1)
		go func(i int, movieName string) {
			defer wg.Done()
			b := testBooker(movieName)
			for round := 0; round < 200; round++ {
				seats := NewSeatSet(uint32(round % int(MaxSeats)))
				if _, _, err := e.Book(b, movieName, "Tokyo", seats, true); err != nil {
					t.Error(err)
					return
				}
				if _, _, err := e.Unbook(b, movieName, "Tokyo", seats); err != nil {
					t.Error(err)
					return
				}
			}
		}(i, movieName)
	}
	wg.Wait()
	checkInvariants(t, e)
}

func TestConcurrentBookersSingleTheatre(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := testBooker(string(rune('a' + i)))
			for round := 0; round < 100; round++ {
				seats := NewSeatSet(uint32((i + round) % int(MaxSeats)))
				_, _, err := e.Book(b, "GodFather", "Shanghai", seats, true)
				if err != nil {
					t.Error(err)
					return
				}
				if _, _, err := e.Unbook(b, "GodFather", "Shanghai", seats); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	checkInvariants(t, e)

	free, err := e.FreeSeats("GodFather", "Shanghai")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
}

func TestDumpStatus(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("10.0.0.1:4242@1")

	_, _, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(12, 17), false)
	require.NoError(t, err)

	dump := e.DumpStatus()

	assert.True(t, strings.HasPrefix(dump, "Movie: GodFather\n"), "movies must come in name order")
	assert.Contains(t, dump, "   Theater: Delhi\n")
	assert.Contains(t, dump, "     Allocated seats: \n")
	// UID column is right-padded to 20 characters
	assert.Contains(t, dump, "      10.0.0.1:4242@1     : 12, 17\n")
	assert.Contains(t, dump, "     Free seats: 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 14, 15, 16, 18, 19\n")
	// second movie follows the first
	assert.Contains(t, dump, "Movie: Matrix\n")
}

func TestJoinLeave(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")
	b2 := testBooker("b2")

	seq, err := e.Join(b1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), seq)

	_, err = e.Join(b1)
	assert.ErrorIs(t, err, ErrConflict)

	seq, err = e.Join(b2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), seq)
	assert.Equal(t, 2, e.ActiveBookers())

	_, err = e.Join(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	e.Leave(b1)
	e.Leave(b1) // idempotent
	assert.Equal(t, 1, e.ActiveBookers())

	// sequence numbers are never reused
	seq, err = e.Join(b1)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), seq)
}

func TestLeaveKeepsSeats(t *testing.T) {
	e := newTestEngine(t)
	b1 := testBooker("b1")

	_, err := e.Join(b1)
	require.NoError(t, err)
	_, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(7), false)
	require.NoError(t, err)

	e.Leave(b1)

	// reservations deliberately survive the session
	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.False(t, free.Has(7))
}

func TestScenarioSequence(t *testing.T) {
	// The full walk-through over GodFather/Delhi.
	e := New()
	require.NoError(t, e.Load(&CatalogConfig{Movies: []MovieConfig{
		{Movie: "GodFather", Theatres: []string{"Tokyo", "Delhi", "Shanghai", "SaoPaulo", "MexicoCity"}},
	}}))
	b1 := testBooker("b1")
	b2 := testBooker("b2")

	seq, err := e.Join(b1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), seq)

	count, unavailable, err := e.Book(b1, "GodFather", "Delhi", NewSeatSet(17, 12), false)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, unavailable.Sorted())

	count, unavailable, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(17), false)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, unavailable.Sorted())

	count, invalid, err := e.Unbook(b1, "GodFather", "Delhi", NewSeatSet(10))
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Equal(t, []uint32{10}, invalid.Sorted())

	count, invalid, err = e.Unbook(b2, "GodFather", "Delhi", NewSeatSet(17))
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, []uint32{17}, invalid.Sorted())

	// b1 takes 10 so the strict/best-effort pair below conflicts on it
	_, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(10), false)
	require.NoError(t, err)

	count, unavailable, err = e.Book(b2, "GodFather", "Delhi", NewSeatSet(10, 15), false)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Equal(t, []uint32{10}, unavailable.Sorted())

	count, unavailable, err = e.Book(b2, "GodFather", "Delhi", NewSeatSet(10, 15), true)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, []uint32{10}, unavailable.Sorted())

	_, _, err = e.Book(b1, "GodFather", "Delhi", NewSeatSet(22), false)
	require.ErrorIs(t, err, ErrOutOfRange)

	checkInvariants(t, e)
}
