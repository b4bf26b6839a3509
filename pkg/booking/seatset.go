package booking

import (
	"sort"
	"strconv"
	"strings"
)

// MaxSeats is the per-theatre seat capacity. Every theatre owns the seat
// plane [0, MaxSeats); all seat indices share this domain.
const MaxSeats uint32 = 20

// SeatSet is a set of seat indices. The zero value is not usable; create
// sets with NewSeatSet or Parse.
type SeatSet map[uint32]struct{}

// NewSeatSet returns a set containing the given seats.
func NewSeatSet(seats ...uint32) SeatSet {
	s := make(SeatSet, len(seats))
	for _, seat := range seats {
		s[seat] = struct{}{}
	}
	return s
}

func (s SeatSet) Add(seat uint32)      { s[seat] = struct{}{} }
func (s SeatSet) Remove(seat uint32)   { delete(s, seat) }
func (s SeatSet) Has(seat uint32) bool { _, ok := s[seat]; return ok }
func (s SeatSet) Len() int             { return len(s) }

// Clone returns an independent copy of the set.
func (s SeatSet) Clone() SeatSet {
	c := make(SeatSet, len(s))
	for seat := range s {
		c[seat] = struct{}{}
	}
	return c
}

// Sorted returns the seats in ascending order.
func (s SeatSet) Sorted() []uint32 {
	seats := make([]uint32, 0, len(s))
	for seat := range s {
		seats = append(seats, seat)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })
	return seats
}

// String renders the set ascending, comma-space separated: "2, 5, 6".
func (s SeatSet) String() string {
	var b strings.Builder
	for i, seat := range s.Sorted() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(uint64(seat), 10))
	}
	return b.String()
}

// Parse converts a seat-list literal into a SeatSet. Items are comma
// separated; each item is a single non-negative decimal or a range "A-B"
// where either side may be empty (meaning 0 and max respectively). Values
// above max are clamped to max. Whitespace around items is trimmed.
//
//	"1, 2, 5-7, 10" -> {1, 2, 5, 6, 7, 10}
//	"-5"            -> {0..5}
//	"15-"           -> {15..max}
func Parse(literal string, max uint32) (SeatSet, error) {
	seats := make(SeatSet)

	for _, item := range strings.Split(literal, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		before, after, isRange := strings.Cut(item, "-")
		if !isRange {
			seat, err := parseSeat(item, max)
			if err != nil {
				return nil, err
			}
			seats.Add(seat)
			continue
		}

		start := uint32(0)
		end := max
		var err error
		if s := strings.TrimSpace(before); s != "" {
			if start, err = parseSeat(s, max); err != nil {
				return nil, err
			}
		}
		if s := strings.TrimSpace(after); s != "" {
			if end, err = parseSeat(s, max); err != nil {
				return nil, err
			}
		}
		for seat := start; seat <= end; seat++ {
			seats.Add(seat)
		}
	}

	return seats, nil
}

// ParseSeats parses a seat-list literal against the theatre capacity.
func ParseSeats(literal string) (SeatSet, error) {
	return Parse(literal, MaxSeats)
}

func parseSeat(s string, max uint32) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidArgument
	}
	if uint32(v) > max {
		return max, nil
	}
	return uint32(v), nil
}
