package adapter

import "sync"

// AdmissionLimiter enforces a lifetime cap on admitted connections. The
// counter only ever grows; a closed session does not free a slot.
//
// One limiter can be shared by several adapters so the cap covers every
// listener in the process rather than each listener separately. A nil
// limiter admits everything.
type AdmissionLimiter struct {
	mu       sync.Mutex
	max      int
	admitted int
}

// NewAdmissionLimiter returns a limiter that admits at most max connections
// over its lifetime. max <= 0 means unlimited.
func NewAdmissionLimiter(max int) *AdmissionLimiter {
	return &AdmissionLimiter{max: max}
}

// Admit consumes one admission slot. It returns false once the total number
// of admissions has reached the limit.
func (l *AdmissionLimiter) Admit() bool {
	if l == nil || l.max <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.admitted >= l.max {
		return false
	}
	l.admitted++
	return true
}

// Admitted returns the number of connections admitted so far.
func (l *AdmissionLimiter) Admitted() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admitted
}
