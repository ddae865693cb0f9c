// Package syncshadow implements the shadow state of the Dekker lock itself.
//
// The lock is the only synchronization between the two participants, so it
// is the source of every happens-before edge the auditor knows about:
//
//	Acquire(m):  Ct := Ct ⊔ Lm  (participant clock joins lock clock)
//	             Ct[t]++
//
//	Release(m):  Lm := Ct        (lock clock = participant clock)
//	             Ct[t]++
//
// If the lock were broken and let both participants in at once, the second
// one would join a release clock that predates the first one's critical
// section, and their accesses to the value would show up as unordered.
package syncshadow

import "github.com/kolkov/dekker/internal/race/vectorclock"

// SyncVar stores the vector clock of the last release of a lock.
//
// Thread Safety: NOT thread-safe on its own. The detector serializes all
// access to it.
type SyncVar struct {
	// releaseClock is the clock at the last release. nil means the lock
	// was never released.
	releaseClock *vectorclock.VectorClock
}

// GetReleaseClock returns the release clock, or nil if the lock was never
// released.
func (sv *SyncVar) GetReleaseClock() *vectorclock.VectorClock {
	return sv.releaseClock
}

// SetReleaseClock copies clock into the release clock.
func (sv *SyncVar) SetReleaseClock(clock *vectorclock.VectorClock) {
	if sv.releaseClock == nil {
		sv.releaseClock = clock.Clone()
		return
	}
	*sv.releaseClock = *clock
}

// Reset forgets the release clock.
func (sv *SyncVar) Reset() {
	sv.releaseClock = nil
}
