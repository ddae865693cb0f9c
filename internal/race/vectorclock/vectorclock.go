// Package vectorclock implements vector clocks for the two participants of
// a Dekker lock.
//
// The auditor keeps one clock per participant and one for the lock itself.
// Key operations:
//   - Join: synchronization (point-wise maximum), used when a participant
//     acquires the lock
//   - LessOrEqual: happens-before check (partial order), used to decide
//     whether two accesses to the protected value are ordered
//
// A lock has exactly two participants, so a clock is a fixed two-element
// array and every operation is allocation free.
package vectorclock

import "strconv"

// Slots is the number of participants a clock tracks.
const Slots = 2

// VectorClock represents logical time across both participants.
//
// Element vc[slot] stores the clock of participant slot.
// Example: {0:50, 1:30} means the first participant is at 50, the second
// at 30.
type VectorClock [Slots]uint32

// New creates a zero-initialized vector clock.
func New() *VectorClock {
	return &VectorClock{}
}

// Clone creates a copy of the vector clock.
//
// This is used to keep a snapshot of logical time, for example the clock of
// the last release of the lock.
func (vc *VectorClock) Clone() *VectorClock {
	clone := *vc
	return &clone
}

// Join performs point-wise maximum: vc = vc ⊔ other.
//
// Used when a participant acquires the lock: Ct := Ct ⊔ Lm.
func (vc *VectorClock) Join(other *VectorClock) {
	for i := 0; i < Slots; i++ {
		if other[i] > vc[i] {
			vc[i] = other[i]
		}
	}
}

// LessOrEqual checks partial order: vc ⊑ other.
//
// Returns true if vc[i] <= other[i] for every participant i.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i := 0; i < Slots; i++ {
		if vc[i] > other[i] {
			return false
		}
	}
	return true
}

// HappensBefore is an alias for LessOrEqual.
func (vc *VectorClock) HappensBefore(other *VectorClock) bool {
	return vc.LessOrEqual(other)
}

// Increment advances the clock of participant slot.
func (vc *VectorClock) Increment(slot uint8) {
	vc[slot]++
}

// Get returns the clock of participant slot.
func (vc *VectorClock) Get(slot uint8) uint32 {
	return vc[slot]
}

// Set sets the clock of participant slot.
func (vc *VectorClock) Set(slot uint8, clock uint32) {
	vc[slot] = clock
}

// String returns a debug representation such as "{0:50, 1:30}", showing
// only non-zero clocks.
func (vc *VectorClock) String() string {
	buf := []byte{'{'}
	for i := 0; i < Slots; i++ {
		if vc[i] == 0 {
			continue
		}
		if len(buf) > 1 {
			buf = append(buf, ',', ' ')
		}
		buf = strconv.AppendInt(buf, int64(i), 10)
		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, uint64(vc[i]), 10)
	}
	buf = append(buf, '}')
	return string(buf)
}
