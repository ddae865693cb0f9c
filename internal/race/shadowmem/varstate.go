package shadowmem

import (
	"github.com/kolkov/dekker/internal/race/epoch"
	"github.com/kolkov/dekker/internal/race/vectorclock"
)

// VarState stores the access history of the protected value.
//
// Thread Safety: NOT thread-safe on its own. The detector serializes all
// access to it.
type VarState struct {
	// W is the epoch of the last write. Zero means never written.
	W epoch.Epoch

	// Read tracking:
	// If readClock == nil, readEpoch is the single last reader.
	// If readClock != nil, both participants read concurrently since the
	// last write.
	readEpoch epoch.Epoch
	readClock *vectorclock.VectorClock

	// WriteStack and ReadStack are the call stacks of the accesses
	// recorded in W and the read epoch, for reports.
	WriteStack []uintptr
	ReadStack  []uintptr
}

// NewVarState creates the state of a value that has never been accessed.
func NewVarState() *VarState {
	return &VarState{}
}

// Reset forgets all recorded accesses.
func (vs *VarState) Reset() {
	*vs = VarState{}
}

// IsPromoted reports whether reads are tracked with a vector clock.
func (vs *VarState) IsPromoted() bool {
	return vs.readClock != nil
}

// PromoteToReadClock switches read tracking to a vector clock holding the
// current read epoch and the clock of the new concurrent reader.
func (vs *VarState) PromoteToReadClock(newReadVC *vectorclock.VectorClock) {
	vs.readClock = vectorclock.New()
	if vs.readEpoch != 0 {
		slot, clock := vs.readEpoch.Decode()
		vs.readClock.Set(slot, clock)
	}
	vs.readClock.Join(newReadVC)
	vs.readEpoch = 0
}

// GetReadEpoch returns the single reader epoch. It is zero when promoted or
// when nothing was read since the last write.
func (vs *VarState) GetReadEpoch() epoch.Epoch {
	return vs.readEpoch
}

// SetReadEpoch records a read. It is a no-op when promoted; use
// GetReadClock().Join instead.
func (vs *VarState) SetReadEpoch(e epoch.Epoch) {
	if vs.readClock == nil {
		vs.readEpoch = e
	}
}

// GetReadClock returns the read vector clock, or nil when not promoted.
func (vs *VarState) GetReadClock() *vectorclock.VectorClock {
	return vs.readClock
}

// Demote clears read tracking. A write dominates all previous reads.
func (vs *VarState) Demote() {
	vs.readEpoch = 0
	vs.readClock = nil
	vs.ReadStack = nil
}

// String returns a debug representation:
//   - "W:100@1 R:50@0" (single reader)
//   - "W:100@1 R:{0:50, 1:60} [PROMOTED]" (both participants read)
func (vs *VarState) String() string {
	w := "W:" + vs.W.String()
	if vs.readClock != nil {
		return w + " R:" + vs.readClock.String() + " [PROMOTED]"
	}
	return w + " R:" + vs.readEpoch.String()
}
