// Package epoch implements 32-bit logical timestamps for the lock auditor.
//
// An Epoch is a single participant's logical time as a compact value:
//   - Top 8 bits: participant slot
//   - Bottom 24 bits: clock value (0-16M)
//
// Comparing an epoch against a vector clock is O(1), which is what lets the
// auditor store only the last write and last read of the protected value.
//
// Participant clocks start at 1, so the zero Epoch means "no access yet".
package epoch

import (
	"strconv"

	"github.com/kolkov/dekker/internal/race/vectorclock"
)

// Epoch is a 32-bit logical timestamp encoding a participant slot and a
// clock value.
// Layout: [Slot:8][Clock:24]
//
// Example: 0x01001234 represents slot 1 at clock 0x1234 (4660 decimal).
type Epoch uint32

const (
	// SlotBits is the number of bits allocated for the participant slot.
	SlotBits = 8

	// ClockBits is the number of bits allocated for the clock value.
	ClockBits = 24

	// ClockMask is the bitmask for extracting the clock value (0x00FFFFFF).
	ClockMask = (1 << ClockBits) - 1
)

// NewEpoch creates an epoch from a participant slot and clock value.
//
// Clock values beyond 24 bits are truncated (wraps at 16M).
func NewEpoch(slot uint8, clock uint32) Epoch {
	return Epoch(uint32(slot)<<ClockBits | (clock & ClockMask))
}

// Decode extracts the participant slot and clock value.
func (e Epoch) Decode() (slot uint8, clock uint32) {
	//nolint:gosec // G115: Intentional truncation to extract top 8 bits as slot.
	slot = uint8(e >> ClockBits)
	clock = uint32(e) & ClockMask
	return
}

// HappensBefore checks if this epoch happened before a vector clock.
//
// Returns true if the epoch's clock <= vc[epoch's slot].
func (e Epoch) HappensBefore(vc *vectorclock.VectorClock) bool {
	slot, clock := e.Decode()
	return clock <= vc.Get(slot)
}

// Same checks if two epochs are identical (same slot and clock).
func (e Epoch) Same(other Epoch) bool {
	return e == other
}

// String returns "clock@slot" (e.g. "42@1").
func (e Epoch) String() string {
	slot, clock := e.Decode()
	return strconv.FormatUint(uint64(clock), 10) + "@" + strconv.Itoa(int(slot))
}
