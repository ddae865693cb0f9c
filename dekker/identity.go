package dekker

// Identity names one of the two participants of a lock.
//
// The zero value is First. Identities are fixed when [New] creates the
// handles and are never reused.
type Identity uint32

const (
	// First is the identity of the first handle returned by New. It owns
	// the turn when the lock is created.
	First Identity = iota
	// Second is the identity of the second handle returned by New.
	Second
)

// Other returns the identity of the peer participant.
func (id Identity) Other() Identity {
	if id == First {
		return Second
	}
	return First
}

// String returns "first" or "second".
func (id Identity) String() string {
	switch id {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "invalid"
	}
}

// Slot returns the index of the participant's intent flag (0 or 1).
//
// Slots are also used by the auditor as compact participant IDs in vector
// clocks and epochs.
func (id Identity) Slot() uint8 {
	//nolint:gosec // G115: Identity is First or Second.
	return uint8(id)
}
