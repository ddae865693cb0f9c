package participant

import (
	"github.com/kolkov/dekker/internal/race/epoch"
	"github.com/kolkov/dekker/internal/race/vectorclock"
)

// Context represents the auditing state of a single participant.
//
// Invariant: Epoch == epoch.NewEpoch(Slot, C[Slot]).
type Context struct {
	// Slot is the participant's slot, 0 or 1.
	Slot uint8

	// C is the participant's vector clock.
	C *vectorclock.VectorClock

	// Epoch is the cached epoch C[Slot].
	Epoch epoch.Epoch
}

// Alloc creates the context of participant slot at clock 1.
//
// Example:
//
//	ctx := Alloc(1)
//	// ctx.C = {1:1}, ctx.Epoch = 1@1
func Alloc(slot uint8) *Context {
	ctx := &Context{
		Slot: slot,
		C:    vectorclock.New(),
	}
	ctx.C.Set(slot, 1)
	ctx.Epoch = epoch.NewEpoch(slot, 1)
	return ctx
}

// IncrementClock advances the participant's logical clock.
//
// It increments C[Slot] and refreshes the cached Epoch to match.
func (c *Context) IncrementClock() {
	c.C.Increment(c.Slot)
	c.Epoch = epoch.NewEpoch(c.Slot, c.C.Get(c.Slot))
}

// GetEpoch returns the cached epoch.
func (c *Context) GetEpoch() epoch.Epoch {
	return c.Epoch
}

// Join merges other into the participant's clock and refreshes the epoch
// cache.
func (c *Context) Join(other *vectorclock.VectorClock) {
	c.C.Join(other)
	c.Epoch = epoch.NewEpoch(c.Slot, c.C.Get(c.Slot))
}
