package dekker

// Guard represents exclusive access to the shared value, obtained from
// [Process.Lock].
//
// A Guard belongs to the goroutine that called Lock and must not outlive its
// Process. It stays valid until [Guard.Unlock]; using it afterwards panics.
type Guard[T any] struct {
	p        *Process[T]
	released bool
}

// Value returns a pointer to the shared value.
//
// The pointer may only be dereferenced until the Guard is released. Every
// call counts as a write access for observers.
func (g *Guard[T]) Value() *T {
	s := g.state("Value")
	s.accessed(g.p.id, true)
	return &s.value
}

// Get returns a copy of the shared value.
func (g *Guard[T]) Get() T {
	s := g.state("Get")
	s.accessed(g.p.id, false)
	return s.value
}

// Set replaces the shared value with v.
func (g *Guard[T]) Set(v T) {
	s := g.state("Set")
	s.accessed(g.p.id, true)
	s.value = v
}

// Update replaces the shared value with fn applied to it.
//
// Example:
//
//	g.Update(func(n int) int { return n + 1 })
func (g *Guard[T]) Update(fn func(T) T) {
	s := g.state("Update")
	s.accessed(g.p.id, true)
	s.value = fn(s.value)
}

// Unlock releases the lock and hands the turn to the other participant.
//
// Unlock always succeeds. It panics if the Guard was already released.
func (g *Guard[T]) Unlock() {
	if g.released {
		panic("dekker: Unlock of unlocked Guard")
	}
	g.released = true

	g.p.held = false
	g.p.s.release(g.p.id)
}

func (g *Guard[T]) state(op string) *state[T] {
	if g.released {
		panic("dekker: " + op + " through released Guard")
	}
	return g.p.s
}
