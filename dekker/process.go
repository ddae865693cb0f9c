package dekker

import "runtime"

// Process is one of the two handles of a lock.
//
// A Process grants its owner access to the shared value through
// [Process.Lock] and takes part in tearing the shared state down through
// [Process.Close]. It must be used by one goroutine at a time; the two
// handles of a lock are meant to live on two different goroutines.
type Process[T any] struct {
	id Identity
	s  *state[T]

	// held is set while a Guard from this handle is alive.
	held bool

	// closed is set by the first Close.
	closed bool

	// cleanup tears the handle down if it is dropped without Close.
	cleanup runtime.Cleanup
}

// share is the argument of a handle's runtime cleanup. It must not refer to
// the Process itself, or the Process would never become unreachable.
type share[T any] struct {
	id Identity
	s  *state[T]
}

func newProcess[T any](id Identity, s *state[T]) *Process[T] {
	p := &Process[T]{id: id, s: s}
	// Teardown may spin until the peer unlocks, so it must not run on the
	// runtime's cleanup goroutine.
	p.cleanup = runtime.AddCleanup(p, func(t share[T]) {
		go t.s.teardown(t.id)
	}, share[T]{id: id, s: s})
	return p
}

// teardown runs the handle teardown protocol for id: take the lock,
// drop id's share of the state, release.
func (s *state[T]) teardown(id Identity) {
	s.acquire(id)
	s.retire(id)
	s.release(id)
}

// ID returns the handle's identity.
func (p *Process[T]) ID() Identity {
	return p.id
}

// Turn returns a snapshot of the turn variable: the participant that wins
// when both contend.
//
// The value is stale as soon as it is returned unless the caller holds the
// lock or the peer is idle. It is meant for tests and diagnostics.
func (p *Process[T]) Turn() Identity {
	p.mustOpen("Turn")
	return p.s.currentTurn()
}

// Closed reports whether Close has been called on this handle.
func (p *Process[T]) Closed() bool {
	return p.closed
}

// Lock blocks until the caller has exclusive access to the shared value and
// returns the Guard that represents it.
//
// Lock busy-waits. It has no timeout and cannot be cancelled; it returns once
// the peer has released the lock or is not contending. The Guard must be
// released with [Guard.Unlock] on every path, typically with defer:
//
//	g := p.Lock()
//	defer g.Unlock()
//	*g.Value() += 1
//
// Lock panics if the handle is closed or already holds a Guard.
func (p *Process[T]) Lock() *Guard[T] {
	p.mustOpen("Lock")
	if p.held {
		panic("dekker: Lock of Process that already holds the lock")
	}

	p.s.acquire(p.id)
	p.held = true

	return &Guard[T]{p: p}
}

// Do runs fn with exclusive access to the shared value.
//
// The lock is released when fn returns, and also when fn panics; the panic
// then continues to propagate.
//
// Example:
//
//	p.Do(func(n *int) { *n++ })
func (p *Process[T]) Do(fn func(v *T)) {
	g := p.Lock()
	defer g.Unlock()
	fn(g.Value())
}

// Close tears the handle down.
//
// Close takes the lock with the same protocol as Lock, because the count of
// live handles is shared state, then drops this handle's share. The second
// Close of a lock destroys the shared state: the [WithFinalizer] callback
// runs with the final value and the value is released.
//
// Close is idempotent; only the first call has an effect. It panics if the
// handle still holds a Guard.
func (p *Process[T]) Close() {
	if p.closed {
		return
	}
	if p.held {
		panic("dekker: Close of locked Process")
	}

	p.closed = true
	p.cleanup.Stop()

	p.s.teardown(p.id)
	p.s = nil
}

func (p *Process[T]) mustOpen(op string) {
	if p.closed {
		panic("dekker: " + op + " of closed Process")
	}
}
