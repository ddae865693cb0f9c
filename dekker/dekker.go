package dekker

import (
	"runtime"
	"sync/atomic"
)

// state is the allocation shared by the two handles of a lock.
//
// Layout:
//   - value: the protected payload, only touched while the lock is held
//   - turn: the Identity that wins when both participants contend
//   - intent: per-participant "I want to enter" flags, indexed by Slot
//   - live: handles not yet closed, only touched while the lock is held
//
// Invariants:
//   - turn is always First or Second and only changes on release
//   - destroyed flips to true exactly once, when live reaches 0
type state[T any] struct {
	value T

	turn   atomic.Uint32
	intent [2]atomic.Bool

	live      int
	destroyed bool

	config[T]
}

// New allocates the shared state holding initial and returns the two
// handles that access it.
//
// The first handle has identity First and owns the turn initially; the
// second has identity Second. Each handle must be owned by a single
// goroutine and closed with [Process.Close] when its owner is done with it.
// A handle that becomes unreachable without Close is torn down by a runtime
// cleanup, so the shared state is still destroyed once both are gone.
//
// New always succeeds.
//
// Example:
//
//	first, second := dekker.New(0)
//	defer first.Close()
//	defer second.Close()
//
//	first.Do(func(n *int) { *n++ })
//	second.Do(func(n *int) { *n++ })
func New[T any](initial T, opts ...Option[T]) (*Process[T], *Process[T]) {
	s := &state[T]{
		value: initial,
		live:  2,
	}
	for _, opt := range opts {
		opt(&s.config)
	}
	s.turn.Store(uint32(First))

	return newProcess(First, s), newProcess(Second, s)
}

// wants reports whether id has raised its intent flag.
func (s *state[T]) wants(id Identity) bool {
	return s.intent[id.Slot()].Load()
}

// setIntent publishes id's intent flag.
func (s *state[T]) setIntent(id Identity, v bool) {
	s.intent[id.Slot()].Store(v)
}

// currentTurn loads the turn variable.
func (s *state[T]) currentTurn() Identity {
	return Identity(s.turn.Load())
}

// acquire runs the entry protocol for id. It returns once id has exclusive
// access.
func (s *state[T]) acquire(id Identity) {
	other := id.Other()

	s.setIntent(id, true)
	for s.wants(other) {
		if s.currentTurn() != id {
			// Back off so the turn's owner can enter, then try again.
			s.setIntent(id, false)
			for s.currentTurn() != id {
				if s.yield {
					runtime.Gosched()
				}
			}
			s.setIntent(id, true)
		}
	}

	if s.observer != nil {
		s.observer.Acquired(id)
	}
}

// release runs the exit protocol for id. The turn is published before the
// intent flag is cleared.
func (s *state[T]) release(id Identity) {
	other := id.Other()

	s.turn.Store(uint32(other))
	if s.observer != nil {
		s.observer.Released(id, other)
	}
	s.setIntent(id, false)
}

// accessed forwards a value access to the observer.
func (s *state[T]) accessed(id Identity, write bool) {
	if s.observer != nil {
		s.observer.Accessed(id, write)
	}
}

// retire drops id's share of the state. The caller must hold the lock.
//
// The last retire destroys the state: the finalizer sees the final value,
// then the value is cleared so whatever it references can be collected.
func (s *state[T]) retire(id Identity) {
	s.live--
	if s.observer != nil {
		s.observer.Closed(id, s.live)
	}
	if s.live > 0 {
		return
	}

	s.destroyed = true
	if s.finalizer != nil {
		s.finalizer(s.value)
	}
	if s.observer != nil {
		s.observer.Destroyed()
	}
	var zero T
	s.value = zero
}
