package dekker

// Observer receives the protocol events of one lock.
//
// Every call is made by the participant that currently holds exclusive
// access, so a correct lock never calls an Observer concurrently. Observers
// that audit a lock must still be safe for concurrent use: detecting a
// broken history is the point of auditing.
//
// An Observer that synchronizes internally, for example with a sync.Mutex,
// adds happens-before edges the bare lock does not have. Auditing checks the
// event history, not the lock's own memory ordering; an ordering bug may
// only show in unaudited runs.
//
// Event order for a single critical section:
//
//	Acquired(id)
//	Accessed(id, write)...
//	Released(id, turn)
//
// Teardown is a critical section of its own:
//
//	Acquired(id)
//	Closed(id, live)
//	Destroyed()        // only when live == 0
//	Released(id, turn)
//
// Observers must not call back into the lock.
type Observer interface {
	// Acquired is called right after id obtained exclusive access.
	Acquired(id Identity)

	// Accessed is called for every access to the protected value made
	// through a Guard. write is false for Get and true for Value, Set and
	// Update.
	Accessed(id Identity, write bool)

	// Released is called after id published the hand-off but before its
	// intent flag is cleared. turn is the value id stored in the turn
	// variable.
	Released(id Identity, turn Identity)

	// Closed is called when id's handle has been torn down. live is the
	// number of handles left.
	Closed(id Identity, live int)

	// Destroyed is called once, when the last handle is closed.
	Destroyed()
}

// Option configures a lock created by New.
type Option[T any] func(*config[T])

type config[T any] struct {
	observer  Observer
	finalizer func(T)
	yield     bool
}

// WithObserver attaches o to the lock. o receives every protocol event.
func WithObserver[T any](o Observer) Option[T] {
	return func(c *config[T]) {
		c.observer = o
	}
}

// WithFinalizer registers fn to run exactly once with the final value when
// the shared state is destroyed.
//
// fn runs while the closing handle holds the lock. It must not use either
// handle.
func WithFinalizer[T any](fn func(T)) Option[T] {
	return func(c *config[T]) {
		c.finalizer = fn
	}
}

// WithYield makes Lock call runtime.Gosched on every spin iteration.
//
// The default spin gives the scheduler no hint and relies on preemption for
// progress. Yielding helps when GOMAXPROCS is 1 or the two participants
// share a heavily loaded CPU.
func WithYield[T any]() Option[T] {
	return func(c *config[T]) {
		c.yield = true
	}
}
