// Package dekker provides mutual exclusion between exactly two goroutines
// using Dekker's algorithm.
//
// The lock is built from ordinary loads and stores of three shared words (a
// turn variable and two intent flags). It does not use compare-and-swap,
// sync.Mutex or any other primitive that already provides mutual exclusion.
// The package exists to make the classic algorithm usable with a guard-based
// access pattern and with automatic teardown of the shared allocation once
// both participants are finished.
//
// # Quick Start
//
//	first, second := dekker.New(0)
//
//	go func() {
//		defer second.Close()
//		for i := 0; i < 1000; i++ {
//			second.Do(func(n *int) { *n++ })
//		}
//	}()
//
//	defer first.Close()
//	for i := 0; i < 1000; i++ {
//		g := first.Lock()
//		*g.Value()++
//		g.Unlock()
//	}
//
// # API Overview
//
//   - Construction: [New] returns the two [Process] handles bound to one
//     shared value.
//   - Acquisition: [Process.Lock] blocks until the caller has exclusive
//     access and returns a [Guard]; [Process.Do] wraps Lock/Unlock around a
//     function and releases on every exit path, including panics.
//   - Access: [Guard.Value], [Guard.Get], [Guard.Set], [Guard.Update].
//   - Release: [Guard.Unlock] hands the turn to the other participant.
//   - Teardown: [Process.Close]. The second Close destroys the shared
//     state and runs the [WithFinalizer] callback.
//
// # How It Works
//
// Acquire, for participant me with peer other:
//
//	intent[me] = true
//	for intent[other] {
//		if turn != me {
//			intent[me] = false
//			for turn != me {
//			}
//			intent[me] = true
//		}
//	}
//
// Release:
//
//	turn = other
//	intent[me] = false
//
// Retracting intent while waiting for the turn breaks the symmetry when both
// participants raise their flags at the same moment: the participant that
// does not own the turn backs off so the owner can proceed.
//
// # Memory Ordering
//
// turn and intent are sync/atomic values. Go's atomic operations are
// sequentially consistent, which also gives the store-to-load ordering the
// protocol depends on (a participant's intent store must be visible before
// it reads the peer's intent). The protected value and the live-handle count
// are plain fields; they are only touched while the lock is held, so the
// lock's own release/acquire pairing orders them.
//
// # Preconditions
//
// Each Process must be used by one goroutine at a time. Using a handle from
// two goroutines concurrently, or trying to build a third participant, is not
// detected and breaks mutual exclusion. Misuse that a handle can see on its
// own (Lock after Close, Close while holding a Guard, Unlock twice) panics.
//
// Lock spins without a timeout and cannot be cancelled. Under a fair
// scheduler it is starvation-free: a release always gives the turn to the
// other side, so a waiting participant enters within one alternation.
//
// # Auditing
//
// [WithObserver] attaches an [Observer] that is told about every
// acquisition, release, value access and teardown step. The race package's
// Auditor is such an Observer; it checks runs for overlapping critical
// sections, unsynchronized accesses to the value, turn hand-off and teardown
// order:
//
//	a := race.NewAuditor()
//	first, second := dekker.New(0, race.Audit[int](a))
package dekker
