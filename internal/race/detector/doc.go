// Package detector audits runs of a Dekker lock.
//
// A Detector is a dekker.Observer. Attached to a lock with
// dekker.WithObserver, it sees every acquisition, release, access to the
// protected value and teardown step, and checks that the history those
// events describe is one a correct lock can produce.
//
// # Checks
//
//  1. Overlap: a participant acquires while the other one still holds.
//  2. Data races on the protected value, with the FastTrack algorithm
//     (PLDI 2009): write-write, read-write and write-read pairs whose
//     accesses are not ordered by the lock's release/acquire edges.
//  3. Unheld access: an access by a participant that does not hold the lock.
//  4. Turn hand-off: every release must store the other participant's
//     identity in the turn variable.
//  5. Teardown: each handle closes once, the live count goes 1 then 0, the
//     state is destroyed exactly once and only after both handles closed,
//     and nothing acquires or accesses after destruction.
//
// # Happens-Before Model
//
// Each participant has a vector clock. The lock has a release clock:
//
//	Acquired(t):  Ct := Ct ⊔ Lm
//	Released(t):  Lm := Ct; Ct[t]++
//
// The protected value has a shadow cell holding the epoch of its last write
// and read(s). An access is ordered after a previous one when the previous
// epoch is ⊑ the accessing participant's clock. When mutual exclusion
// holds, every conflicting pair is ordered. When it does not, the second
// entrant joined a release clock older than the first entrant's critical
// section and the pair is reported.
//
// # Reporting
//
// Violations are deduplicated by kind and participants, counted, kept for
// [Detector.Reports] and written to an io.Writer (os.Stderr by default):
//
//	==================
//	WARNING: DEKKER VIOLATION (write-write)
//	Write by second at 4@1:
//	  main.worker()
//	      /path/to/main.go:25 +0x5c
//
//	Previous write by first at 7@0:
//	  main.worker()
//	      /path/to/main.go:25 +0x5c
//	==================
//
// # Limits
//
// Epoch clocks are 24 bits (epoch.ClockMask). A participant that releases
// more often than that wraps its epochs and later races are missed; callers
// bound their runs, see cmd/dekker's -audit check.
//
// # Thread Safety
//
// All Detector methods are safe for concurrent use. Events are serialized
// by a mutex, which gives the audited history a single total order.
package detector
