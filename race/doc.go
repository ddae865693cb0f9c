// Package race audits runs of a Dekker lock with a happens-before detector.
//
// The auditor watches one lock through the [dekker.Observer] hooks and
// reports any history a correct implementation could not have produced. It
// implements the FastTrack algorithm (PLDI 2009) specialized to two
// participants and one protected value.
//
// # Quick Start
//
//	a := race.NewAuditor()
//	first, second := dekker.New(0, race.Audit[int](a))
//
//	go func() {
//		defer second.Close()
//		second.Do(func(n *int) { *n++ })
//	}()
//	first.Do(func(n *int) { *n++ })
//	first.Close()
//
//	// ... wait for the goroutine ...
//	a.Summary(os.Stderr)
//
// # API Overview
//
//   - Creation and attachment: [NewAuditor], [Audit]
//   - Results: [Auditor.Violations], [Auditor.Reports], [Auditor.Summary]
//   - Output and reuse: [Auditor.SetOutput], [Auditor.Reset]
//
// # What Is Checked
//
//   - No acquisition while the other participant holds the lock
//   - Every pair of conflicting accesses to the value is ordered by a
//     release of the lock followed by an acquisition
//   - Every access happens while the accessing participant holds the lock
//   - Every release hands the turn to the other participant
//   - Each handle closes once and the state is destroyed exactly once, after
//     both handles closed
//
// # Report Format
//
// Reports follow the block layout of Go's race detector:
//
//	==================
//	WARNING: DEKKER VIOLATION (overlap)
//	Acquire by second at 3@1:
//	  main.worker()
//	      /path/to/main.go:25 +0x5c
//	  second entered while first still held the lock
//
//	Previous acquire by first at 4@0:
//	  main.main()
//	      /path/to/main.go:40 +0x84
//	==================
//
// # Performance
//
// Every observed event takes the auditor's mutex and captures a stack
// trace, so an audited lock is orders of magnitude slower than a bare one.
// Auditing is meant for tests and the dekker CLI's -audit mode.
//
// The auditor's mutex orders the participants' events, so it also orders
// their memory accesses. It checks the history the lock reports, not the
// lock's own memory ordering: keep unaudited stress runs as well.
//
// Logical clocks are 24 bits wide. One Auditor can audit at most about 16.7
// million releases per participant; beyond that, races go unreported.
package race
