// Package shadowmem implements the shadow cell of the value a lock protects.
//
// The auditor keeps one VarState per lock. It records the epoch of the last
// write and the last read(s) of the protected value, which is all FastTrack
// needs to decide whether a new access is ordered after every conflicting
// earlier one.
//
// Representation is adaptive, as in FastTrack:
//   - Exclusive access: write epoch plus a single read epoch
//   - Concurrent reads by both participants: the read epoch is promoted to a
//     read vector clock
//   - A write demotes back to the epoch form
package shadowmem
