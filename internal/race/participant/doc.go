// Package participant implements the per-participant auditing state.
//
// Context keeps the logical clock and cached epoch of one of the two
// participants of a lock:
//   - Slot: the participant's slot (0 for first, 1 for second)
//   - C: full vector clock over both participants
//   - Epoch: cached C[Slot] for O(1) access checks
//
// Contexts start at clock 1 so that the zero epoch can mean "never".
// IncrementClock keeps the epoch cache equal to C[Slot].
package participant
