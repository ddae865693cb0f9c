package detector

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/kolkov/dekker/dekker"
	"github.com/kolkov/dekker/internal/race/epoch"
)

// AccessType is the kind of event an AccessInfo describes.
type AccessType int

const (
	// AccessRead is a read of the protected value.
	AccessRead AccessType = iota
	// AccessWrite is a write of the protected value.
	AccessWrite
	// AccessAcquire is an acquisition of the lock.
	AccessAcquire
	// AccessRelease is a release of the lock.
	AccessRelease
	// AccessClose is a handle teardown.
	AccessClose
	// AccessDestroy is the destruction of the shared state.
	AccessDestroy
)

// String returns the string representation of an AccessType.
func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	case AccessAcquire:
		return "Acquire"
	case AccessRelease:
		return "Release"
	case AccessClose:
		return "Close"
	case AccessDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// Violation kinds.
const (
	// KindWriteWrite is an unordered pair of writes.
	KindWriteWrite = "write-write"
	// KindReadWrite is a write not ordered after a previous read.
	KindReadWrite = "read-write"
	// KindWriteRead is a read not ordered after the previous write.
	KindWriteRead = "write-read"
	// KindOverlap is an acquisition while the other participant holds.
	KindOverlap = "overlap"
	// KindUnheld is an access by a participant not holding the lock.
	KindUnheld = "unheld-access"
	// KindTurn is a release that did not hand the turn over.
	KindTurn = "turn"
	// KindTeardown is an out-of-order or repeated teardown event.
	KindTeardown = "teardown"
)

// maxStackDepth is the maximum number of stack frames to capture.
const maxStackDepth = 32

// AccessInfo describes one event taking part in a violation.
type AccessInfo struct {
	// Type is the kind of event.
	Type AccessType

	// Participant is the identity that performed it.
	Participant dekker.Identity

	// Epoch is the participant's logical time at the event.
	Epoch epoch.Epoch

	// StackTrace holds the program counters captured at the event. It is
	// nil when no stack was recorded.
	StackTrace []uintptr
}

// Report describes a detected violation.
//
// Previous is nil for violations that involve a single event, such as a
// turn hand-off or a teardown error.
type Report struct {
	// Kind is one of the Kind constants.
	Kind string

	// Current is the event that triggered detection.
	Current AccessInfo

	// Previous is the earlier conflicting event, if any.
	Previous *AccessInfo

	// Detail is a human-readable explanation for single-event violations.
	Detail string

	// DeduplicationKey identifies the violation for deduplication.
	// Format: "{kind}:{slot1}:{slot2}:{detail}" with slots sorted.
	DeduplicationKey string
}

// newReport builds a report and its deduplication key.
func newReport(kind string, current AccessInfo, previous *AccessInfo, detail string) *Report {
	r := &Report{
		Kind:     kind,
		Current:  current,
		Previous: previous,
		Detail:   detail,
	}

	a := current.Participant.Slot()
	b := a
	if previous != nil {
		b = previous.Participant.Slot()
	}
	r.DeduplicationKey = fmt.Sprintf("%s:%d:%d:%s", kind, min(a, b), max(a, b), detail)
	return r
}

// captureStackTrace captures the current call stack, skipping skip frames
// (see runtime.Callers).
func captureStackTrace(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}

// internalFrame reports whether a frame belongs to the runtime, the
// detector or the lock's own machinery and should be hidden from reports.
func internalFrame(function string) bool {
	return strings.HasPrefix(function, "runtime.") ||
		strings.HasPrefix(function, "internal/") ||
		strings.Contains(function, "/internal/race/detector.") ||
		strings.Contains(function, "/dekker/dekker.(*state[")
}

// formatStackTrace formats a stack trace the way Go's race detector does:
//
//	main.reader()
//	    /path/to/file.go:15 +0x3b
func formatStackTrace(pcs []uintptr) string {
	if len(pcs) == 0 {
		return "  (no stack trace available)\n"
	}

	frames := runtime.CallersFrames(pcs)
	var buf strings.Builder

	for {
		frame, more := frames.Next()

		if !internalFrame(frame.Function) {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d +0x%x\n", frame.File, frame.Line, frame.PC&0xfff)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  (all frames filtered - runtime internal)\n"
	}
	return buf.String()
}

// Format writes the report in the race detector's block format:
//
//	==================
//	WARNING: DEKKER VIOLATION (overlap)
//	Acquire by second at 9@1:
//	  ...
//
//	Previous acquire by first at 12@0:
//	  ...
//	==================
//
//nolint:errcheck // Error handling omitted for report output formatting
func (r *Report) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: DEKKER VIOLATION (%s)\n", r.Kind)

	fmt.Fprintf(w, "%s by %s at %s:\n", r.Current.Type, r.Current.Participant, r.Current.Epoch)
	fmt.Fprint(w, formatStackTrace(r.Current.StackTrace))

	if r.Detail != "" {
		fmt.Fprintf(w, "  %s\n", r.Detail)
	}

	if r.Previous != nil {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Previous %s by %s at %s:\n",
			strings.ToLower(r.Previous.Type.String()), r.Previous.Participant, r.Previous.Epoch)
		fmt.Fprint(w, formatStackTrace(r.Previous.StackTrace))
	}

	fmt.Fprintf(w, "==================\n")
}

// String returns the formatted report.
func (r *Report) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}
