// Package race provides the public API for auditing Dekker locks.
//
// See doc.go for detailed documentation and examples.
package race

import (
	"io"

	"github.com/kolkov/dekker/dekker"
	internal "github.com/kolkov/dekker/internal/race/detector"
)

// Auditor checks the history of one lock for mutual exclusion violations,
// data races on the protected value, turn hand-off errors and teardown
// errors.
//
// An Auditor is a [dekker.Observer]. Attach it to exactly one lock, with
// [Audit] or [dekker.WithObserver]:
//
//	a := race.NewAuditor()
//	first, second := dekker.New(0, race.Audit[int](a))
//
// All methods are safe for concurrent use.
type Auditor struct {
	d *internal.Detector
}

var _ dekker.Observer = (*Auditor)(nil)

// NewAuditor creates an Auditor that writes violation reports to os.Stderr
// as they are detected.
func NewAuditor() *Auditor {
	return &Auditor{d: internal.NewDetector()}
}

// Audit returns the option that attaches a to a new lock.
func Audit[T any](a *Auditor) dekker.Option[T] {
	return dekker.WithObserver[T](a)
}

// SetOutput directs violation reports to w. A nil w discards them.
func (a *Auditor) SetOutput(w io.Writer) {
	a.d.SetOutput(w)
}

// Violations returns the number of distinct violations detected so far.
func (a *Auditor) Violations() int {
	return a.d.Violations()
}

// Reports returns the formatted violation reports in detection order.
func (a *Auditor) Reports() []string {
	reports := a.d.Reports()
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.String()
	}
	return out
}

// Summary writes an end-of-run report with event counts and violations.
//
// For manual use, defer it next to the handles' Close calls:
//
//	a := race.NewAuditor()
//	defer a.Summary(os.Stderr)
func (a *Auditor) Summary(w io.Writer) {
	a.d.Summary(w)
}

// Reset forgets everything recorded so the Auditor can audit a new lock.
func (a *Auditor) Reset() {
	a.d.Reset()
}

// Acquired implements [dekker.Observer].
func (a *Auditor) Acquired(id dekker.Identity) {
	a.d.Acquired(id)
}

// Accessed implements [dekker.Observer].
func (a *Auditor) Accessed(id dekker.Identity, write bool) {
	a.d.Accessed(id, write)
}

// Released implements [dekker.Observer].
func (a *Auditor) Released(id dekker.Identity, turn dekker.Identity) {
	a.d.Released(id, turn)
}

// Closed implements [dekker.Observer].
func (a *Auditor) Closed(id dekker.Identity, live int) {
	a.d.Closed(id, live)
}

// Destroyed implements [dekker.Observer].
func (a *Auditor) Destroyed() {
	a.d.Destroyed()
}
