package race

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kolkov/dekker/dekker"
)

// TestAuditor_ReportsBrokenHistory drives the auditor directly with a
// history in which both participants hold the lock at once.
func TestAuditor_ReportsBrokenHistory(t *testing.T) {
	var buf bytes.Buffer
	a := NewAuditor()
	a.SetOutput(&buf)

	a.Acquired(dekker.First)
	a.Accessed(dekker.First, true)
	a.Acquired(dekker.Second)
	a.Accessed(dekker.Second, true)

	if n := a.Violations(); n != 2 {
		t.Fatalf("Violations() = %d, want 2 (overlap, write-write)", n)
	}

	reports := a.Reports()
	if len(reports) != 2 {
		t.Fatalf("len(Reports()) = %d, want 2", len(reports))
	}
	if !strings.Contains(reports[0], "WARNING: DEKKER VIOLATION (overlap)") {
		t.Errorf("first report is not an overlap:\n%s", reports[0])
	}
	if !strings.Contains(reports[1], "WARNING: DEKKER VIOLATION (write-write)") {
		t.Errorf("second report is not a write-write race:\n%s", reports[1])
	}
	if buf.String() != reports[0]+reports[1] {
		t.Errorf("output does not match reports:\n%s", buf.String())
	}

	a.Reset()
	if n := a.Violations(); n != 0 {
		t.Errorf("Violations() after Reset = %d, want 0", n)
	}
}

// TestAuditor_CleanLock verifies an audited lock run reports nothing.
func TestAuditor_CleanLock(t *testing.T) {
	var buf bytes.Buffer
	a := NewAuditor()
	a.SetOutput(&buf)

	first, second := dekker.New(0, Audit[int](a))
	g := first.Lock()
	g.Set(g.Get() + 1)
	g.Unlock()
	second.Do(func(n *int) { *n *= 10 })
	first.Close()
	second.Close()

	if n := a.Violations(); n != 0 {
		t.Fatalf("Violations() = %d, want 0\n%s", n, buf.String())
	}

	var summary bytes.Buffer
	a.Summary(&summary)
	if !strings.Contains(summary.String(), "Events: 4 acquires, 4 releases, 1 reads, 2 writes") {
		t.Errorf("unexpected summary:\n%s", summary.String())
	}
}

