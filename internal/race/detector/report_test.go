package detector

import (
	"strings"
	"testing"

	"github.com/kolkov/dekker/dekker"
	"github.com/kolkov/dekker/internal/race/epoch"
)

// TestAccessType_String verifies the access type names.
func TestAccessType_String(t *testing.T) {
	tests := []struct {
		typ  AccessType
		want string
	}{
		{AccessRead, "Read"},
		{AccessWrite, "Write"},
		{AccessAcquire, "Acquire"},
		{AccessRelease, "Release"},
		{AccessClose, "Close"},
		{AccessDestroy, "Destroy"},
		{AccessType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("AccessType(%d).String() = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

// TestNewReport_DeduplicationKey verifies keys do not depend on which
// participant triggered detection.
func TestNewReport_DeduplicationKey(t *testing.T) {
	a := AccessInfo{Type: AccessWrite, Participant: dekker.First, Epoch: epoch.NewEpoch(0, 3)}
	b := AccessInfo{Type: AccessWrite, Participant: dekker.Second, Epoch: epoch.NewEpoch(1, 5)}

	r1 := newReport(KindWriteWrite, a, &b, "")
	r2 := newReport(KindWriteWrite, b, &a, "")
	if r1.DeduplicationKey != r2.DeduplicationKey {
		t.Errorf("keys differ: %q vs %q", r1.DeduplicationKey, r2.DeduplicationKey)
	}
	if want := "write-write:0:1:"; r1.DeduplicationKey != want {
		t.Errorf("key = %q, want %q", r1.DeduplicationKey, want)
	}

	single := newReport(KindTurn, b, nil, "x")
	if want := "turn:1:1:x"; single.DeduplicationKey != want {
		t.Errorf("key = %q, want %q", single.DeduplicationKey, want)
	}
}

// TestReport_Format verifies the block layout of a two-event report.
func TestReport_Format(t *testing.T) {
	current := AccessInfo{
		Type:        AccessWrite,
		Participant: dekker.Second,
		Epoch:       epoch.NewEpoch(1, 4),
		StackTrace:  captureStackTrace(1),
	}
	previous := AccessInfo{
		Type:        AccessWrite,
		Participant: dekker.First,
		Epoch:       epoch.NewEpoch(0, 7),
	}
	out := newReport(KindWriteWrite, current, &previous, "").String()

	for _, want := range []string{
		"==================\nWARNING: DEKKER VIOLATION (write-write)\n",
		"Write by second at 4@1:\n",
		"testing.tRunner()",
		"\nPrevious write by first at 7@0:\n",
		"  (no stack trace available)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "==================\n") {
		t.Errorf("report does not end with a separator:\n%s", out)
	}
}

// TestReport_FormatDetail verifies single-event reports carry their detail
// and no previous section.
func TestReport_FormatDetail(t *testing.T) {
	r := newReport(KindTurn, AccessInfo{Type: AccessRelease, Participant: dekker.First},
		nil, "release left turn=first, want second")
	out := r.String()

	if !strings.Contains(out, "  release left turn=first, want second\n") {
		t.Errorf("report missing detail:\n%s", out)
	}
	if strings.Contains(out, "Previous") {
		t.Errorf("single-event report has a previous section:\n%s", out)
	}
}

// TestInternalFrame verifies which frames are hidden from reports.
func TestInternalFrame(t *testing.T) {
	tests := []struct {
		function string
		want     bool
	}{
		{"runtime.goexit", true},
		{"internal/sync.(*Mutex).Lock", true},
		{"github.com/kolkov/dekker/internal/race/detector.(*Detector).Accessed", true},
		{"github.com/kolkov/dekker/dekker.(*state[...]).accessed", true},
		{"github.com/kolkov/dekker/dekker.(*Guard[...]).Set", false},
		{"main.worker", false},
	}
	for _, tt := range tests {
		if got := internalFrame(tt.function); got != tt.want {
			t.Errorf("internalFrame(%q) = %v, want %v", tt.function, got, tt.want)
		}
	}
}
