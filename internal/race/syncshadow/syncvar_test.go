package syncshadow

import (
	"testing"

	"github.com/kolkov/dekker/internal/race/vectorclock"
)

// TestSyncVar_GetReleaseClock_Nil verifies nil return on a fresh SyncVar.
func TestSyncVar_GetReleaseClock_Nil(t *testing.T) {
	sv := &SyncVar{}
	if sv.GetReleaseClock() != nil {
		t.Error("Expected nil releaseClock on fresh SyncVar")
	}
}

// TestSyncVar_SetReleaseClock_Copies verifies the clock is copied, not
// aliased.
func TestSyncVar_SetReleaseClock_Copies(t *testing.T) {
	sv := &SyncVar{}
	vc := &vectorclock.VectorClock{10, 20}

	sv.SetReleaseClock(vc)
	vc.Set(0, 99)

	rc := sv.GetReleaseClock()
	if rc == nil {
		t.Fatal("SetReleaseClock did not allocate releaseClock")
	}
	if rc.Get(0) != 10 || rc.Get(1) != 20 {
		t.Errorf("release clock = %s, want {0:10, 1:20}", rc)
	}

	// Second release updates in place.
	sv.SetReleaseClock(&vectorclock.VectorClock{11, 21})
	if sv.GetReleaseClock() != rc {
		t.Error("second SetReleaseClock reallocated the clock")
	}
	if rc.Get(0) != 11 || rc.Get(1) != 21 {
		t.Errorf("release clock = %s, want {0:11, 1:21}", rc)
	}
}

// TestSyncVar_Reset verifies Reset forgets the clock.
func TestSyncVar_Reset(t *testing.T) {
	sv := &SyncVar{}
	sv.SetReleaseClock(vectorclock.New())
	sv.Reset()
	if sv.GetReleaseClock() != nil {
		t.Error("Reset did not clear releaseClock")
	}
}
