package dekker

import "testing"

// TestIdentity tests Other, String and Slot for both participants.
func TestIdentity(t *testing.T) {
	tests := []struct {
		id    Identity
		other Identity
		name  string
		slot  uint8
	}{
		{First, Second, "first", 0},
		{Second, First, "second", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Other(); got != tt.other {
				t.Errorf("Other() = %v, want %v", got, tt.other)
			}
			if got := tt.id.Other().Other(); got != tt.id {
				t.Errorf("Other().Other() = %v, want %v", got, tt.id)
			}
			if got := tt.id.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.id.Slot(); got != tt.slot {
				t.Errorf("Slot() = %d, want %d", got, tt.slot)
			}
		})
	}
}

// TestIdentity_Invalid verifies String on an out-of-range value.
func TestIdentity_Invalid(t *testing.T) {
	if got := Identity(7).String(); got != "invalid" {
		t.Errorf("String() = %q, want %q", got, "invalid")
	}
}
