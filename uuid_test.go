package jgnash

import "testing"

func TestFixUUID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		// Legacy identifiers persisted without hyphens are repaired.
		{"c93972f6fdd5402eb314fc8402d2c51f", "c93972f6-fdd5-402e-b314-fc8402d2c51f"},
		// Canonical identifiers pass through unchanged.
		{"c93972f6-fdd5-402e-b314-fc8402d2c51f", "c93972f6-fdd5-402e-b314-fc8402d2c51f"},
	}
	for _, tc := range tests {
		got, err := FixUUID(tc.in)
		if err != nil {
			t.Fatalf("FixUUID(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("FixUUID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFixUUIDRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not-an-id", "c93972f6fdd5402eb314fc8402d2c5"} {
		if _, err := FixUUID(in); err == nil {
			t.Errorf("FixUUID(%q) accepted", in)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("NewID returned duplicate identifiers")
	}
	if got, err := FixUUID(a); err != nil || got != a {
		t.Fatalf("fresh id %q does not survive repair: %q, %v", a, got, err)
	}
}
