package testfixtures

import "testing"

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	t.Run("yields sequential prefixed identifiers", func(t *testing.T) {
		t.Parallel()

		gen := NewIDGenerator("reservation")
		if got := gen.Next(); got != "reservation-1" {
			t.Fatalf("expected reservation-1, got %q", got)
		}
		if got := gen.Next(); got != "reservation-2" {
			t.Fatalf("expected reservation-2, got %q", got)
		}
	})

	t.Run("defaults the prefix", func(t *testing.T) {
		t.Parallel()

		gen := NewIDGenerator("")
		if got := gen.Next(); got != "id-1" {
			t.Fatalf("expected id-1, got %q", got)
		}
	})

	t.Run("supports counter resets", func(t *testing.T) {
		t.Parallel()

		gen := NewIDGenerator("room")
		gen.Next()
		gen.SetCounter(9)
		if got := gen.Next(); got != "room-10" {
			t.Fatalf("expected room-10, got %q", got)
		}
	})
}
