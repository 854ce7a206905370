package scheduling

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 1, 15, hour, minute, 0, 0, time.UTC)
}

func TestInterval_Overlaps_Symmetric(t *testing.T) {
	t.Parallel()

	a := NewInterval(at(t, 10, 0), 60)
	b := NewInterval(at(t, 10, 30), 60)

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatalf("expected symmetric overlap, got a->b=%v b->a=%v", a.Overlaps(b), b.Overlaps(a))
	}
}

func TestInterval_Overlaps_AdjacentDoesNotConflict(t *testing.T) {
	t.Parallel()

	a := NewInterval(at(t, 10, 0), 60)
	b := NewInterval(at(t, 11, 0), 60)

	if a.Overlaps(b) {
		t.Fatalf("back-to-back intervals must not overlap: %v / %v", a, b)
	}
	if b.Overlaps(a) {
		t.Fatalf("back-to-back intervals must not overlap in reverse order")
	}
}

func TestInterval_Overlaps_EqualStartAlwaysConflicts(t *testing.T) {
	t.Parallel()

	a := NewInterval(at(t, 10, 0), 0)
	b := NewInterval(at(t, 10, 0), 90)

	if !a.Overlaps(b) {
		t.Fatalf("intervals sharing a start must conflict even when zero-width")
	}
	if !b.Overlaps(a) {
		t.Fatalf("equal-start conflict must hold in both directions")
	}
}

func TestInterval_Overlaps_Containment(t *testing.T) {
	t.Parallel()

	outer := NewInterval(at(t, 9, 0), 180)
	inner := NewInterval(at(t, 10, 0), 30)

	if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
		t.Fatalf("contained interval must overlap its container")
	}
}

func TestNewInterval_NegativeDurationClampedToZero(t *testing.T) {
	t.Parallel()

	i := NewInterval(at(t, 10, 0), -5)
	if !i.End.Equal(i.Start) {
		t.Fatalf("expected empty interval, got end=%v", i.End)
	}
}
