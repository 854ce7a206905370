package scheduling

import (
	"testing"
	"time"
)

func slotAt(t *testing.T, id, venue string, hour, durationMinutes int, finalized bool) Slot {
	t.Helper()
	return Slot{
		ActivityID:      id,
		VenueID:         venue,
		Start:           time.Date(2025, 1, 15, hour, 0, 0, 0, time.UTC),
		DurationMinutes: durationMinutes,
		Finalized:       finalized,
	}
}

func TestFindConflict_EmptyVenueNeverConflicts(t *testing.T) {
	t.Parallel()

	candidate := slotAt(t, "act-1", "room-101", 10, 60, false)
	if _, found := FindConflict(nil, candidate, ""); found {
		t.Fatalf("candidate against an empty venue must not conflict")
	}
}

func TestFindConflict_OverlapDetected(t *testing.T) {
	t.Parallel()

	existing := []Slot{slotAt(t, "act-1", "room-101", 10, 60, false)}
	candidate := Slot{
		ActivityID:      "act-2",
		VenueID:         "room-101",
		Start:           time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		DurationMinutes: 60,
	}

	conflict, found := FindConflict(existing, candidate, "")
	if !found {
		t.Fatalf("expected a conflict for overlapping slots")
	}
	if conflict.WithActivityID != "act-1" {
		t.Fatalf("expected conflict with act-1, got %s", conflict.WithActivityID)
	}
}

func TestFindConflict_AdjacentSlotsDoNotConflict(t *testing.T) {
	t.Parallel()

	existing := []Slot{slotAt(t, "act-1", "room-101", 10, 60, false)}
	candidate := slotAt(t, "act-2", "room-101", 11, 60, false)

	if _, found := FindConflict(existing, candidate, ""); found {
		t.Fatalf("a slot starting exactly when another ends must not conflict")
	}
}

func TestFindConflict_FinalizedSlotsReleaseTheVenue(t *testing.T) {
	t.Parallel()

	existing := []Slot{slotAt(t, "act-1", "room-101", 10, 60, true)}
	candidate := slotAt(t, "act-2", "room-101", 10, 60, false)

	if _, found := FindConflict(existing, candidate, ""); found {
		t.Fatalf("finalized activities must never conflict")
	}
}

func TestFindConflict_ExcludesActivityBeingUpdated(t *testing.T) {
	t.Parallel()

	existing := []Slot{
		slotAt(t, "act-1", "room-101", 10, 60, false),
		slotAt(t, "act-2", "room-101", 14, 60, false),
	}
	candidate := slotAt(t, "act-1", "room-101", 10, 90, false)

	if _, found := FindConflict(existing, candidate, "act-1"); found {
		t.Fatalf("an activity must not conflict with its own previous slot")
	}
}

func TestFindConflict_OtherVenueIgnored(t *testing.T) {
	t.Parallel()

	existing := []Slot{slotAt(t, "act-1", "lab-2", 10, 60, false)}
	candidate := slotAt(t, "act-2", "room-101", 10, 60, false)

	if _, found := FindConflict(existing, candidate, ""); found {
		t.Fatalf("slots at different venues must not conflict")
	}
}

func TestFindConflict_EqualStartConflicts(t *testing.T) {
	t.Parallel()

	existing := []Slot{slotAt(t, "act-1", "room-101", 10, 0, false)}
	candidate := slotAt(t, "act-2", "room-101", 10, 60, false)

	if !HasConflict(existing, candidate, "") {
		t.Fatalf("slots sharing a start must conflict even with zero duration")
	}
}
