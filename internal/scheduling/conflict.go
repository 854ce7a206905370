package scheduling

import "time"

// Slot represents an activity's claim on a venue for scheduling purposes.
type Slot struct {
	ActivityID      string
	VenueID         string
	Start           time.Time
	DurationMinutes int
	Finalized       bool
}

// Interval returns the time span occupied by the slot.
func (s Slot) Interval() Interval {
	return NewInterval(s.Start, s.DurationMinutes)
}

// Conflict details the overlapping slot a candidate collided with.
type Conflict struct {
	WithActivityID string
	VenueID        string
	Start          time.Time
	End            time.Time
}

// FindConflict tests a candidate slot against the slots already booked at
// its venue and returns the first collision found.
//
// Finalized slots never conflict: a finalized activity releases its venue
// window. A slot whose ActivityID equals excludeActivityID is skipped, which
// lets callers re-validate an activity being updated against its siblings.
func FindConflict(existing []Slot, candidate Slot, excludeActivityID string) (Conflict, bool) {
	window := candidate.Interval()
	for _, slot := range existing {
		if slot.Finalized {
			continue
		}
		if excludeActivityID != "" && slot.ActivityID == excludeActivityID {
			continue
		}
		if slot.VenueID != candidate.VenueID {
			continue
		}
		booked := slot.Interval()
		if window.Overlaps(booked) {
			return Conflict{
				WithActivityID: slot.ActivityID,
				VenueID:        slot.VenueID,
				Start:          booked.Start,
				End:            booked.End,
			}, true
		}
	}
	return Conflict{}, false
}

// HasConflict is the boolean form of FindConflict.
func HasConflict(existing []Slot, candidate Slot, excludeActivityID string) bool {
	_, found := FindConflict(existing, candidate, excludeActivityID)
	return found
}
