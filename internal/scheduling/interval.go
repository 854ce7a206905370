package scheduling

import "time"

// Interval represents a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from a start instant and a duration in
// minutes. Non-positive durations yield an empty interval ending at Start.
func NewInterval(start time.Time, durationMinutes int) Interval {
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps reports whether two intervals collide. Beyond the half-open
// formula (s1 < e2 && s2 < e1), intervals sharing the exact same start are
// always treated as colliding, including zero-width ones.
func (i Interval) Overlaps(other Interval) bool {
	if i.Start.Equal(other.Start) {
		return true
	}
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
