// Package lifecycle encodes the event status state machine: Planned is the
// initial state, Finished is terminal, and status only ever moves forward.
package lifecycle

import "fmt"

// Status identifies an event's position in its lifecycle.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further real transitions.
func (s Status) Terminal() bool {
	return s == StatusFinished
}

// ParseStatus normalizes a caller-provided status string.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		return "", fmt.Errorf("lifecycle: unknown status %q", value)
	}
	return status, nil
}

// TransitionError reports a status change the state machine rejects.
type TransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("lifecycle: transition from %s to %s is not allowed", e.From, e.To)
}

// ValidateTransition checks a requested status change against the current
// state. Requesting the current state again is always a no-op success, even
// for Finished. Backward moves are rejected.
func ValidateTransition(current, requested Status) error {
	if !current.Valid() {
		return fmt.Errorf("lifecycle: unknown current status %q", current)
	}
	if !requested.Valid() {
		return fmt.Errorf("lifecycle: unknown requested status %q", requested)
	}

	if current == requested {
		return nil
	}

	switch current {
	case StatusPlanned:
		// Planned may advance to either forward state.
		return nil
	case StatusInProgress:
		if requested == StatusFinished {
			return nil
		}
	case StatusFinished:
		// Terminal: nothing but the no-op above is allowed.
	}

	return &TransitionError{From: current, To: requested}
}
