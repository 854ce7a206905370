package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a create collides with an existing record.
	ErrAlreadyExists = errors.New("application: already exists")

	// ErrScheduleConflict is returned when an activity's time window overlaps
	// another non-finalized activity at the same venue.
	ErrScheduleConflict = errors.New("application: conflict of schedule at venue")
	// ErrActivityFinalized is returned when an operation targets a finalized activity.
	ErrActivityFinalized = errors.New("application: activity is finalized")
	// ErrAlreadyEnrolled is returned when a participant already holds an
	// inscription for the activity.
	ErrAlreadyEnrolled = errors.New("application: participant already enrolled")
	// ErrCapacityFull is returned when an activity has no seats left.
	ErrCapacityFull = errors.New("application: activity capacity is full")
	// ErrDuplicateTitle is returned when an event title repeats within its
	// calendar month.
	ErrDuplicateTitle = errors.New("application: event title already used this month")
	// ErrDuplicateName is returned when an activity name repeats within its event.
	ErrDuplicateName = errors.New("application: activity name already used in event")
	// ErrEventNotPlanned is returned when activities are created or edited
	// while the owning event is past the Planned status.
	ErrEventNotPlanned = errors.New("application: event is not in planned status")
	// ErrOrganizerHasEvents is returned when deleting an organizer that still
	// owns events.
	ErrOrganizerHasEvents = errors.New("application: organizer still owns events")
	// ErrVenueInUse is returned when deleting a venue that activities still reference.
	ErrVenueInUse = errors.New("application: venue is referenced by activities")
	// ErrParticipantEnrolled is returned when deleting a participant that
	// still holds inscriptions.
	ErrParticipantEnrolled = errors.New("application: participant still holds inscriptions")

	// ErrInvalidCredentials is returned when authentication material does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when the organizer account is disabled.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
