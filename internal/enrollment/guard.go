// Package enrollment holds the pure decision rules guarding inscription
// creation and cancellation. The guards authorize only; the caller reads
// the snapshot beforehand and persists the outcome afterwards.
package enrollment

import "fmt"

// RejectReason tags the rule that blocked an enrollment.
type RejectReason string

const (
	ReasonActivityFinalized RejectReason = "activity_finalized"
	ReasonAlreadyEnrolled   RejectReason = "already_enrolled"
	ReasonCapacityFull      RejectReason = "capacity_full"
)

// Rejection reports why an enrollment or cancellation was refused.
type Rejection struct {
	Reason RejectReason
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonActivityFinalized:
		return "enrollment: activity is finalized"
	case ReasonAlreadyEnrolled:
		return "enrollment: participant is already enrolled"
	case ReasonCapacityFull:
		return "enrollment: activity is at capacity"
	}
	return fmt.Sprintf("enrollment: rejected (%s)", r.Reason)
}

// ActivitySnapshot carries the activity state the guards decide over.
type ActivitySnapshot struct {
	Finalized bool
	Capacity  int
}

// CanEnroll authorizes an enrollment against a snapshot of the activity,
// whether the participant already holds an inscription, and the current
// inscription count. Checks run in a fixed order and the first failing rule
// wins: finalized, then duplicate, then capacity.
func CanEnroll(activity ActivitySnapshot, alreadyEnrolled bool, enrolledCount int) error {
	if activity.Finalized {
		return &Rejection{Reason: ReasonActivityFinalized}
	}
	if alreadyEnrolled {
		return &Rejection{Reason: ReasonAlreadyEnrolled}
	}
	if enrolledCount >= activity.Capacity {
		return &Rejection{Reason: ReasonCapacityFull}
	}
	return nil
}

// CanCancel authorizes removal of an inscription. Only inscriptions on
// activities that are not finalized may be cancelled; removal is a hard
// delete performed by the caller.
func CanCancel(activityFinalized bool) error {
	if activityFinalized {
		return &Rejection{Reason: ReasonActivityFinalized}
	}
	return nil
}
