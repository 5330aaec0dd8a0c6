package domain

import (
	"errors"
	"fmt"
)

// ErrDataInconsistency is raised before planning starts when a reference is
// missing or a course cannot be scheduled for a structural reason (no
// linked class group, a class group with zero eligible teachers, and the
// like).
type ErrDataInconsistency struct {
	Description string
}

func (e *ErrDataInconsistency) Error() string {
	return fmt.Sprintf("data inconsistency: %s", e.Description)
}

// ErrWindowEmpty indicates the planning window contains no working days
// after closing-period filtering.
var ErrWindowEmpty = errors.New("planning window contains no working days")

// ErrCancelled indicates the job was cancelled by the user.
var ErrCancelled = errors.New("generation cancelled")

// PlacementFailure records one unplaceable request at the end of planning.
type PlacementFailure struct {
	CourseID     string
	ClassGroupID string
	Kind         SessionType
	Reason       RejectReason
}

func (f PlacementFailure) Error() string {
	return fmt.Sprintf("could not place %s session for course %s / class %s: %s", f.Kind, f.CourseID, f.ClassGroupID, f.Reason)
}
