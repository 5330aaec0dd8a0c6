package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionRequest is a tagged variant over the five session types. Each
// concrete variant carries exactly the fields its type needs; the
// Placement Engine dispatches on the concrete variant rather than probing
// for optional attributes.
type SessionRequest interface {
	Kind() SessionType
	CourseID() uuid.UUID
	ClassGroupID() uuid.UUID
	Duration() time.Duration
	PreferredTeacher() uuid.UUID
	AttemptsCount() int
	RecordAttempt()
	CarryOverWeekCount() int
	RecordCarryOver()
	sealed()
}

// base holds the fields common to every request variant.
type base struct {
	courseID          uuid.UUID
	classGroupID      uuid.UUID
	duration          time.Duration
	preferredTeacher  uuid.UUID
	attemptsCount     int
	carryOverWeeks    int
}

func (b *base) CourseID() uuid.UUID         { return b.courseID }
func (b *base) ClassGroupID() uuid.UUID     { return b.classGroupID }
func (b *base) Duration() time.Duration     { return b.duration }
func (b *base) PreferredTeacher() uuid.UUID { return b.preferredTeacher }
func (b *base) AttemptsCount() int          { return b.attemptsCount }
func (b *base) RecordAttempt()              { b.attemptsCount++ }
func (b *base) CarryOverWeekCount() int     { return b.carryOverWeeks }
func (b *base) RecordCarryOver()            { b.carryOverWeeks++ }

// CMRequest is a lecture session shared jointly by every linked class group.
type CMRequest struct {
	base
	AttendingClassGroups []uuid.UUID
}

func (r *CMRequest) Kind() SessionType { return SessionTypeCM }
func (r *CMRequest) sealed()           {}

// NewCMRequest creates a CM request attended jointly by attendingClassGroups.
func NewCMRequest(courseID uuid.UUID, attendingClassGroups []uuid.UUID, duration time.Duration, preferredTeacher uuid.UUID) *CMRequest {
	primary := uuid.Nil
	if len(attendingClassGroups) > 0 {
		primary = attendingClassGroups[0]
	}
	return &CMRequest{
		base: base{
			courseID:         courseID,
			classGroupID:     primary,
			duration:         duration,
			preferredTeacher: preferredTeacher,
		},
		AttendingClassGroups: attendingClassGroups,
	}
}

// SAERequest is a project/integration session requiring two teachers.
type SAERequest struct {
	base
	TeacherA uuid.UUID
	TeacherB uuid.UUID
}

func (r *SAERequest) Kind() SessionType { return SessionTypeSAE }
func (r *SAERequest) sealed()           {}

// NewSAERequest creates an SAE request.
func NewSAERequest(courseID, classGroupID uuid.UUID, duration time.Duration, teacherA, teacherB uuid.UUID) *SAERequest {
	return &SAERequest{
		base: base{
			courseID:         courseID,
			classGroupID:     classGroupID,
			duration:         duration,
			preferredTeacher: teacherA,
		},
		TeacherA: teacherA,
		TeacherB: teacherB,
	}
}

// EvalRequest is a single-teacher evaluation/exam session.
type EvalRequest struct {
	base
}

func (r *EvalRequest) Kind() SessionType { return SessionTypeEval }
func (r *EvalRequest) sealed()           {}

// NewEvalRequest creates an Eval request.
func NewEvalRequest(courseID, classGroupID uuid.UUID, duration time.Duration, preferredTeacher uuid.UUID) *EvalRequest {
	return &EvalRequest{base: base{
		courseID:         courseID,
		classGroupID:     classGroupID,
		duration:         duration,
		preferredTeacher: preferredTeacher,
	}}
}

// TDRequest is a single-teacher tutorial session. Relocatable.
type TDRequest struct {
	base
}

func (r *TDRequest) Kind() SessionType { return SessionTypeTD }
func (r *TDRequest) sealed()           {}

// NewTDRequest creates a TD request.
func NewTDRequest(courseID, classGroupID uuid.UUID, duration time.Duration, preferredTeacher uuid.UUID) *TDRequest {
	return &TDRequest{base: base{
		courseID:         courseID,
		classGroupID:     classGroupID,
		duration:         duration,
		preferredTeacher: preferredTeacher,
	}}
}

// TPRequest is a practical/lab session, optionally for one subgroup of a
// split class group. Relocatable.
type TPRequest struct {
	base
	SubgroupLabel SubgroupLabel // empty when the class group is not split
}

func (r *TPRequest) Kind() SessionType { return SessionTypeTP }
func (r *TPRequest) sealed()           {}

// NewTPRequest creates a TP request, optionally scoped to one subgroup.
func NewTPRequest(courseID, classGroupID uuid.UUID, subgroup SubgroupLabel, duration time.Duration, preferredTeacher uuid.UUID) *TPRequest {
	return &TPRequest{
		base: base{
			courseID:         courseID,
			classGroupID:     classGroupID,
			duration:         duration,
			preferredTeacher: preferredTeacher,
		},
		SubgroupLabel: subgroup,
	}
}
