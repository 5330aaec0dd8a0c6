package domain

import (
	"time"

	"github.com/google/uuid"
)

// RejectReason is a typed, reproducible rejection cause. The Constraint
// Evaluator always returns the most specific reason it found, never a
// generic failure.
type RejectReason string

const (
	ReasonNone                     RejectReason = ""
	ReasonWindowOutOfCoursePeriod  RejectReason = "WindowOutOfCoursePeriod"
	ReasonDateClosed               RejectReason = "DateClosed"
	ReasonOutsideWorkingWindow     RejectReason = "OutsideWorkingWindow"
	ReasonWeekQuotaReached         RejectReason = "WeekQuotaReached"
	ReasonTeacherUnavailable       RejectReason = "TeacherUnavailable"
	ReasonTeacherBusy              RejectReason = "TeacherBusy"
	ReasonClassUnavailable         RejectReason = "ClassUnavailable"
	ReasonClassBusy                RejectReason = "ClassBusy"
	ReasonRoomBusy                 RejectReason = "RoomBusy"
	ReasonCapacityInsufficient     RejectReason = "CapacityInsufficient"
	ReasonComputersInsufficient    RejectReason = "ComputersInsufficient"
	ReasonEquipmentMissing         RejectReason = "EquipmentMissing"
	ReasonSoftwareMissing          RejectReason = "SoftwareMissing"
)

// Verdict is the outcome of evaluating one candidate placement.
type Verdict struct {
	Reason RejectReason
}

// OK reports whether the candidate passed every check.
func (v Verdict) OK() bool { return v.Reason == ReasonNone }

// Accept is the zero-value passing verdict.
func Accept() Verdict { return Verdict{} }

// Reject builds a failing verdict carrying reason.
func Reject(reason RejectReason) Verdict { return Verdict{Reason: reason} }

// AvailabilityChecker is the subset of the Availability Index the evaluator
// needs. Defined here, in the domain package, so the evaluator stays
// decoupled from the index's construction.
type AvailabilityChecker interface {
	TeacherFree(teacherID uuid.UUID, date time.Time, start, end time.Time) bool
	ClassFree(classGroupID uuid.UUID, date time.Time, start, end time.Time) bool
	RoomFree(roomID uuid.UUID, date time.Time, start, end time.Time, excludingSessionIDs ...uuid.UUID) bool
}

// Candidate is one fully-specified placement attempt.
type Candidate struct {
	Course            *Course
	ClassGroup        *ClassGroup
	AttendingGroups   []*ClassGroup // for CM, every attending group; otherwise just ClassGroup
	Subgroup          SubgroupLabel
	Teacher           *Teacher
	SecondaryTeacher  *Teacher // set for SAE
	Room              *Room
	Date              time.Time
	Start             time.Time
	End               time.Time
	ExcludingSessions []uuid.UUID // sessions to ignore in availability checks (relocation)
}

// WeekQuota describes the remaining budget for a (course, week) pair.
type WeekQuota struct {
	Limited   bool
	Remaining int
}

// Evaluator is the stateless Constraint Evaluator. Check order is fixed so
// rejection reasons are reproducible: cheapest checks first (course window,
// closing periods, working window, week quota), then availability, then
// resource fit.
type Evaluator struct {
	closingPeriods []ClosingPeriod
	workingWindows []WorkingWindow
}

// NewEvaluator creates a new Constraint Evaluator for one generation run.
func NewEvaluator(closingPeriods []ClosingPeriod, workingWindows []WorkingWindow) *Evaluator {
	return &Evaluator{closingPeriods: closingPeriods, workingWindows: workingWindows}
}

// Evaluate checks a candidate against every hard constraint and returns the
// first reason encountered, in fixed check order.
func (e *Evaluator) Evaluate(c Candidate, availability AvailabilityChecker, quota WeekQuota) Verdict {
	if c.Date.Before(truncateToDate(c.Course.Window().Start)) || c.Date.After(truncateToDate(c.Course.Window().End)) {
		return Reject(ReasonWindowOutOfCoursePeriod)
	}

	for _, cp := range e.closingPeriods {
		if cp.Range.Contains(c.Date) {
			return Reject(ReasonDateClosed)
		}
	}

	if !e.withinWorkingWindow(c.Start, c.End) {
		return Reject(ReasonOutsideWorkingWindow)
	}

	if quota.Limited && quota.Remaining <= 0 {
		return Reject(ReasonWeekQuotaReached)
	}

	if c.Teacher.IsUnavailableOn(c.Date) {
		return Reject(ReasonTeacherUnavailable)
	}
	if !availability.TeacherFree(c.Teacher.ID(), c.Date, c.Start, c.End) {
		return Reject(ReasonTeacherBusy)
	}
	if c.SecondaryTeacher != nil {
		if c.SecondaryTeacher.IsUnavailableOn(c.Date) {
			return Reject(ReasonTeacherUnavailable)
		}
		if !availability.TeacherFree(c.SecondaryTeacher.ID(), c.Date, c.Start, c.End) {
			return Reject(ReasonTeacherBusy)
		}
	}

	groups := c.AttendingGroups
	if len(groups) == 0 {
		groups = []*ClassGroup{c.ClassGroup}
	}
	requiredSeats := 0
	for _, g := range groups {
		if g.IsUnavailableOn(c.Date) {
			return Reject(ReasonClassUnavailable)
		}
		if !availability.ClassFree(g.ID(), c.Date, c.Start, c.End) {
			return Reject(ReasonClassBusy)
		}
		seats := g.Size()
		if c.Subgroup != "" {
			seats = g.SubgroupSize()
		}
		requiredSeats += seats
	}

	if !availability.RoomFree(c.Room.ID(), c.Date, c.Start, c.End, c.ExcludingSessions...) {
		return Reject(ReasonRoomBusy)
	}

	if c.Room.SeatCapacity() < requiredSeats {
		return Reject(ReasonCapacityInsufficient)
	}
	if c.Room.ComputerCount() < c.Course.ComputersRequired() {
		return Reject(ReasonComputersInsufficient)
	}
	for _, eq := range c.Course.RequiredEquipment() {
		if !contains(c.Room.Equipment(), eq) {
			return Reject(ReasonEquipmentMissing)
		}
	}
	for _, sw := range c.Course.RequiredSoftware() {
		if !contains(c.Room.Software(), sw) {
			return Reject(ReasonSoftwareMissing)
		}
	}

	return Accept()
}

func (e *Evaluator) withinWorkingWindow(start, end time.Time) bool {
	for _, w := range e.workingWindows {
		if !start.Before(w.startOn(start)) && !end.After(w.endOn(start)) {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
