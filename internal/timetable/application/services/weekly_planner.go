package services

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/calendar"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// ProgressReporter receives incremental updates as the Weekly Planner works
// through the planning window. Implementations must be safe to call from a
// single goroutine (the planner never calls it concurrently).
type ProgressReporter interface {
	WeekStarted(label string, weekIndex, totalWeeks int)
	SessionPlaced(session *domain.Session, course *domain.Course)
	RequestAbandoned(courseID uuid.UUID, req domain.SessionRequest, reason domain.RejectReason)
}

// CancelChecker reports whether the enclosing job has been asked to cancel.
// The planner polls it between weeks and between requests, per the
// suspension points the generation engine exposes.
type CancelChecker func() bool

// CourseQueue pairs a course with its still-unsatisfied request queue and
// its (possibly empty) AllowedWeeks restriction.
type CourseQueue struct {
	course       *domain.Course
	links        []*domain.CourseClassLink
	allowedWeeks []domain.AllowedWeek
	pending      []domain.SessionRequest
}

// NewCourseQueue seeds a course's request queue from the Request Builder's
// output and its AllowedWeeks restriction.
func NewCourseQueue(course *domain.Course, links []*domain.CourseClassLink, allowedWeeks []domain.AllowedWeek, pending []domain.SessionRequest) *CourseQueue {
	return &CourseQueue{course: course, links: links, allowedWeeks: allowedWeeks, pending: pending}
}

// Remaining reports the count of requests still unplaced at the time of the call.
func (q *CourseQueue) Remaining() int { return len(q.pending) }

// PlanResult is the outcome of planning every course in one generation run.
type PlanResult struct {
	Placed           []*domain.Session
	Relocated        []*domain.Session
	RelocationEvents []domain.SessionRelocated
	Failures         []domain.PlacementFailure
}

// WeeklyPlanner orchestrates week-by-week placement across every course in
// a generation run, carrying unplaced requests forward and invoking the
// Relocation Engine before giving up on a request.
type WeeklyPlanner struct {
	placement  *PlacementEngine
	relocation *RelocationEngine
}

// NewWeeklyPlanner creates a new Weekly Planner.
func NewWeeklyPlanner(placement *PlacementEngine, relocation *RelocationEngine) *WeeklyPlanner {
	return &WeeklyPlanner{placement: placement, relocation: relocation}
}

// Plan walks every week in window, placing or relocating each course's
// pending requests and reporting progress through reporter. It honors
// cancel; ctx is checked for cancellation at the same suspension points, so
// callers can use either or both.
func (p *WeeklyPlanner) Plan(
	ctx context.Context,
	planCtx *PlanningContext,
	cal *calendar.Model,
	window domain.DateRange,
	closings []domain.ClosingPeriod,
	queues []*CourseQueue,
	reporter ProgressReporter,
	cancel CancelChecker,
) (PlanResult, error) {
	weeks, err := cal.WeeksIn(window, closings)
	if err != nil {
		return PlanResult{}, err
	}
	if len(weeks) == 0 {
		return PlanResult{}, domain.ErrWindowEmpty
	}

	var result PlanResult
	lastReason := make(map[domain.SessionRequest]domain.RejectReason)

	for weekIdx, week := range weeks {
		if ctx.Err() != nil || (cancel != nil && cancel()) {
			return result, domain.ErrCancelled
		}
		if reporter != nil {
			reporter.WeekStarted(week.Format("2006-01-02"), weekIdx+1, len(weeks))
		}

		active := activeQueuesFor(queues, week)
		if len(active) == 0 {
			continue
		}

		type scheduled struct {
			q   *CourseQueue
			req domain.SessionRequest
		}
		var work []scheduled
		for _, q := range active {
			for _, r := range q.pending {
				work = append(work, scheduled{q: q, req: r})
			}
		}
		sort.SliceStable(work, func(i, j int) bool {
			a, b := work[i], work[j]
			if a.req.Kind().Priority() != b.req.Kind().Priority() {
				return a.req.Kind().Priority() < b.req.Kind().Priority()
			}
			if a.q.course.Priority() != b.q.course.Priority() {
				return a.q.course.Priority() < b.q.course.Priority()
			}
			return a.q.course.Name() < b.q.course.Name()
		})

		quotas := make(map[uuid.UUID]*domain.WeekQuota)
		for _, q := range active {
			quotas[q.course.ID()] = weekQuotaFor(q, week)
		}

		placedThisWeek := make(map[uuid.UUID][]*domain.Session)

		for _, item := range work {
			if ctx.Err() != nil || (cancel != nil && cancel()) {
				return result, domain.ErrCancelled
			}

			q, req := item.q, item.req
			quota := quotas[q.course.ID()]

			placementResult := p.placement.Place(planCtx, req, week, q.course, closings, *quota)
			if placementResult.Session != nil {
				p.commitPlacement(&result, placedThisWeek, q, req, placementResult.Session, quota, reporter)
				continue
			}

			if req.Kind().Relocatable() {
				relocResult := p.relocation.Relocate(planCtx, req, week, q.course, closings, *quota, placedThisWeek[req.ClassGroupID()])
				if relocResult.Succeeded {
					result.Relocated = append(result.Relocated, relocResult.Relocated)
					result.RelocationEvents = append(result.RelocationEvents, domain.NewSessionRelocated(
						relocResult.Relocated.ID(),
						relocResult.OldStart, relocResult.OldEnd,
						relocResult.Relocated.StartAt(), relocResult.Relocated.EndAt(),
					))
					p.commitPlacement(&result, placedThisWeek, q, req, relocResult.Placed, quota, reporter)
					continue
				}
			}

			req.RecordAttempt()
			req.RecordCarryOver()
			reason := placementResult.Reason
			if req.Kind().Relocatable() {
				reason = domain.ReasonTeacherBusy
			}
			lastReason[req] = reason
			if reporter != nil {
				reporter.RequestAbandoned(q.course.ID(), req, reason)
			}
		}
	}

	for _, q := range queues {
		for _, r := range q.pending {
			reason := lastReason[r]
			result.Failures = append(result.Failures, domain.PlacementFailure{
				CourseID:     q.course.ID().String(),
				ClassGroupID: r.ClassGroupID().String(),
				Kind:         r.Kind(),
				Reason:       reason,
			})
		}
	}

	return result, nil
}

func (p *WeeklyPlanner) commitPlacement(
	result *PlanResult,
	placedThisWeek map[uuid.UUID][]*domain.Session,
	q *CourseQueue,
	req domain.SessionRequest,
	session *domain.Session,
	quota *domain.WeekQuota,
	reporter ProgressReporter,
) {
	result.Placed = append(result.Placed, session)
	placedThisWeek[req.ClassGroupID()] = append(placedThisWeek[req.ClassGroupID()], session)
	placedThisWeek[q.course.ID()] = append(placedThisWeek[q.course.ID()], session)
	q.pending = removeRequest(q.pending, req)
	if quota.Limited {
		quota.Remaining--
	}
	if reporter != nil {
		reporter.SessionPlaced(session, q.course)
	}
}

// activeQueuesFor selects courses with pending work whose AllowedWeeks (if
// any) include week.
func activeQueuesFor(queues []*CourseQueue, week time.Time) []*CourseQueue {
	var active []*CourseQueue
	for _, q := range queues {
		if len(q.pending) == 0 {
			continue
		}
		if len(q.allowedWeeks) == 0 || weekAllowed(q.allowedWeeks, week) {
			active = append(active, q)
		}
	}
	return active
}

func weekAllowed(allowed []domain.AllowedWeek, week time.Time) bool {
	for _, w := range allowed {
		if w.WeekStart.Equal(week) {
			return true
		}
	}
	return false
}

func weekQuotaFor(q *CourseQueue, week time.Time) *domain.WeekQuota {
	for _, w := range q.allowedWeeks {
		if w.WeekStart.Equal(week) && !w.AllowsUnlimited() {
			return &domain.WeekQuota{Limited: true, Remaining: *w.Quota}
		}
	}
	return &domain.WeekQuota{Limited: false}
}

func removeRequest(pending []domain.SessionRequest, target domain.SessionRequest) []domain.SessionRequest {
	out := pending[:0]
	removed := false
	for _, r := range pending {
		if !removed && r == target {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out
}

