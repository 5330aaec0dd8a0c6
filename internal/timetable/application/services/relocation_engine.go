package services

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// RelocationResult is the outcome of one relocation attempt.
type RelocationResult struct {
	Placed     *domain.Session
	Relocated  *domain.Session
	OldStart   time.Time
	OldEnd     time.Time
	Reason     domain.RejectReason
	Succeeded  bool
}

// RelocationEngine attempts to free a slot for a TD/TP request by moving one
// conflicting previously-placed session (also TD/TP) elsewhere in the same
// week. At most one swap is attempted per placement attempt.
type RelocationEngine struct {
	placement *PlacementEngine
}

// NewRelocationEngine creates a new Relocation Engine.
func NewRelocationEngine(placement *PlacementEngine) *RelocationEngine {
	return &RelocationEngine{placement: placement}
}

// Relocate attempts one swap: move an already-placed TD/TP session of the
// same class group out of the way, then retry placing req.
func (e *RelocationEngine) Relocate(
	ctx *PlanningContext,
	req domain.SessionRequest,
	week time.Time,
	course *domain.Course,
	closings []domain.ClosingPeriod,
	quota domain.WeekQuota,
	placedThisWeek []*domain.Session,
) RelocationResult {
	if !req.Kind().Relocatable() {
		return RelocationResult{Reason: domain.ReasonNone}
	}

	candidates := relocatableSessions(placedThisWeek, req.ClassGroupID())

	for _, candidate := range candidates {
		ctx.Availability.Remove(candidate)

		rResult := e.placement.Place(ctx, req, week, course, closings, quota)
		if rResult.Session == nil || rResult.Session.StartAt().Equal(candidate.StartAt()) {
			if rResult.Session != nil {
				ctx.Availability.Remove(rResult.Session)
			}
			ctx.Availability.Place(candidate)
			continue
		}

		sResult := e.placement.Place(ctx, relocationRequestFor(candidate), week, course, closings, quota)
		if sResult.Session == nil {
			ctx.Availability.Remove(rResult.Session)
			ctx.Availability.Place(candidate)
			continue
		}

		// sResult.Session is a freshly-minted placement standing in for
		// candidate; fold its slot back into candidate's own identity so
		// the moved session keeps the same id.
		ctx.Availability.Remove(sResult.Session)
		oldStart, oldEnd := candidate.StartAt(), candidate.EndAt()
		candidate.Reschedule(sResult.Session.StartAt(), sResult.Session.EndAt())
		candidate.SetRoom(sResult.Session.RoomID())
		ctx.Availability.Place(candidate)

		return RelocationResult{
			Placed:    rResult.Session,
			Relocated: candidate,
			OldStart:  oldStart,
			OldEnd:    oldEnd,
			Succeeded: true,
		}
	}

	return RelocationResult{Reason: domain.ReasonTeacherBusy}
}

// relocatableSessions returns sessions placed this week for classGroupID of
// type TD/TP, ordered by start-datetime ascending then session-id, so retries
// are deterministic across runs.
func relocatableSessions(placedThisWeek []*domain.Session, classGroupID uuid.UUID) []*domain.Session {
	var candidates []*domain.Session
	for _, s := range placedThisWeek {
		if s.ClassGroupID() != classGroupID {
			continue
		}
		if !s.Kind().Relocatable() {
			continue
		}
		candidates = append(candidates, s)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartAt().Equal(candidates[j].StartAt()) {
			return candidates[i].StartAt().Before(candidates[j].StartAt())
		}
		return candidates[i].ID().String() < candidates[j].ID().String()
	})
	return candidates
}

// relocationRequestFor rebuilds a session request equivalent for re-placing
// an already-placed session elsewhere in the same week.
func relocationRequestFor(s *domain.Session) domain.SessionRequest {
	duration := s.EndAt().Sub(s.StartAt())
	if s.SubgroupLabel() != "" {
		return domain.NewTPRequest(s.CourseID(), s.ClassGroupID(), s.SubgroupLabel(), duration, s.TeacherID())
	}
	return domain.NewTDRequest(s.CourseID(), s.ClassGroupID(), duration, s.TeacherID())
}
