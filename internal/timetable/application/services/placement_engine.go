package services

import (
	"sort"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/availability"
	"github.com/felixgeelhaar/schedgen/internal/timetable/calendar"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// SeriesKey identifies one (course, class-group, subgroup) session series
// for teacher-continuity tracking.
type SeriesKey struct {
	CourseID     uuid.UUID
	ClassGroupID uuid.UUID
	Subgroup     domain.SubgroupLabel
}

func seriesKeyOf(req domain.SessionRequest) SeriesKey {
	subgroup := domain.SubgroupLabel("")
	if tp, ok := req.(*domain.TPRequest); ok {
		subgroup = tp.SubgroupLabel
	}
	return SeriesKey{CourseID: req.CourseID(), ClassGroupID: req.ClassGroupID(), Subgroup: subgroup}
}

// PlanningContext bundles the immutable snapshot tables and mutable
// Availability Index a generation job plans against.
type PlanningContext struct {
	Calendar        *calendar.Model
	Availability    *availability.Index
	Evaluator       *domain.Evaluator
	Rooms           []*domain.Room
	Teachers        map[uuid.UUID]*domain.Teacher
	ClassGroups     map[uuid.UUID]*domain.ClassGroup
	LinkedTeachers  map[uuid.UUID][]uuid.UUID // courseID -> teachers in link declaration order
	LastTeacherUsed map[SeriesKey]uuid.UUID
}

// PlacementResult is the outcome of one placement attempt.
type PlacementResult struct {
	Session *domain.Session
	Reason  domain.RejectReason
}

// PlacementEngine searches candidate (day, slot, teacher, room) tuples for a
// single request within one week.
type PlacementEngine struct{}

// NewPlacementEngine creates a new Placement Engine.
func NewPlacementEngine() *PlacementEngine {
	return &PlacementEngine{}
}

// Place attempts to place req within week, returning the most specific
// rejection reason encountered when no candidate passes.
func (e *PlacementEngine) Place(ctx *PlanningContext, req domain.SessionRequest, week time.Time, course *domain.Course, closings []domain.ClosingPeriod, quota domain.WeekQuota) PlacementResult {
	days := ctx.Calendar.WorkingDays(week, closings)
	lastReason := domain.ReasonNone

	switch r := req.(type) {
	case *domain.SAERequest:
		return e.placeSAE(ctx, r, days, course, quota)
	case *domain.CMRequest:
		return e.placeCM(ctx, r, days, course, quota)
	default:
		for _, day := range days {
			for _, slot := range ctx.Calendar.Slots(day, req.Duration()) {
				for _, teacherID := range e.candidateTeachers(ctx, req) {
					teacher, ok := ctx.Teachers[teacherID]
					if !ok {
						continue
					}
					classGroup := ctx.ClassGroups[req.ClassGroupID()]
					if classGroup == nil {
						continue
					}
					for _, room := range e.candidateRooms(ctx, course, classGroup, subgroupOf(req)) {
						candidate := domain.Candidate{
							Course:     course,
							ClassGroup: classGroup,
							Subgroup:   subgroupOf(req),
							Teacher:    teacher,
							Room:       room,
							Date:       day,
							Start:      slot.Start,
							End:        slot.End,
						}
						verdict := ctx.Evaluator.Evaluate(candidate, ctx.Availability, quota)
						if verdict.OK() {
							session := domain.NewSession(course.ID(), req.ClassGroupID(), subgroupOf(req), course.SessionType(), teacher.ID(), room.ID(), slot.Start, slot.End)
							ctx.Availability.Place(session)
							ctx.LastTeacherUsed[seriesKeyOf(req)] = teacher.ID()
							return PlacementResult{Session: session}
						}
						lastReason = verdict.Reason
					}
				}
			}
		}
	}

	return PlacementResult{Reason: lastReason}
}

func (e *PlacementEngine) placeSAE(ctx *PlanningContext, req *domain.SAERequest, days []time.Time, course *domain.Course, quota domain.WeekQuota) PlacementResult {
	lastReason := domain.ReasonNone
	classGroup := ctx.ClassGroups[req.ClassGroupID()]
	if classGroup == nil {
		return PlacementResult{Reason: domain.ReasonTeacherUnavailable}
	}

	teacherPairs := [][2]uuid.UUID{{req.TeacherA, req.TeacherB}}

	for _, day := range days {
		for _, slot := range ctx.Calendar.Slots(day, req.Duration()) {
			for _, pair := range teacherPairs {
				teacherA, okA := ctx.Teachers[pair[0]]
				teacherB, okB := ctx.Teachers[pair[1]]
				if !okA || !okB {
					continue
				}
				for _, room := range e.candidateRooms(ctx, course, classGroup, "") {
					candidate := domain.Candidate{
						Course:           course,
						ClassGroup:       classGroup,
						Teacher:          teacherA,
						SecondaryTeacher: teacherB,
						Room:             room,
						Date:             day,
						Start:            slot.Start,
						End:              slot.End,
					}
					verdict := ctx.Evaluator.Evaluate(candidate, ctx.Availability, quota)
					if verdict.OK() {
						session := domain.NewSession(course.ID(), req.ClassGroupID(), "", course.SessionType(), teacherA.ID(), room.ID(), slot.Start, slot.End)
						session.SetSecondaryTeacher(teacherB.ID())
						ctx.Availability.Place(session)
						return PlacementResult{Session: session}
					}
					lastReason = verdict.Reason
				}
			}
		}
	}
	return PlacementResult{Reason: lastReason}
}

func (e *PlacementEngine) placeCM(ctx *PlanningContext, req *domain.CMRequest, days []time.Time, course *domain.Course, quota domain.WeekQuota) PlacementResult {
	lastReason := domain.ReasonNone
	attending := make([]*domain.ClassGroup, 0, len(req.AttendingClassGroups))
	requiredSeats := 0
	for _, id := range req.AttendingClassGroups {
		g := ctx.ClassGroups[id]
		if g == nil {
			continue
		}
		attending = append(attending, g)
		requiredSeats += g.Size()
	}

	for _, day := range days {
		for _, slot := range ctx.Calendar.Slots(day, req.Duration()) {
			for _, teacherID := range e.candidateTeachers(ctx, req) {
				teacher, ok := ctx.Teachers[teacherID]
				if !ok {
					continue
				}
				for _, room := range e.roomsWithCapacity(ctx, course, requiredSeats) {
					candidate := domain.Candidate{
						Course:          course,
						ClassGroup:      attending[0],
						AttendingGroups: attending,
						Teacher:         teacher,
						Room:            room,
						Date:            day,
						Start:           slot.Start,
						End:             slot.End,
					}
					verdict := ctx.Evaluator.Evaluate(candidate, ctx.Availability, quota)
					if verdict.OK() {
						session := domain.NewSession(course.ID(), req.ClassGroupID(), "", course.SessionType(), teacher.ID(), room.ID(), slot.Start, slot.End)
						for _, g := range attending[1:] {
							session.AddAttendingClassGroup(g.ID())
						}
						ctx.Availability.Place(session)
						return PlacementResult{Session: session}
					}
					lastReason = verdict.Reason
				}
			}
		}
	}
	return PlacementResult{Reason: lastReason}
}

func subgroupOf(req domain.SessionRequest) domain.SubgroupLabel {
	if tp, ok := req.(*domain.TPRequest); ok {
		return tp.SubgroupLabel
	}
	return ""
}

// candidateTeachers enumerates teachers in priority order: the teacher used
// on the previous session of the series, the request's preferred teacher,
// then every teacher linked to the course in declaration order.
func (e *PlacementEngine) candidateTeachers(ctx *PlanningContext, req domain.SessionRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ordered []uuid.UUID

	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	add(ctx.LastTeacherUsed[seriesKeyOf(req)])
	add(req.PreferredTeacher())
	for _, id := range ctx.LinkedTeachers[req.CourseID()] {
		add(id)
	}
	return ordered
}

// candidateRooms enumerates rooms meeting capacity and resource requirements,
// ordered by ascending capacity (tightest fit), tie-broken by id.
func (e *PlacementEngine) candidateRooms(ctx *PlanningContext, course *domain.Course, classGroup *domain.ClassGroup, subgroup domain.SubgroupLabel) []*domain.Room {
	seats := classGroup.Size()
	if subgroup != "" {
		seats = classGroup.SubgroupSize()
	}
	return e.roomsWithCapacity(ctx, course, seats)
}

func (e *PlacementEngine) roomsWithCapacity(ctx *PlanningContext, course *domain.Course, requiredSeats int) []*domain.Room {
	var candidates []*domain.Room
	for _, room := range ctx.Rooms {
		if room.Satisfies(requiredSeats, course.ComputersRequired(), course.RequiredEquipment(), course.RequiredSoftware()) {
			candidates = append(candidates, room)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].SeatCapacity() != candidates[j].SeatCapacity() {
			return candidates[i].SeatCapacity() < candidates[j].SeatCapacity()
		}
		return candidates[i].ID().String() < candidates[j].ID().String()
	})
	return candidates
}
