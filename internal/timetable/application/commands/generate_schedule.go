// Package commands wires the timetable domain's read model and engines
// into the single GenerateSchedule use case the generation bounded
// context's Job Runner drives.
package commands

import (
	"context"
	"fmt"

	genApp "github.com/felixgeelhaar/schedgen/internal/generation/application"
	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	sharedApplication "github.com/felixgeelhaar/schedgen/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/schedgen/internal/timetable/application/services"
	"github.com/felixgeelhaar/schedgen/internal/timetable/availability"
	"github.com/felixgeelhaar/schedgen/internal/timetable/calendar"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// GenerateSchedule assembles one generation run: it loads the read model
// for a job's data scope, builds requests, and drives the Weekly Planner
// to a terminal PlanResult.
type GenerateSchedule struct {
	courses        domain.CourseRepository
	teachers       domain.TeacherRepository
	classGroups    domain.ClassGroupRepository
	rooms          domain.RoomRepository
	closings       domain.ClosingPeriodRepository
	sessions       domain.SessionRepository
	scheduleLogs   domain.ScheduleLogRepository
	uow            sharedApplication.UnitOfWork
	outboxRepo     outbox.Repository
	requestBuilder *services.RequestBuilder
	placement      *services.PlacementEngine
	relocation     *services.RelocationEngine
	planner        *services.WeeklyPlanner
}

// NewGenerateSchedule wires a GenerateSchedule use case from its repositories.
// uow scopes each run's session and schedule-log writes in one transaction;
// it may be nil, in which case writes commit individually. outboxRepo
// receives the run's domain events (session placements, relocations,
// abandoned requests, and a final completion event) in the same transaction,
// so a reader of the outbox never observes a write without its events; it
// may also be nil, in which case no events are recorded.
func NewGenerateSchedule(
	courses domain.CourseRepository,
	teachers domain.TeacherRepository,
	classGroups domain.ClassGroupRepository,
	rooms domain.RoomRepository,
	closings domain.ClosingPeriodRepository,
	sessions domain.SessionRepository,
	scheduleLogs domain.ScheduleLogRepository,
	uow sharedApplication.UnitOfWork,
	outboxRepo outbox.Repository,
) *GenerateSchedule {
	placement := services.NewPlacementEngine()
	relocation := services.NewRelocationEngine(placement)
	return &GenerateSchedule{
		courses:        courses,
		teachers:       teachers,
		classGroups:    classGroups,
		rooms:          rooms,
		closings:       closings,
		sessions:       sessions,
		scheduleLogs:   scheduleLogs,
		uow:            uow,
		outboxRepo:     outboxRepo,
		requestBuilder: services.NewRequestBuilder(),
		placement:      placement,
		relocation:     relocation,
		planner:        services.NewWeeklyPlanner(placement, relocation),
	}
}

// Plan implements generation/application.Planner: it loads the read model
// for job, builds every course's request queue, and drives the Weekly
// Planner across the job's window. Once planning ends, the placed and
// relocated sessions, a schedule log per course, and the run's outbox events
// are persisted together in one unit of work.
func (g *GenerateSchedule) Plan(ctx context.Context, job *genDomain.Job, sink *genApp.ProgressSink) (services.PlanResult, error) {
	scope := job.DataScope()

	courses, err := g.courses.ListCourses(ctx, scope)
	if err != nil {
		return services.PlanResult{}, fmt.Errorf("listing courses: %w", err)
	}
	if len(courses) == 0 {
		return services.PlanResult{}, &domain.ErrDataInconsistency{Description: "no courses found for data scope " + scope}
	}

	teachers, err := g.teachers.ListTeachers(ctx)
	if err != nil {
		return services.PlanResult{}, fmt.Errorf("listing teachers: %w", err)
	}
	classGroups, err := g.classGroups.ListClassGroups(ctx)
	if err != nil {
		return services.PlanResult{}, fmt.Errorf("listing class groups: %w", err)
	}
	rooms, err := g.rooms.ListRooms(ctx)
	if err != nil {
		return services.PlanResult{}, fmt.Errorf("listing rooms: %w", err)
	}
	closings, err := g.closings.ListClosingPeriods(ctx, scope)
	if err != nil {
		return services.PlanResult{}, fmt.Errorf("listing closing periods: %w", err)
	}

	teacherByID := make(map[uuid.UUID]*domain.Teacher, len(teachers))
	for _, t := range teachers {
		teacherByID[t.ID()] = t
	}
	classGroupByID := make(map[uuid.UUID]*domain.ClassGroup, len(classGroups))
	for _, cg := range classGroups {
		classGroupByID[cg.ID()] = cg
	}
	courseByID := make(map[uuid.UUID]*domain.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID()] = c
	}

	var queues []*services.CourseQueue
	var existingAll []*domain.Session
	linkedTeachers := make(map[uuid.UUID][]uuid.UUID)
	window := domain.DateRange{Start: job.Window().Start, End: job.Window().End}

	for _, course := range courses {
		links, err := g.courses.ListClassLinks(ctx, course.ID())
		if err != nil {
			return services.PlanResult{}, fmt.Errorf("listing links for course %s: %w", course.ID(), err)
		}
		if len(links) == 0 {
			return services.PlanResult{}, &domain.ErrDataInconsistency{Description: "course " + course.Name() + " has no class-group links"}
		}

		for _, link := range links {
			linkedTeachers[course.ID()] = appendUnique(linkedTeachers[course.ID()], link.LinkedTeachers()...)
		}

		existing, err := g.sessions.ExistingSessions(ctx, course.ID())
		if err != nil {
			return services.PlanResult{}, fmt.Errorf("listing existing sessions for course %s: %w", course.ID(), err)
		}
		existingAll = append(existingAll, existing...)

		allowedWeeks, err := g.sessions.AllowedWeeks(ctx, course.ID())
		if err != nil {
			return services.PlanResult{}, fmt.Errorf("listing allowed weeks for course %s: %w", course.ID(), err)
		}

		alreadyPlaced := services.CountPlaced(existing)
		requests := g.requestBuilder.Build(course, links, alreadyPlaced)
		if len(requests) > 0 {
			queues = append(queues, services.NewCourseQueue(course, links, allowedWeeks, requests))
		}
	}

	idx := availability.NewIndex(teachers, classGroups, existingAll)
	evaluator := domain.NewEvaluator(closings, domain.DefaultWorkingWindows())
	planCtx := &services.PlanningContext{
		Calendar:        calendar.NewModel(),
		Availability:    idx,
		Evaluator:       evaluator,
		Rooms:           rooms,
		Teachers:        teacherByID,
		ClassGroups:     classGroupByID,
		LinkedTeachers:  linkedTeachers,
		LastTeacherUsed: make(map[services.SeriesKey]uuid.UUID),
	}

	cancel := func() bool { return job.CancelRequested() }
	reporter := genApp.NewReporterAdapter(sink, courseByID, classGroupByID, teacherByID)

	result, err := g.planner.Plan(ctx, planCtx, planCtx.Calendar, window, closings, queues, reporter, cancel)
	if err != nil {
		return result, err
	}

	if err := g.commitResult(ctx, job, courses, result, window); err != nil {
		return result, err
	}

	return result, nil
}

// commitResult persists every placed/relocated session, writes the
// per-course schedule logs, and records the run's domain events to the
// outbox, all inside one unit of work, so a mid-run failure never leaves a
// partially-written run committed and a reader of the outbox never observes
// a write without its events.
func (g *GenerateSchedule) commitResult(ctx context.Context, job *genDomain.Job, courses []*domain.Course, result services.PlanResult, window domain.DateRange) error {
	write := func(txCtx context.Context) error {
		for _, session := range result.Placed {
			if err := g.sessions.PersistSession(txCtx, session); err != nil {
				return fmt.Errorf("persisting session %s: %w", session.ID(), err)
			}
		}
		for _, session := range result.Relocated {
			if err := g.sessions.PersistSession(txCtx, session); err != nil {
				return fmt.Errorf("persisting relocated session %s: %w", session.ID(), err)
			}
		}
		if err := g.writeScheduleLogs(txCtx, courses, result, window); err != nil {
			return err
		}
		return g.saveOutboxEvents(txCtx, job, result)
	}

	if g.uow == nil {
		return write(ctx)
	}
	return sharedApplication.WithUnitOfWork(ctx, g.uow, write)
}

// saveOutboxEvents builds one domain event per placed session, relocation,
// and abandoned request, plus a single run-completion event, and persists
// them to the outbox so the event bus can publish them after commit.
func (g *GenerateSchedule) saveOutboxEvents(ctx context.Context, job *genDomain.Job, result services.PlanResult) error {
	if g.outboxRepo == nil {
		return nil
	}

	var events []sharedDomain.DomainEvent
	for _, session := range result.Placed {
		event := domain.NewSessionPlaced(session)
		events = append(events, &event)
	}
	for _, event := range result.RelocationEvents {
		event := event
		events = append(events, &event)
	}
	for _, failure := range result.Failures {
		courseID, err := uuid.Parse(failure.CourseID)
		if err != nil {
			continue
		}
		classGroupID, err := uuid.Parse(failure.ClassGroupID)
		if err != nil {
			continue
		}
		event := domain.NewRequestAbandoned(courseID, classGroupID, failure.Kind, failure.Reason)
		events = append(events, &event)
	}
	completed := domain.NewGenerationCompleted(job.ID(), len(result.Placed), len(result.Failures))
	events = append(events, &completed)

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(uuid.Nil))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return fmt.Errorf("encoding outbox message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return g.outboxRepo.SaveBatch(ctx, msgs)
}

func (g *GenerateSchedule) writeScheduleLogs(ctx context.Context, courses []*domain.Course, result services.PlanResult, window domain.DateRange) error {
	failuresByCourse := make(map[uuid.UUID]int)
	for _, f := range result.Failures {
		if id, err := uuid.Parse(f.CourseID); err == nil {
			failuresByCourse[id]++
		}
	}
	for _, course := range courses {
		status := "success"
		summary := fmt.Sprintf("%d sessions placed", countForCourse(result.Placed, course.ID()))
		if n := failuresByCourse[course.ID()]; n > 0 {
			status = "partial"
			summary = fmt.Sprintf("%s, %d requests could not be placed", summary, n)
		}
		if err := g.scheduleLogs.PersistScheduleLog(ctx, domain.ScheduleLog{
			CourseID:    course.ID(),
			Status:      status,
			Summary:     summary,
			WindowStart: window.Start,
			WindowEnd:   window.End,
		}); err != nil {
			return fmt.Errorf("persisting schedule log for course %s: %w", course.ID(), err)
		}
	}
	return nil
}

func countForCourse(sessions []*domain.Session, courseID uuid.UUID) int {
	n := 0
	for _, s := range sessions {
		if s.CourseID() == courseID {
			n++
		}
	}
	return n
}

func appendUnique(existing []uuid.UUID, additions ...uuid.UUID) []uuid.UUID {
	for _, a := range additions {
		found := false
		for _, e := range existing {
			if e == a {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, a)
		}
	}
	return existing
}
