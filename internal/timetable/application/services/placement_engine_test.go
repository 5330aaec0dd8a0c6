package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/availability"
	"github.com/felixgeelhaar/schedgen/internal/timetable/calendar"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planningTestWindow() domain.DateRange {
	return domain.DateRange{
		Start: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newPlanningContext(t *testing.T, teacher *domain.Teacher, group *domain.ClassGroup, room *domain.Room, courseID uuid.UUID) *PlanningContext {
	t.Helper()
	idx := availability.NewIndex([]*domain.Teacher{teacher}, []*domain.ClassGroup{group}, nil)
	return &PlanningContext{
		Calendar:        calendar.NewModel(),
		Availability:    idx,
		Evaluator:       domain.NewEvaluator(nil, domain.DefaultWorkingWindows()),
		Rooms:           []*domain.Room{room},
		Teachers:        map[uuid.UUID]*domain.Teacher{teacher.ID(): teacher},
		ClassGroups:     map[uuid.UUID]*domain.ClassGroup{group.ID(): group},
		LinkedTeachers:  map[uuid.UUID][]uuid.UUID{courseID: {teacher.ID()}},
		LastTeacherUsed: make(map[SeriesKey]uuid.UUID),
	}
}

func TestPlacementEngine_PlacesFirstAvailableSlot(t *testing.T) {
	teacher := domain.NewTeacher("M. Dupont", "08:00", "18:00")
	group := domain.NewClassGroup("TS1", 24)
	room := domain.NewRoom("B204", 30, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Algebre",
		SessionType:        domain.SessionTypeTD,
		SessionLengthHours: 1,
		SessionsRequired:   1,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})
	ctx := newPlanningContext(t, teacher, group, room, course.ID())
	req := domain.NewTDRequest(course.ID(), group.ID(), time.Hour, teacher.ID())

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	require.NotNil(t, result.Session)
	assert.Equal(t, time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), result.Session.StartAt())
	assert.Equal(t, teacher.ID(), result.Session.TeacherID())
	assert.Equal(t, room.ID(), result.Session.RoomID())
}

func TestPlacementEngine_SkipsBusySlotToNextOne(t *testing.T) {
	teacher := domain.NewTeacher("M. Dupont", "08:00", "18:00")
	group := domain.NewClassGroup("TS1", 24)
	room := domain.NewRoom("B204", 30, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Algebre",
		SessionType:        domain.SessionTypeTD,
		SessionLengthHours: 1,
		SessionsRequired:   1,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})
	ctx := newPlanningContext(t, teacher, group, room, course.ID())

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	busyStart := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	existing := domain.NewSession(uuid.New(), group.ID(), "", domain.SessionTypeTD, teacher.ID(), room.ID(), busyStart, busyStart.Add(time.Hour))
	ctx.Availability.Place(existing)

	req := domain.NewTDRequest(course.ID(), group.ID(), time.Hour, teacher.ID())
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	require.NotNil(t, result.Session)
	assert.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), result.Session.StartAt())
}

func TestPlacementEngine_NoRoomMeetingCapacityFailsWithoutSession(t *testing.T) {
	teacher := domain.NewTeacher("M. Dupont", "08:00", "18:00")
	group := domain.NewClassGroup("TS1", 24)
	room := domain.NewRoom("tiny room", 2, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Algebre",
		SessionType:        domain.SessionTypeTD,
		SessionLengthHours: 1,
		SessionsRequired:   1,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})
	ctx := newPlanningContext(t, teacher, group, room, course.ID())
	req := domain.NewTDRequest(course.ID(), group.ID(), time.Hour, teacher.ID())

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	assert.Nil(t, result.Session, "the only room is pre-filtered out by capacity before any candidate is evaluated")
}

func TestPlacementEngine_RejectionReasonComesFromTheEvaluator(t *testing.T) {
	teacher := domain.NewTeacher("M. Dupont", "08:00", "18:00")
	teacher.AddUnavailableRange(domain.DateRange{
		Start: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	group := domain.NewClassGroup("TS1", 24)
	room := domain.NewRoom("B204", 30, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Algebre",
		SessionType:        domain.SessionTypeTD,
		SessionLengthHours: 1,
		SessionsRequired:   1,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})
	ctx := newPlanningContext(t, teacher, group, room, course.ID())
	req := domain.NewTDRequest(course.ID(), group.ID(), time.Hour, teacher.ID())

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	assert.Nil(t, result.Session)
	assert.Equal(t, domain.ReasonTeacherUnavailable, result.Reason)
}

func TestPlacementEngine_PrefersLastTeacherUsedForContinuity(t *testing.T) {
	teacherA := domain.NewTeacher("A", "08:00", "18:00")
	teacherB := domain.NewTeacher("B", "08:00", "18:00")
	group := domain.NewClassGroup("TS1", 24)
	room := domain.NewRoom("B204", 30, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Algebre",
		SessionType:        domain.SessionTypeTD,
		SessionLengthHours: 1,
		SessionsRequired:   2,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})

	idx := availability.NewIndex([]*domain.Teacher{teacherA, teacherB}, []*domain.ClassGroup{group}, nil)
	ctx := &PlanningContext{
		Calendar:        calendar.NewModel(),
		Availability:    idx,
		Evaluator:       domain.NewEvaluator(nil, domain.DefaultWorkingWindows()),
		Rooms:           []*domain.Room{room},
		Teachers:        map[uuid.UUID]*domain.Teacher{teacherA.ID(): teacherA, teacherB.ID(): teacherB},
		ClassGroups:     map[uuid.UUID]*domain.ClassGroup{group.ID(): group},
		LinkedTeachers:  map[uuid.UUID][]uuid.UUID{course.ID(): {teacherA.ID(), teacherB.ID()}},
		LastTeacherUsed: make(map[SeriesKey]uuid.UUID),
	}

	req := domain.NewTDRequest(course.ID(), group.ID(), time.Hour, teacherB.ID())
	ctx.LastTeacherUsed[seriesKeyOf(req)] = teacherA.ID()

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	require.NotNil(t, result.Session)
	assert.Equal(t, teacherA.ID(), result.Session.TeacherID(), "continuity takes priority over the request's preferred teacher")
}

func TestPlacementEngine_PlacesCMJointlyAcrossAttendingGroups(t *testing.T) {
	teacher := domain.NewTeacher("M. Dupont", "08:00", "18:00")
	groupA := domain.NewClassGroup("TS1", 24)
	groupB := domain.NewClassGroup("TS2", 20)
	room := domain.NewRoom("amphi", 50, 0)
	course := domain.NewCourse(domain.CourseParams{
		Name:               "Conference",
		SessionType:        domain.SessionTypeCM,
		SessionLengthHours: 2,
		SessionsRequired:   1,
		Window:             planningTestWindow(),
		DataScope:          "lycee-a",
	})

	idx := availability.NewIndex([]*domain.Teacher{teacher}, []*domain.ClassGroup{groupA, groupB}, nil)
	ctx := &PlanningContext{
		Calendar:        calendar.NewModel(),
		Availability:    idx,
		Evaluator:       domain.NewEvaluator(nil, domain.DefaultWorkingWindows()),
		Rooms:           []*domain.Room{room},
		Teachers:        map[uuid.UUID]*domain.Teacher{teacher.ID(): teacher},
		ClassGroups:     map[uuid.UUID]*domain.ClassGroup{groupA.ID(): groupA, groupB.ID(): groupB},
		LinkedTeachers:  map[uuid.UUID][]uuid.UUID{course.ID(): {teacher.ID()}},
		LastTeacherUsed: make(map[SeriesKey]uuid.UUID),
	}

	req := domain.NewCMRequest(course.ID(), []uuid.UUID{groupA.ID(), groupB.ID()}, 2*time.Hour, teacher.ID())
	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := NewPlacementEngine()
	result := engine.Place(ctx, req, week, course, nil, domain.WeekQuota{})

	require.NotNil(t, result.Session)
	assert.ElementsMatch(t, []uuid.UUID{groupA.ID(), groupB.ID()}, result.Session.AttendingClassGroups())
}
