package application

import (
	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// ReporterAdapter implements services.ProgressReporter, translating
// placement events into the PlacedRow shape the Progress Sink publishes.
// It holds read-only name lookups so rows carry human-readable labels
// instead of raw ids.
type ReporterAdapter struct {
	sink        *ProgressSink
	courses     map[uuid.UUID]*domain.Course
	classGroups map[uuid.UUID]*domain.ClassGroup
	teachers    map[uuid.UUID]*domain.Teacher
}

// NewReporterAdapter creates an adapter over sink using the given lookup
// tables, built once from the same snapshot the planner plans against.
func NewReporterAdapter(sink *ProgressSink, courses map[uuid.UUID]*domain.Course, classGroups map[uuid.UUID]*domain.ClassGroup, teachers map[uuid.UUID]*domain.Teacher) *ReporterAdapter {
	return &ReporterAdapter{sink: sink, courses: courses, classGroups: classGroups, teachers: teachers}
}

// WeekStarted implements services.ProgressReporter.
func (a *ReporterAdapter) WeekStarted(label string, weekIndex, totalWeeks int) {
	a.sink.WeekStarted(label, weekIndex, totalWeeks)
}

// SessionPlaced implements services.ProgressReporter.
func (a *ReporterAdapter) SessionPlaced(session *domain.Session, course *domain.Course) {
	row := sessionPlacedRow(session, course, a.classGroups, a.teachers)
	a.sink.SessionPlaced(row)
}

// RequestAbandoned implements services.ProgressReporter.
func (a *ReporterAdapter) RequestAbandoned(courseID uuid.UUID, req domain.SessionRequest, reason domain.RejectReason) {
	a.sink.RequestAbandoned()
}

func sessionPlacedRow(session *domain.Session, course *domain.Course, classGroups map[uuid.UUID]*domain.ClassGroup, teachers map[uuid.UUID]*domain.Teacher) genDomain.PlacedRow {
	row := genDomain.PlacedRow{
		CourseName: course.Name(),
		Subgroup:   string(session.SubgroupLabel()),
		Start:      session.StartAt(),
		End:        session.EndAt(),
		Type:       string(course.SessionType()),
	}
	if g, ok := classGroups[session.ClassGroupID()]; ok {
		row.ClassLabel = g.Name()
	}
	if t, ok := teachers[session.TeacherID()]; ok {
		row.TeacherName = t.Name()
	}
	return row
}
