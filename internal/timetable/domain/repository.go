package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseRepository reads course definitions and their links, scoped by
// data scope (the unit of serialization for concurrent generation jobs).
type CourseRepository interface {
	ListCourses(ctx context.Context, scope string) ([]*Course, error)
	ListClassLinks(ctx context.Context, courseID uuid.UUID) ([]*CourseClassLink, error)
}

// TeacherRepository reads teacher availability.
type TeacherRepository interface {
	ListTeachers(ctx context.Context) ([]*Teacher, error)
	GetTeacher(ctx context.Context, id uuid.UUID) (*Teacher, error)
}

// ClassGroupRepository reads class group availability.
type ClassGroupRepository interface {
	ListClassGroups(ctx context.Context) ([]*ClassGroup, error)
	GetClassGroup(ctx context.Context, id uuid.UUID) (*ClassGroup, error)
}

// RoomRepository reads room capacity and resources.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]*Room, error)
}

// ClosingPeriodRepository reads globally excluded calendar ranges.
type ClosingPeriodRepository interface {
	ListClosingPeriods(ctx context.Context, scope string) ([]ClosingPeriod, error)
}

// SessionRepository reads prior placements and persists new ones.
type SessionRepository interface {
	ExistingSessions(ctx context.Context, courseID uuid.UUID) ([]*Session, error)
	PersistSession(ctx context.Context, session *Session) error
	AllowedWeeks(ctx context.Context, courseID uuid.UUID) ([]AllowedWeek, error)
}

// ScheduleLog is an audit record of one generation run against one course.
type ScheduleLog struct {
	CourseID    uuid.UUID
	Status      string // success, partial, failed
	Summary     string
	Messages    []string
	WindowStart time.Time
	WindowEnd   time.Time
	CreatedAt   time.Time
}

// ScheduleLogRepository persists generation-run audit records.
type ScheduleLogRepository interface {
	PersistScheduleLog(ctx context.Context, log ScheduleLog) error
}
