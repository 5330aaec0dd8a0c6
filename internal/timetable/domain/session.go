package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// Session is a placed occurrence of a course for one class group (and,
// when split, one subgroup).
type Session struct {
	sharedDomain.BaseEntity
	courseID             uuid.UUID
	classGroupID         uuid.UUID
	subgroupLabel        SubgroupLabel
	kind                 SessionType
	teacherID            uuid.UUID
	secondaryTeacherID   uuid.UUID // set for SAE sessions
	roomID               uuid.UUID
	startAt              time.Time
	endAt                time.Time
	attendingClassGroups []uuid.UUID // CM sessions attend jointly; always includes classGroupID
}

// NewSession creates a new placed session. kind is the owning course's
// SessionType, carried onto the session itself so later passes (relocation
// eligibility, idempotent recount) don't have to infer it.
func NewSession(courseID, classGroupID uuid.UUID, subgroupLabel SubgroupLabel, kind SessionType, teacherID, roomID uuid.UUID, startAt, endAt time.Time) *Session {
	return &Session{
		BaseEntity:           sharedDomain.NewBaseEntity(),
		courseID:             courseID,
		classGroupID:         classGroupID,
		subgroupLabel:        subgroupLabel,
		kind:                 kind,
		teacherID:            teacherID,
		roomID:               roomID,
		startAt:              startAt,
		endAt:                endAt,
		attendingClassGroups: []uuid.UUID{classGroupID},
	}
}

// RehydrateSession reconstructs a session from persisted state.
func RehydrateSession(
	id, courseID, classGroupID uuid.UUID,
	subgroupLabel SubgroupLabel,
	kind SessionType,
	teacherID, secondaryTeacherID, roomID uuid.UUID,
	startAt, endAt time.Time,
	attendingClassGroups []uuid.UUID,
	createdAt, updatedAt time.Time,
) *Session {
	if len(attendingClassGroups) == 0 {
		attendingClassGroups = []uuid.UUID{classGroupID}
	}
	return &Session{
		BaseEntity:           sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		courseID:             courseID,
		classGroupID:         classGroupID,
		subgroupLabel:        subgroupLabel,
		kind:                 kind,
		teacherID:            teacherID,
		secondaryTeacherID:   secondaryTeacherID,
		roomID:               roomID,
		startAt:              startAt,
		endAt:                endAt,
		attendingClassGroups: attendingClassGroups,
	}
}

func (s *Session) CourseID() uuid.UUID              { return s.courseID }
func (s *Session) ClassGroupID() uuid.UUID          { return s.classGroupID }
func (s *Session) SubgroupLabel() SubgroupLabel     { return s.subgroupLabel }
func (s *Session) Kind() SessionType                { return s.kind }
func (s *Session) TeacherID() uuid.UUID             { return s.teacherID }
func (s *Session) SecondaryTeacherID() uuid.UUID    { return s.secondaryTeacherID }
func (s *Session) RoomID() uuid.UUID                { return s.roomID }
func (s *Session) StartAt() time.Time               { return s.startAt }
func (s *Session) EndAt() time.Time                 { return s.endAt }
func (s *Session) AttendingClassGroups() []uuid.UUID { return s.attendingClassGroups }

// SetSecondaryTeacher records the second teacher of an SAE session.
func (s *Session) SetSecondaryTeacher(teacherID uuid.UUID) {
	s.secondaryTeacherID = teacherID
	s.Touch()
}

// AddAttendingClassGroup registers an additional class group attending a CM session.
func (s *Session) AddAttendingClassGroup(classGroupID uuid.UUID) {
	for _, existing := range s.attendingClassGroups {
		if existing == classGroupID {
			return
		}
	}
	s.attendingClassGroups = append(s.attendingClassGroups, classGroupID)
	s.Touch()
}

// Reschedule moves the session to a new slot, used by the Relocation Engine.
func (s *Session) Reschedule(startAt, endAt time.Time) {
	s.startAt = startAt
	s.endAt = endAt
	s.Touch()
}

// SetRoom moves the session to a different room, used by the Relocation Engine
// when the slot freed for the displaced session is in another room.
func (s *Session) SetRoom(roomID uuid.UUID) {
	s.roomID = roomID
	s.Touch()
}

// OverlapsWith reports whether two sessions' time intervals intersect.
func (s *Session) OverlapsWith(other *Session) bool {
	return s.startAt.Before(other.endAt) && s.endAt.After(other.startAt)
}

// Date returns the calendar date the session falls on.
func (s *Session) Date() time.Time {
	return truncateToDate(s.startAt)
}
