package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Session"

	RoutingKeySessionPlaced     = "timetable.session.placed"
	RoutingKeySessionRelocated  = "timetable.session.relocated"
	RoutingKeyRequestAbandoned  = "timetable.request.abandoned"
	RoutingKeyGenerationDone    = "timetable.generation.completed"
)

// SessionPlaced is emitted whenever the Placement Engine successfully places a session.
type SessionPlaced struct {
	sharedDomain.BaseEvent
	SessionID    uuid.UUID   `json:"session_id"`
	CourseID     uuid.UUID   `json:"course_id"`
	ClassGroupID uuid.UUID   `json:"class_group_id"`
	TeacherID    uuid.UUID   `json:"teacher_id"`
	RoomID       uuid.UUID   `json:"room_id"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
}

// NewSessionPlaced creates a SessionPlaced event.
func NewSessionPlaced(session *Session) SessionPlaced {
	return SessionPlaced{
		BaseEvent:    sharedDomain.NewBaseEvent(session.ID(), AggregateType, RoutingKeySessionPlaced),
		SessionID:    session.ID(),
		CourseID:     session.CourseID(),
		ClassGroupID: session.ClassGroupID(),
		TeacherID:    session.TeacherID(),
		RoomID:       session.RoomID(),
		StartAt:      session.StartAt(),
		EndAt:        session.EndAt(),
	}
}

// SessionRelocated is emitted when the Relocation Engine moves a previously
// placed session to make room for a new request.
type SessionRelocated struct {
	sharedDomain.BaseEvent
	SessionID  uuid.UUID `json:"session_id"`
	OldStartAt time.Time `json:"old_start_at"`
	OldEndAt   time.Time `json:"old_end_at"`
	NewStartAt time.Time `json:"new_start_at"`
	NewEndAt   time.Time `json:"new_end_at"`
}

// NewSessionRelocated creates a SessionRelocated event.
func NewSessionRelocated(sessionID uuid.UUID, oldStart, oldEnd, newStart, newEnd time.Time) SessionRelocated {
	return SessionRelocated{
		BaseEvent:  sharedDomain.NewBaseEvent(sessionID, AggregateType, RoutingKeySessionRelocated),
		SessionID:  sessionID,
		OldStartAt: oldStart,
		OldEndAt:   oldEnd,
		NewStartAt: newStart,
		NewEndAt:   newEnd,
	}
}

// RequestAbandoned is emitted when a request could not be placed by the end
// of the planning window.
type RequestAbandoned struct {
	sharedDomain.BaseEvent
	CourseID     uuid.UUID    `json:"course_id"`
	ClassGroupID uuid.UUID    `json:"class_group_id"`
	Kind         SessionType  `json:"kind"`
	Reason       RejectReason `json:"reason"`
}

// NewRequestAbandoned creates a RequestAbandoned event from a planning
// failure's course and class-group ids.
func NewRequestAbandoned(courseID, classGroupID uuid.UUID, kind SessionType, reason RejectReason) RequestAbandoned {
	return RequestAbandoned{
		BaseEvent:    sharedDomain.NewBaseEvent(courseID, AggregateType, RoutingKeyRequestAbandoned),
		CourseID:     courseID,
		ClassGroupID: classGroupID,
		Kind:         kind,
		Reason:       reason,
	}
}

// GenerationCompleted is emitted once a job finishes planning, successfully
// or not.
type GenerationCompleted struct {
	sharedDomain.BaseEvent
	JobID          uuid.UUID `json:"job_id"`
	PlacedCount    int       `json:"placed_count"`
	AbandonedCount int       `json:"abandoned_count"`
}

// NewGenerationCompleted creates a GenerationCompleted event.
func NewGenerationCompleted(jobID uuid.UUID, placedCount, abandonedCount int) GenerationCompleted {
	return GenerationCompleted{
		BaseEvent:      sharedDomain.NewBaseEvent(jobID, AggregateType, RoutingKeyGenerationDone),
		JobID:          jobID,
		PlacedCount:    placedCount,
		AbandonedCount: abandonedCount,
	}
}
