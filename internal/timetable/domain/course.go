package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// SessionType is the pedagogical type tag of a course, which drives both
// placement priority and which engines may act on its sessions.
type SessionType string

const (
	SessionTypeCM   SessionType = "CM"
	SessionTypeSAE  SessionType = "SAE"
	SessionTypeEval SessionType = "Eval"
	SessionTypeTD   SessionType = "TD"
	SessionTypeTP   SessionType = "TP"
)

// typePriority orders session types for the weekly planner's composite sort
// key: CM < SAE < Eval < TD < TP (CM first).
var typePriority = map[SessionType]int{
	SessionTypeCM:   0,
	SessionTypeSAE:  1,
	SessionTypeEval: 2,
	SessionTypeTD:   3,
	SessionTypeTP:   4,
}

// Priority returns the fixed placement-order rank of the session type.
func (t SessionType) Priority() int { return typePriority[t] }

// Relocatable reports whether sessions of this type may be moved by the
// Relocation Engine. Per design, only TD and TP are ever reshuffled.
func (t SessionType) Relocatable() bool {
	return t == SessionTypeTD || t == SessionTypeTP
}

// Course is the unit of demand the generation engine places into the calendar.
type Course struct {
	sharedDomain.BaseEntity
	name                 string
	sessionType          SessionType
	sessionLengthHours   float64
	sessionsRequired     int
	window               DateRange
	priority             int
	requiredEquipment    []string
	requiredSoftware     []string
	computersRequired    int
	dataScope            string
}

// CourseParams groups the constructor arguments for Course.
type CourseParams struct {
	Name               string
	SessionType        SessionType
	SessionLengthHours float64
	SessionsRequired   int
	Window             DateRange
	Priority           int
	RequiredEquipment  []string
	RequiredSoftware   []string
	ComputersRequired  int
	DataScope          string
}

// NewCourse creates a new course.
func NewCourse(p CourseParams) *Course {
	return &Course{
		BaseEntity:         sharedDomain.NewBaseEntity(),
		name:               p.Name,
		sessionType:        p.SessionType,
		sessionLengthHours: p.SessionLengthHours,
		sessionsRequired:   p.SessionsRequired,
		window:             p.Window,
		priority:           p.Priority,
		requiredEquipment:  p.RequiredEquipment,
		requiredSoftware:   p.RequiredSoftware,
		computersRequired:  p.ComputersRequired,
		dataScope:          p.DataScope,
	}
}

// RehydrateCourse reconstructs a course from persisted state.
func RehydrateCourse(id uuid.UUID, p CourseParams, createdAt, updatedAt time.Time) *Course {
	c := NewCourse(p)
	c.BaseEntity = sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return c
}

func (c *Course) Name() string                    { return c.name }
func (c *Course) SessionType() SessionType         { return c.sessionType }
func (c *Course) SessionLengthHours() float64      { return c.sessionLengthHours }
func (c *Course) SessionsRequired() int            { return c.sessionsRequired }
func (c *Course) Window() DateRange                { return c.window }
func (c *Course) Priority() int                    { return c.priority }
func (c *Course) RequiredEquipment() []string      { return c.requiredEquipment }
func (c *Course) RequiredSoftware() []string       { return c.requiredSoftware }
func (c *Course) ComputersRequired() int           { return c.computersRequired }
func (c *Course) DataScope() string                { return c.dataScope }

// SessionDuration is the canonical Go duration for one session.
func (c *Course) SessionDuration() time.Duration {
	return time.Duration(c.sessionLengthHours * float64(time.Hour))
}
