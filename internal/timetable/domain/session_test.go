package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewSession_AttendingClassGroupsDefaultsToOwnGroup(t *testing.T) {
	courseID, classID, teacherID, roomID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	start := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	session := NewSession(courseID, classID, "", SessionTypeTD, teacherID, roomID, start, end)

	assert.Equal(t, []uuid.UUID{classID}, session.AttendingClassGroups())
	assert.Equal(t, courseID, session.CourseID())
	assert.Equal(t, start, session.Date())
}

func TestSession_AddAttendingClassGroupDeduplicates(t *testing.T) {
	classID := uuid.New()
	session := NewSession(uuid.New(), classID, "", SessionTypeTD, uuid.New(), uuid.New(), time.Now(), time.Now().Add(time.Hour))

	other := uuid.New()
	session.AddAttendingClassGroup(other)
	session.AddAttendingClassGroup(other)
	session.AddAttendingClassGroup(classID)

	assert.Len(t, session.AttendingClassGroups(), 2)
}

func TestSession_OverlapsWith(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	a := NewSession(uuid.New(), uuid.New(), "", SessionTypeTD, uuid.New(), uuid.New(), base, base.Add(time.Hour))
	b := NewSession(uuid.New(), uuid.New(), "", SessionTypeTD, uuid.New(), uuid.New(), base.Add(30*time.Minute), base.Add(90*time.Minute))
	c := NewSession(uuid.New(), uuid.New(), "", SessionTypeTD, uuid.New(), uuid.New(), base.Add(time.Hour), base.Add(2*time.Hour))

	assert.True(t, a.OverlapsWith(b))
	assert.False(t, a.OverlapsWith(c), "back-to-back sessions do not overlap")
}

func TestSession_RescheduleAndSetRoom(t *testing.T) {
	session := NewSession(uuid.New(), uuid.New(), "", SessionTypeTD, uuid.New(), uuid.New(), time.Now(), time.Now().Add(time.Hour))
	newStart := time.Date(2026, 9, 14, 10, 15, 0, 0, time.UTC)
	newEnd := newStart.Add(time.Hour)
	newRoom := uuid.New()

	session.Reschedule(newStart, newEnd)
	session.SetRoom(newRoom)

	assert.Equal(t, newStart, session.StartAt())
	assert.Equal(t, newEnd, session.EndAt())
	assert.Equal(t, newRoom, session.RoomID())
}

func TestRehydrateSession_EmptyAttendingGroupsDefaults(t *testing.T) {
	id, courseID, classID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	session := RehydrateSession(id, courseID, classID, SubgroupA, SessionTypeTP, uuid.New(), uuid.Nil, uuid.New(),
		now, now.Add(time.Hour), nil, now, now)

	assert.Equal(t, []uuid.UUID{classID}, session.AttendingClassGroups())
	assert.Equal(t, SubgroupA, session.SubgroupLabel())
}
