package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAvailability struct {
	teacherBusy map[uuid.UUID]bool
	classBusy   map[uuid.UUID]bool
	roomBusy    bool
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{
		teacherBusy: make(map[uuid.UUID]bool),
		classBusy:   make(map[uuid.UUID]bool),
	}
}

func (f *fakeAvailability) TeacherFree(teacherID uuid.UUID, date time.Time, start, end time.Time) bool {
	return !f.teacherBusy[teacherID]
}

func (f *fakeAvailability) ClassFree(classGroupID uuid.UUID, date time.Time, start, end time.Time) bool {
	return !f.classBusy[classGroupID]
}

func (f *fakeAvailability) RoomFree(roomID uuid.UUID, date time.Time, start, end time.Time, excludingSessionIDs ...uuid.UUID) bool {
	return !f.roomBusy
}

func evaluatorTestCandidate() (Candidate, *Course, *Teacher, *ClassGroup, *Room) {
	window := DateRange{
		Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	course := NewCourse(CourseParams{
		Name:               "Algebre",
		SessionType:        SessionTypeCM,
		SessionLengthHours: 2,
		SessionsRequired:   10,
		Window:             window,
		DataScope:          "lycee-a",
	})
	teacher := NewTeacher("M. Dupont", "08:00", "18:00")
	group := NewClassGroup("TS1", 24)
	room := NewRoom("B204", 30, 0)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	return Candidate{
		Course:     course,
		ClassGroup: group,
		Teacher:    teacher,
		Room:       room,
		Date:       date,
		Start:      start,
		End:        end,
	}, course, teacher, group, room
}

func TestEvaluator_Accept(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.True(t, verdict.OK())
}

func TestEvaluator_RejectsOutsideCourseWindow(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()
	candidate.Date = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonWindowOutOfCoursePeriod, verdict.Reason)
}

func TestEvaluator_RejectsClosedDate(t *testing.T) {
	closing := NewClosingPeriod(DateRange{
		Start: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	}, "inset day")
	evaluator := NewEvaluator([]ClosingPeriod{closing}, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonDateClosed, verdict.Reason)
}

func TestEvaluator_RejectsOutsideWorkingWindow(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()
	candidate.Start = time.Date(2026, 9, 7, 12, 30, 0, 0, time.UTC)
	candidate.End = candidate.Start.Add(2 * time.Hour)

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonOutsideWorkingWindow, verdict.Reason)
}

func TestEvaluator_RejectsWeekQuotaReached(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{Limited: true, Remaining: 0})
	assert.Equal(t, ReasonWeekQuotaReached, verdict.Reason)
}

func TestEvaluator_RejectsTeacherUnavailable(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, teacher, _, _ := evaluatorTestCandidate()
	teacher.AddUnavailableRange(DateRange{Start: candidate.Date, End: candidate.Date})

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonTeacherUnavailable, verdict.Reason)
}

func TestEvaluator_RejectsTeacherBusy(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, teacher, _, _ := evaluatorTestCandidate()
	availability := newFakeAvailability()
	availability.teacherBusy[teacher.ID()] = true

	verdict := evaluator.Evaluate(candidate, availability, WeekQuota{})
	assert.Equal(t, ReasonTeacherBusy, verdict.Reason)
}

func TestEvaluator_RejectsClassBusy(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, group, _ := evaluatorTestCandidate()
	availability := newFakeAvailability()
	availability.classBusy[group.ID()] = true

	verdict := evaluator.Evaluate(candidate, availability, WeekQuota{})
	assert.Equal(t, ReasonClassBusy, verdict.Reason)
}

func TestEvaluator_RejectsRoomBusy(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()
	availability := newFakeAvailability()
	availability.roomBusy = true

	verdict := evaluator.Evaluate(candidate, availability, WeekQuota{})
	assert.Equal(t, ReasonRoomBusy, verdict.Reason)
}

func TestEvaluator_RejectsCapacityInsufficient(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, room := evaluatorTestCandidate()
	_ = room
	candidate.Room = NewRoom("small room", 5, 0)

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonCapacityInsufficient, verdict.Reason)
}

func TestEvaluator_RejectsComputersInsufficient(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, course, _, _, _ := evaluatorTestCandidate()
	_ = course
	candidate.Course = NewCourse(CourseParams{
		Name:               "Info",
		SessionType:        SessionTypeTP,
		SessionLengthHours: 2,
		SessionsRequired:   5,
		Window:             candidate.Course.Window(),
		ComputersRequired:  15,
		DataScope:          "lycee-a",
	})

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonComputersInsufficient, verdict.Reason)
}

func TestEvaluator_RejectsEquipmentMissing(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, _, _ := evaluatorTestCandidate()
	candidate.Course = NewCourse(CourseParams{
		Name:               "Chimie",
		SessionType:        SessionTypeTP,
		SessionLengthHours: 2,
		SessionsRequired:   5,
		Window:             candidate.Course.Window(),
		RequiredEquipment:  []string{"fume-hood"},
		DataScope:          "lycee-a",
	})

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonEquipmentMissing, verdict.Reason)
}

func TestEvaluator_AttendingGroupsAggregateSeats(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, group, _ := evaluatorTestCandidate()
	second := NewClassGroup("TS2", 20)
	candidate.AttendingGroups = []*ClassGroup{group, second}
	candidate.Room = NewRoom("amphi", 40, 0)

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.Equal(t, ReasonCapacityInsufficient, verdict.Reason, "24+20=44 seats exceed the 40-seat room")
}

func TestEvaluator_SubgroupUsesHalfCapacity(t *testing.T) {
	evaluator := NewEvaluator(nil, DefaultWorkingWindows())
	candidate, _, _, group, _ := evaluatorTestCandidate()
	candidate.Subgroup = SubgroupA
	candidate.Room = NewRoom("small room", group.SubgroupSize(), 0)

	verdict := evaluator.Evaluate(candidate, newFakeAvailability(), WeekQuota{})
	assert.True(t, verdict.OK())
}
