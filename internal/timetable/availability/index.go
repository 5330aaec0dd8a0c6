// Package availability implements the Availability Index: precomputed
// per-teacher, per-class, per-room lookups answering "is X free during
// [start,end] on date D?" in constant time relative to the number of
// sessions already placed for that entity.
package availability

import (
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

type placement struct {
	sessionID uuid.UUID
	start     time.Time
	end       time.Time
}

// Index is the in-memory snapshot the planner mutates as it places sessions.
// It is built once per generation run from the persisted state loaded at
// job start and never touches the repository again until the job commits.
type Index struct {
	teachers    map[uuid.UUID]*domain.Teacher
	classGroups map[uuid.UUID]*domain.ClassGroup
	teacherBusy map[uuid.UUID][]placement
	classBusy   map[uuid.UUID][]placement
	roomBusy    map[uuid.UUID][]placement
}

// NewIndex builds an Availability Index from the snapshot tables loaded at
// job start.
func NewIndex(teachers []*domain.Teacher, classGroups []*domain.ClassGroup, existing []*domain.Session) *Index {
	idx := &Index{
		teachers:    make(map[uuid.UUID]*domain.Teacher, len(teachers)),
		classGroups: make(map[uuid.UUID]*domain.ClassGroup, len(classGroups)),
		teacherBusy: make(map[uuid.UUID][]placement),
		classBusy:   make(map[uuid.UUID][]placement),
		roomBusy:    make(map[uuid.UUID][]placement),
	}
	for _, t := range teachers {
		idx.teachers[t.ID()] = t
	}
	for _, c := range classGroups {
		idx.classGroups[c.ID()] = c
	}
	for _, s := range existing {
		idx.Place(s)
	}
	return idx
}

// Place registers a session's footprint in the index.
func (idx *Index) Place(s *domain.Session) {
	p := placement{sessionID: s.ID(), start: s.StartAt(), end: s.EndAt()}
	idx.teacherBusy[s.TeacherID()] = append(idx.teacherBusy[s.TeacherID()], p)
	if s.SecondaryTeacherID() != uuid.Nil {
		idx.teacherBusy[s.SecondaryTeacherID()] = append(idx.teacherBusy[s.SecondaryTeacherID()], p)
	}
	for _, classGroupID := range s.AttendingClassGroups() {
		idx.classBusy[classGroupID] = append(idx.classBusy[classGroupID], p)
	}
	idx.roomBusy[s.RoomID()] = append(idx.roomBusy[s.RoomID()], p)
}

// Remove withdraws a session's footprint from the index, used by the
// Relocation Engine to temporarily free a slot before re-running placement.
func (idx *Index) Remove(s *domain.Session) {
	idx.teacherBusy[s.TeacherID()] = removePlacement(idx.teacherBusy[s.TeacherID()], s.ID())
	if s.SecondaryTeacherID() != uuid.Nil {
		idx.teacherBusy[s.SecondaryTeacherID()] = removePlacement(idx.teacherBusy[s.SecondaryTeacherID()], s.ID())
	}
	for _, classGroupID := range s.AttendingClassGroups() {
		idx.classBusy[classGroupID] = removePlacement(idx.classBusy[classGroupID], s.ID())
	}
	idx.roomBusy[s.RoomID()] = removePlacement(idx.roomBusy[s.RoomID()], s.ID())
}

func removePlacement(placements []placement, sessionID uuid.UUID) []placement {
	out := placements[:0]
	for _, p := range placements {
		if p.sessionID != sessionID {
			out = append(out, p)
		}
	}
	return out
}

// TeacherFree implements domain.AvailabilityChecker.
func (idx *Index) TeacherFree(teacherID uuid.UUID, date, start, end time.Time) bool {
	t, ok := idx.teachers[teacherID]
	if !ok {
		return false
	}
	if !idx.withinWeeklyAvailability(t, start, end) {
		return false
	}
	return !overlapsAny(idx.teacherBusy[teacherID], start, end)
}

// ClassFree implements domain.AvailabilityChecker.
func (idx *Index) ClassFree(classGroupID uuid.UUID, date, start, end time.Time) bool {
	g, ok := idx.classGroups[classGroupID]
	if !ok {
		return false
	}
	if g.IsUnavailableOn(date) {
		return false
	}
	return !overlapsAny(idx.classBusy[classGroupID], start, end)
}

// RoomFree implements domain.AvailabilityChecker.
func (idx *Index) RoomFree(roomID uuid.UUID, date, start, end time.Time, excludingSessionIDs ...uuid.UUID) bool {
	excluded := make(map[uuid.UUID]struct{}, len(excludingSessionIDs))
	for _, id := range excludingSessionIDs {
		excluded[id] = struct{}{}
	}
	for _, p := range idx.roomBusy[roomID] {
		if _, skip := excluded[p.sessionID]; skip {
			continue
		}
		if p.start.Before(end) && p.end.After(start) {
			return false
		}
	}
	return true
}

func overlapsAny(placements []placement, start, end time.Time) bool {
	for _, p := range placements {
		if p.start.Before(end) && p.end.After(start) {
			return true
		}
	}
	return false
}

func (idx *Index) withinWeeklyAvailability(t *domain.Teacher, start, end time.Time) bool {
	weekday := start.Weekday()
	for _, interval := range t.WeeklyAvailability() {
		if interval.Weekday != weekday {
			continue
		}
		intervalStart, ok1 := parseClock(start, interval.StartTime)
		intervalEnd, ok2 := parseClock(start, interval.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if !start.Before(intervalStart) && !end.After(intervalEnd) {
			return true
		}
	}
	return len(t.WeeklyAvailability()) == 0
}

func parseClock(day time.Time, clock string) (time.Time, bool) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), true
}
