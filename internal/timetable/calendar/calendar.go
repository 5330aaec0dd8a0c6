// Package calendar implements the Calendar Model: enumeration of working
// weeks, working days, and canonical time slots within a planning window.
package calendar

import (
	"time"

	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/teambition/rrule-go"
)

// Model enumerates the calendar structure the planner iterates over.
type Model struct {
	windows []domain.WorkingWindow
}

// NewModel creates a Calendar Model using the canonical working windows.
func NewModel() *Model {
	return &Model{windows: domain.DefaultWorkingWindows()}
}

// WeeksIn returns the ordered sequence of week-starts (Monday) intersecting
// window, excluding weeks whose every weekday is closed.
func (m *Model) WeeksIn(window domain.DateRange, closings []domain.ClosingPeriod) ([]time.Time, error) {
	start := mondayOf(window.Start)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.MO},
		Dtstart: start,
	})
	if err != nil {
		return nil, err
	}

	var weeks []time.Time
	for _, weekStart := range rule.Between(start, window.End, true) {
		if m.anyWorkingDay(weekStart, closings) {
			weeks = append(weeks, weekStart)
		}
	}
	return weeks, nil
}

// WorkingDays returns the subset of {Mon..Fri} of week not excluded by any
// closing period.
func (m *Model) WorkingDays(week time.Time, closings []domain.ClosingPeriod) []time.Time {
	var days []time.Time
	for i := 0; i < 5; i++ {
		day := week.AddDate(0, 0, i)
		if m.isClosed(day, closings) {
			continue
		}
		days = append(days, day)
	}
	return days
}

// Slots returns the deterministic, earliest-first ordered sequence of
// (start, end) pairs of length duration available on day.
func (m *Model) Slots(day time.Time, duration time.Duration) []domain.TimeSlot {
	var slots []domain.TimeSlot
	for _, w := range m.windows {
		slots = append(slots, w.Slots(day, duration)...)
	}
	return slots
}

func (m *Model) anyWorkingDay(week time.Time, closings []domain.ClosingPeriod) bool {
	return len(m.WorkingDays(week, closings)) > 0
}

func (m *Model) isClosed(day time.Time, closings []domain.ClosingPeriod) bool {
	for _, cp := range closings {
		if cp.Range.Contains(day) {
			return true
		}
	}
	return false
}

func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	offset := weekday - 1
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}
