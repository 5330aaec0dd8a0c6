package domain

import "time"

// WorkingWindow is one of the four canonical daily intervals inside which
// sessions may start: 08:00-10:00, 10:15-12:15, 13:30-15:30, 15:45-17:45.
type WorkingWindow struct {
	StartHour, StartMinute int
	EndHour, EndMinute     int
}

// DefaultWorkingWindows returns the four canonical working windows.
func DefaultWorkingWindows() []WorkingWindow {
	return []WorkingWindow{
		{StartHour: 8, StartMinute: 0, EndHour: 10, EndMinute: 0},
		{StartHour: 10, StartMinute: 15, EndHour: 12, EndMinute: 15},
		{StartHour: 13, StartMinute: 30, EndHour: 15, EndMinute: 30},
		{StartHour: 15, StartMinute: 45, EndHour: 17, EndMinute: 45},
	}
}

func (w WorkingWindow) startOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, w.StartMinute, 0, 0, day.Location())
}

func (w WorkingWindow) endOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), w.EndHour, w.EndMinute, 0, 0, day.Location())
}

// Slots returns the ordered, earliest-first sequence of (start, end) pairs
// of length duration whose start coincides with the window start and whose
// end does not exceed the window end.
func (w WorkingWindow) Slots(day time.Time, duration time.Duration) []TimeSlot {
	start := w.startOn(day)
	end := w.endOn(day)
	var slots []TimeSlot
	for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(duration) {
		slots = append(slots, TimeSlot{Start: cursor, End: cursor.Add(duration)})
	}
	return slots
}

// TimeSlot is a canonical (start-time, duration) pair.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}
