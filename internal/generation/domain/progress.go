package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlacedRow is one line of the "this week's placed sessions" table the
// Progress Sink publishes.
type PlacedRow struct {
	CourseName   string
	ClassLabel   string
	Subgroup     string
	TeacherName  string
	Start        time.Time
	End          time.Time
	Type         string
}

// Snapshot is an immutable view of a job's progress at one instant.
// Callers receive a copy; mutating it has no effect on the sink.
type Snapshot struct {
	JobID          uuid.UUID
	State          JobState
	TotalExpected  int
	Placed         int
	CurrentWeek    string
	ThisWeekRows   []PlacedRow
	Percent        float64
	ETA            time.Duration
	FailureMessage string
}

// Copy returns a deep copy safe for the caller to mutate.
func (s Snapshot) Copy() Snapshot {
	rows := make([]PlacedRow, len(s.ThisWeekRows))
	copy(rows, s.ThisWeekRows)
	s.ThisWeekRows = rows
	return s
}
