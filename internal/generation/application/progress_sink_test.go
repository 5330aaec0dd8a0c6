package application

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProgressSink_InitialState(t *testing.T) {
	sink := NewProgressSink(uuid.New(), 10)
	snap := sink.Snapshot()

	assert.Equal(t, domain.JobQueued, snap.State)
	assert.Equal(t, 10, snap.TotalExpected)
	assert.Zero(t, snap.Placed)
}

func TestProgressSink_SessionPlacedUpdatesPercent(t *testing.T) {
	sink := NewProgressSink(uuid.New(), 4)
	sink.Start()

	sink.WeekStarted("week of 2026-09-07", 0, 40)
	now := time.Now()
	sink.SessionPlaced(domain.PlacedRow{CourseName: "Algebra", Start: now, End: now.Add(time.Hour)})

	snap := sink.Snapshot()
	assert.Equal(t, domain.JobRunning, snap.State)
	assert.Equal(t, 1, snap.Placed)
	assert.Equal(t, "week of 2026-09-07", snap.CurrentWeek)
	assert.Equal(t, 25.0, snap.Percent)
	assert.Len(t, snap.ThisWeekRows, 1)
}

func TestProgressSink_WeekStartedClearsRows(t *testing.T) {
	sink := NewProgressSink(uuid.New(), 2)
	sink.Start()
	sink.SessionPlaced(domain.PlacedRow{CourseName: "Algebra"})

	sink.WeekStarted("next week", 1, 40)
	snap := sink.Snapshot()
	assert.Empty(t, snap.ThisWeekRows)
	assert.Equal(t, 1, snap.Placed) // the running total is not reset
}

func TestProgressSink_Finish(t *testing.T) {
	sink := NewProgressSink(uuid.New(), 1)
	sink.Start()
	sink.Finish(domain.JobFailed, "no teacher available")

	snap := sink.Snapshot()
	assert.Equal(t, domain.JobFailed, snap.State)
	assert.Equal(t, "no teacher available", snap.FailureMessage)
	assert.Zero(t, snap.ETA)
}

func TestProgressSink_CopyIsIndependent(t *testing.T) {
	sink := NewProgressSink(uuid.New(), 1)
	sink.Start()
	sink.SessionPlaced(domain.PlacedRow{CourseName: "Algebra"})

	snap := sink.Snapshot()
	snap.ThisWeekRows[0].CourseName = "mutated"

	fresh := sink.Snapshot()
	assert.Equal(t, "Algebra", fresh.ThisWeekRows[0].CourseName)
}
