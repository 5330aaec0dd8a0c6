// Package application hosts the Job Runner and Progress Sink: the
// generation bounded context's orchestration layer between the HTTP
// surface and the timetable planning engines.
package application

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/google/uuid"
)

// ProgressSink is a thread-safe counter and snapshot publisher updated by
// the planner as a job runs. Readers always get an immutable copy.
type ProgressSink struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	jobStart time.Time
}

// NewProgressSink creates a sink in the queued state for jobID, expecting
// totalExpected sessions overall.
func NewProgressSink(jobID uuid.UUID, totalExpected int) *ProgressSink {
	return &ProgressSink{
		snapshot: domain.Snapshot{
			JobID:         jobID,
			State:         domain.JobQueued,
			TotalExpected: totalExpected,
		},
	}
}

// Start marks the sink running and records the start time ETA is
// extrapolated from.
func (s *ProgressSink) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobStart = time.Now()
	s.snapshot.State = domain.JobRunning
}

// WeekStarted updates the current-week label and clears this week's row
// table; ReporterAdapter forwards services.ProgressReporter.WeekStarted here.
func (s *ProgressSink) WeekStarted(label string, weekIndex, totalWeeks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.CurrentWeek = label
	s.snapshot.ThisWeekRows = nil
}

// SessionPlaced records one more placed session and refreshes percent/ETA.
func (s *ProgressSink) SessionPlaced(row domain.PlacedRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Placed++
	s.snapshot.ThisWeekRows = append(s.snapshot.ThisWeekRows, row)
	s.refreshProgressLocked()
}

// RequestAbandoned is a no-op for the snapshot's counters; abandonment is
// only surfaced in the job's terminal failure list, not mid-run.
func (s *ProgressSink) RequestAbandoned() {}

func (s *ProgressSink) refreshProgressLocked() {
	if s.snapshot.TotalExpected <= 0 {
		return
	}
	s.snapshot.Percent = 100 * float64(s.snapshot.Placed) / float64(s.snapshot.TotalExpected)
	if s.snapshot.Placed == 0 || s.jobStart.IsZero() {
		return
	}
	elapsed := time.Since(s.jobStart)
	rate := float64(s.snapshot.Placed) / elapsed.Seconds()
	if rate <= 0 {
		return
	}
	remaining := s.snapshot.TotalExpected - s.snapshot.Placed
	s.snapshot.ETA = time.Duration(float64(remaining)/rate) * time.Second
}

// Finish transitions the snapshot to a terminal state.
func (s *ProgressSink) Finish(state domain.JobState, failureMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = state
	s.snapshot.FailureMessage = failureMsg
	s.snapshot.ETA = 0
}

// Snapshot returns an immutable copy of the current progress.
func (s *ProgressSink) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Copy()
}
