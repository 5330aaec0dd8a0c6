package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/felixgeelhaar/schedgen/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalModeContainer(t *testing.T) *Container {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                 "test",
		LocalMode:              true,
		DatabaseDriver:         "sqlite",
		SQLitePath:             filepath.Join(t.TempDir(), "schedgen-test.db"),
		OutboxProcessorEnabled: false,
		JobSoftTimeout:         5 * time.Second,
		JobBreakerMaxFailures:  3,
		JobBreakerOpenTimeout:  30 * time.Second,
	}

	c, err := NewLocalContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func TestLocalModeContainer(t *testing.T) {
	c := setupLocalModeContainer(t)

	assert.NotNil(t, c.TeacherRepo)
	assert.NotNil(t, c.ClassGroupRepo)
	assert.NotNil(t, c.RoomRepo)
	assert.NotNil(t, c.CourseRepo)
	assert.NotNil(t, c.ClosingPeriodRepo)
	assert.NotNil(t, c.SessionRepo)
	assert.NotNil(t, c.ScheduleLogRepo)
	assert.NotNil(t, c.OutboxRepo)
	assert.NotNil(t, c.EventPublisher)
	assert.NotNil(t, c.Locker)
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.GenerateSchedule)
	assert.NotNil(t, c.JobRunner)
}

func TestLocalModeJobWorkflow_NoCoursesForScope(t *testing.T) {
	c := setupLocalModeContainer(t)

	window := genDomain.DateRange{
		Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	}
	job := genDomain.NewJob("empty-scope", nil, window)

	jobID := c.JobRunner.Submit(context.Background(), job, 0)
	assert.Equal(t, job.ID(), jobID)

	deadline := time.Now().Add(5 * time.Second)
	for {
		snapshot, err := c.JobRunner.Status(jobID)
		require.NoError(t, err)
		if snapshot.State == genDomain.JobFailed || snapshot.State == genDomain.JobSuccess {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job did not reach a terminal state in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, finished, err := c.JobRunner.Result(jobID)
	require.NoError(t, err)
	assert.Equal(t, genDomain.JobFailed, finished.State())
	assert.Contains(t, finished.FailureMessage(), "empty-scope")
}
