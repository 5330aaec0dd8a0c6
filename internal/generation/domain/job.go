// Package domain models a generation job: its state machine, the
// planning window it targets, and the terminal outputs it produces.
package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// JobState is a position in the job's state machine.
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobSuccess   JobState = "success"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// ErrInvalidTransition is returned when a state change is not allowed from
// the job's current state.
var ErrInvalidTransition = errors.New("invalid job state transition")

// transitions enumerates the only state changes the machine allows.
var transitions = map[JobState][]JobState{
	JobQueued:  {JobRunning, JobCancelled},
	JobRunning: {JobSuccess, JobFailed, JobCancelled},
}

// Job is a single generation run against one data scope.
type Job struct {
	sharedDomain.BaseEntity
	dataScope   string
	courseIDs   []uuid.UUID
	window      DateRange
	state       JobState
	failureMsg  string
	startedAt   *time.Time
	finishedAt  *time.Time
	cancelFlag  bool
}

// DateRange mirrors the timetable domain's inclusive calendar range so the
// generation context never imports the timetable package.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewJob creates a job in the Queued state.
func NewJob(dataScope string, courseIDs []uuid.UUID, window DateRange) *Job {
	return &Job{
		BaseEntity: sharedDomain.NewBaseEntity(),
		dataScope:  dataScope,
		courseIDs:  courseIDs,
		window:     window,
		state:      JobQueued,
	}
}

// RehydrateJob reconstructs a job from persisted state.
func RehydrateJob(id uuid.UUID, dataScope string, courseIDs []uuid.UUID, window DateRange, state JobState, failureMsg string, startedAt, finishedAt *time.Time, createdAt, updatedAt time.Time) *Job {
	return &Job{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		dataScope:  dataScope,
		courseIDs:  courseIDs,
		window:     window,
		state:      state,
		failureMsg: failureMsg,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

func (j *Job) DataScope() string        { return j.dataScope }
func (j *Job) CourseIDs() []uuid.UUID   { return j.courseIDs }
func (j *Job) Window() DateRange        { return j.window }
func (j *Job) State() JobState          { return j.state }
func (j *Job) FailureMessage() string   { return j.failureMsg }
func (j *Job) StartedAt() *time.Time    { return j.startedAt }
func (j *Job) FinishedAt() *time.Time   { return j.finishedAt }

// RequestCancel sets the cooperative cancel flag the planner polls between
// weeks and between requests. It does not itself transition state; the job
// only moves to Cancelled once the worker observes the flag.
func (j *Job) RequestCancel() {
	j.cancelFlag = true
}

// CancelRequested reports whether a cancellation has been requested.
func (j *Job) CancelRequested() bool {
	return j.cancelFlag
}

// Start transitions Queued -> Running.
func (j *Job) Start() error {
	if err := j.transition(JobRunning); err != nil {
		return err
	}
	now := time.Now().UTC()
	j.startedAt = &now
	j.Touch()
	return nil
}

// Succeed transitions Running -> Success.
func (j *Job) Succeed() error {
	if err := j.transition(JobSuccess); err != nil {
		return err
	}
	j.finish()
	return nil
}

// Fail transitions Running -> Failed, recording msg.
func (j *Job) Fail(msg string) error {
	if err := j.transition(JobFailed); err != nil {
		return err
	}
	j.failureMsg = msg
	j.finish()
	return nil
}

// Cancel transitions Queued or Running -> Cancelled.
func (j *Job) Cancel() error {
	if err := j.transition(JobCancelled); err != nil {
		return err
	}
	j.finish()
	return nil
}

func (j *Job) finish() {
	now := time.Now().UTC()
	j.finishedAt = &now
	j.Touch()
}

func (j *Job) transition(to JobState) error {
	for _, allowed := range transitions[j.state] {
		if allowed == to {
			j.state = to
			return nil
		}
	}
	return ErrInvalidTransition
}

// Terminal reports whether the job has reached a state that persists
// outputs and will never change again.
func (j *Job) Terminal() bool {
	return j.state == JobSuccess || j.state == JobFailed || j.state == JobCancelled
}
