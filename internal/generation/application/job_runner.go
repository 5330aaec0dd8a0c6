package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/felixgeelhaar/schedgen/internal/timetable/application/services"
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/felixgeelhaar/schedgen/pkg/observability"
	"github.com/google/uuid"
)

// Planner is the subset of the generation pipeline the Job Runner drives.
// Satisfied by *commands.GenerateSchedule and by the resilience package's
// ResilientPlanner wrapping it, so this package stays free of
// infrastructure/repository imports.
type Planner interface {
	Plan(ctx context.Context, job *genDomain.Job, sink *ProgressSink) (services.PlanResult, error)
}

// JobRunner exposes submit/status/result over a single-writer queue per
// data scope: two jobs touching overlapping course sets never run
// concurrently.
type JobRunner struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*genDomain.Job
	sinks    map[uuid.UUID]*ProgressSink
	results  map[uuid.UUID]services.PlanResult
	scopeQ   map[string]chan struct{} // one-slot semaphore per data scope
	planner  Planner
	logger   *slog.Logger
	metrics  observability.Metrics
}

// NewJobRunner creates a Job Runner backed by planner.
func NewJobRunner(planner Planner, logger *slog.Logger) *JobRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRunner{
		jobs:    make(map[uuid.UUID]*genDomain.Job),
		sinks:   make(map[uuid.UUID]*ProgressSink),
		results: make(map[uuid.UUID]services.PlanResult),
		scopeQ:  make(map[string]chan struct{}),
		planner: planner,
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics attaches a metrics collector the runner reports job outcomes
// to. Returns the runner for chaining at construction time.
func (r *JobRunner) WithMetrics(metrics observability.Metrics) *JobRunner {
	r.metrics = metrics
	return r
}

// Submit enqueues job and starts its background worker goroutine. It
// returns immediately with the job id; the caller polls Status.
func (r *JobRunner) Submit(ctx context.Context, job *genDomain.Job, totalExpected int) uuid.UUID {
	r.mu.Lock()
	r.jobs[job.ID()] = job
	sink := NewProgressSink(job.ID(), totalExpected)
	r.sinks[job.ID()] = sink
	sem := r.scopeSemaphore(job.DataScope())
	r.mu.Unlock()

	go r.run(context.WithoutCancel(ctx), job, sink, sem)

	return job.ID()
}

func (r *JobRunner) scopeSemaphore(scope string) chan struct{} {
	ch, ok := r.scopeQ[scope]
	if !ok {
		ch = make(chan struct{}, 1)
		r.scopeQ[scope] = ch
	}
	return ch
}

func (r *JobRunner) run(ctx context.Context, job *genDomain.Job, sink *ProgressSink, sem chan struct{}) {
	sem <- struct{}{}
	defer func() { <-sem }()

	r.metrics.Counter(observability.MetricJobsSubmitted, 1, observability.T("scope", job.DataScope()))

	if err := job.Start(); err != nil {
		r.logger.Error("job failed to start", "job_id", job.ID(), "error", err)
		return
	}
	sink.Start()

	timer := observability.StartTimer("generation.plan").WithMetrics(r.metrics)
	result, err := r.planner.Plan(ctx, job, sink)
	timer.StopWithError(err)

	r.mu.Lock()
	r.results[job.ID()] = result
	r.mu.Unlock()

	switch {
	case err == domain.ErrCancelled:
		_ = job.Cancel()
		sink.Finish(genDomain.JobCancelled, "")
	case err != nil:
		_ = job.Fail(err.Error())
		sink.Finish(genDomain.JobFailed, err.Error())
		r.metrics.Counter(observability.MetricJobsFailed, 1, observability.T("scope", job.DataScope()))
	default:
		_ = job.Succeed()
		sink.Finish(genDomain.JobSuccess, "")
		r.metrics.Counter(observability.MetricJobsSucceeded, 1, observability.T("scope", job.DataScope()))
		r.metrics.Gauge(observability.MetricSessionsPlaced, float64(len(result.Placed)))
	}

	if len(result.Failures) > 0 {
		r.metrics.Counter(observability.MetricPlacementFailures, int64(len(result.Failures)))
	}

	r.logger.Info("job finished",
		"job_id", job.ID(),
		"state", job.State(),
		"placed", len(result.Placed),
		"relocated", len(result.Relocated),
		"failures", len(result.Failures),
	)
}

// Status returns the current progress snapshot for jobID.
func (r *JobRunner) Status(jobID uuid.UUID) (genDomain.Snapshot, error) {
	r.mu.Lock()
	sink, ok := r.sinks[jobID]
	r.mu.Unlock()
	if !ok {
		return genDomain.Snapshot{}, fmt.Errorf("job %s not found", jobID)
	}
	return sink.Snapshot(), nil
}

// Result returns the terminal placement result for jobID. Only valid once
// the job has reached a terminal state.
func (r *JobRunner) Result(jobID uuid.UUID) (services.PlanResult, *genDomain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return services.PlanResult{}, nil, fmt.Errorf("job %s not found", jobID)
	}
	if !job.Terminal() {
		return services.PlanResult{}, job, fmt.Errorf("job %s has not finished", jobID)
	}
	return r.results[jobID], job, nil
}

// Cancel requests cancellation of a running job. The job transitions to
// Cancelled once the planner observes the flag at its next suspension point.
func (r *JobRunner) Cancel(jobID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	job.RequestCancel()
	return nil
}
