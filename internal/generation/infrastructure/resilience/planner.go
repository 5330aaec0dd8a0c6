package resilience

import (
	"context"
	"time"

	genApp "github.com/felixgeelhaar/schedgen/internal/generation/application"
	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/felixgeelhaar/schedgen/internal/timetable/application/services"
	"github.com/sony/gobreaker/v2"
)

// ResilientPlanner wraps a genApp.Planner with the scope lock and circuit
// breaker described in the concurrency model: jobs over the same data scope
// never overlap, and a degraded repository or outbox connection trips the
// breaker instead of letting a job hang past its soft wall-clock ceiling.
type ResilientPlanner struct {
	inner       genApp.Planner
	locker      Locker
	breaker     *gobreaker.CircuitBreaker[services.PlanResult]
	softTimeout time.Duration
}

// Config tunes the breaker and the per-job soft timeout.
type Config struct {
	SoftTimeout  time.Duration
	MaxFailures  uint32
	OpenTimeout  time.Duration
}

// NewResilientPlanner wraps inner with locker and a breaker tuned by cfg.
func NewResilientPlanner(inner genApp.Planner, locker Locker, cfg Config) *ResilientPlanner {
	breaker := gobreaker.NewCircuitBreaker[services.PlanResult](gobreaker.Settings{
		Name:    "generation.plan",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	})
	return &ResilientPlanner{
		inner:       inner,
		locker:      locker,
		breaker:     breaker,
		softTimeout: cfg.SoftTimeout,
	}
}

// Plan acquires the data scope's lock, bounds the run to the soft timeout,
// and drives the wrapped planner through the circuit breaker.
func (p *ResilientPlanner) Plan(ctx context.Context, job *genDomain.Job, sink *genApp.ProgressSink) (services.PlanResult, error) {
	unlock, err := p.locker.Lock(ctx, job.DataScope())
	if err != nil {
		return services.PlanResult{}, err
	}
	defer unlock(context.WithoutCancel(ctx))

	if p.softTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.softTimeout)
		defer cancel()
	}

	return p.breaker.Execute(func() (services.PlanResult, error) {
		return p.inner.Plan(ctx, job, sink)
	})
}
