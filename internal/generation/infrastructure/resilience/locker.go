// Package resilience wraps the generation pipeline's Planner with the
// cross-process serialization and fast-failure behavior the job runner
// depends on: one writer per data scope, and a circuit breaker around the
// repository/outbox calls a job's snapshot load and persistence step make.
package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes generation jobs touching the same data scope. A job
// holds its scope's lock for the duration of a run; a second job submitted
// for the same scope blocks until the first finishes.
type Locker interface {
	Lock(ctx context.Context, scope string) (unlock func(context.Context), err error)
}

// InProcessLocker is the zero-config fallback used when no Redis URL is
// configured: a mutex per scope, held only within this process.
type InProcessLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInProcessLocker creates a Locker with no external dependency.
func NewInProcessLocker() *InProcessLocker {
	return &InProcessLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *InProcessLocker) Lock(ctx context.Context, scope string) (func(context.Context), error) {
	l.mu.Lock()
	m, ok := l.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scope] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func(context.Context) { m.Unlock() }, nil
}

// RedisLocker backs the same contract across multiple API/worker processes
// using a SET NX PX token lock, released with a CAS delete so a process
// never releases a lock it doesn't hold (e.g. after its own lease expired).
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a distributed Locker backed by client.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisLocker{client: client, ttl: ttl}
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

func (l *RedisLocker) Lock(ctx context.Context, scope string) (func(context.Context), error) {
	key := "schedgen:scope-lock:" + scope
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring scope lock for %s: %w", scope, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}

	return func(unlockCtx context.Context) {
		_ = releaseScript.Run(unlockCtx, l.client, []string{key}, token).Err()
	}, nil
}
