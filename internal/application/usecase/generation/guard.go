package generation

import (
	"context"
	"sync"
	"time"
)

// DefaultThrottleInterval is the minimum gap between admitted runs.
const DefaultThrottleInterval = 5 * time.Minute

// TriggerGuard decides whether a new generation run may start, enforcing
// single-flight execution and throttling. TryAcquire is the atomic
// check-and-mark: two concurrent callers must never both be admitted.
//
// A non-nil error from TryAcquire means the guard's own state is
// unreachable; callers must fail closed and skip the run rather than risk
// a duplicate-run race.
type TriggerGuard interface {
	// TryAcquire admits at most one caller: it returns true and marks a
	// run in progress when no run is active and the throttle interval
	// has elapsed since the last admitted run.
	TryAcquire(ctx context.Context, now time.Time) (bool, error)

	// Release clears the in-progress mark and records startedAt as the
	// last trigger time, regardless of how the run ended. A failed run
	// therefore still holds off the next one for a full interval.
	Release(ctx context.Context, startedAt time.Time) error
}

// InProcessGuard is a TriggerGuard backed by in-memory state, for
// deployments where a single process owns generation. Multi-instance
// deployments use the Redis-backed guard store instead.
type InProcessGuard struct {
	mu               sync.Mutex
	throttleInterval time.Duration
	lastTriggerTime  time.Time
	runInProgress    bool
}

// NewInProcessGuard creates a new in-process trigger guard.
func NewInProcessGuard(throttleInterval time.Duration) *InProcessGuard {
	if throttleInterval <= 0 {
		throttleInterval = DefaultThrottleInterval
	}
	return &InProcessGuard{throttleInterval: throttleInterval}
}

// TryAcquire implements TriggerGuard. It never returns an error: in-memory
// state cannot be unreachable.
func (g *InProcessGuard) TryAcquire(_ context.Context, now time.Time) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.runInProgress {
		return false, nil
	}
	if !g.lastTriggerTime.IsZero() && now.Sub(g.lastTriggerTime) < g.throttleInterval {
		// A skipped admission does not touch lastTriggerTime; only
		// admitted runs move the throttle clock.
		return false, nil
	}

	g.runInProgress = true
	return true, nil
}

// Release implements TriggerGuard.
func (g *InProcessGuard) Release(_ context.Context, startedAt time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.runInProgress = false
	g.lastTriggerTime = startedAt
	return nil
}
