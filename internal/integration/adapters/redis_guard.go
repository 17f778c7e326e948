// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guardLockKey    = "generation:run_lock"
	guardLastRunKey = "generation:last_trigger"

	// guardLockTTL bounds how long a crashed process can hold the lock.
	guardLockTTL = 10 * time.Minute
)

// RedisTriggerGuard is a TriggerGuard backed by Redis, for deployments
// where several API instances share one database and at most one of them
// may run generation at a time. The lock is a SET NX key; the throttle
// clock is a second key holding the last admitted trigger time.
type RedisTriggerGuard struct {
	client           *redis.Client
	throttleInterval time.Duration
}

// NewRedisTriggerGuard creates a new Redis-backed trigger guard.
func NewRedisTriggerGuard(client *redis.Client, throttleInterval time.Duration) *RedisTriggerGuard {
	return &RedisTriggerGuard{
		client:           client,
		throttleInterval: throttleInterval,
	}
}

// TryAcquire admits at most one caller across all instances. Any Redis
// error is returned to the caller, who is expected to fail closed.
func (g *RedisTriggerGuard) TryAcquire(ctx context.Context, now time.Time) (bool, error) {
	lastRun, err := g.client.Get(ctx, guardLastRunKey).Result()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to read last trigger time: %w", err)
	}
	if err == nil {
		last, parseErr := time.Parse(time.RFC3339Nano, lastRun)
		if parseErr != nil {
			return false, fmt.Errorf("corrupt last trigger time %q: %w", lastRun, parseErr)
		}
		if now.Sub(last) < g.throttleInterval {
			// Throttled. The clock is not touched; only admitted
			// runs move it.
			return false, nil
		}
	}

	acquired, err := g.client.SetNX(ctx, guardLockKey, now.Format(time.RFC3339Nano), guardLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return acquired, nil
}

// Release clears the lock and records startedAt as the last trigger time.
func (g *RedisTriggerGuard) Release(ctx context.Context, startedAt time.Time) error {
	if err := g.client.Set(ctx, guardLastRunKey, startedAt.Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to record last trigger time: %w", err)
	}
	if err := g.client.Del(ctx, guardLockKey).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}
