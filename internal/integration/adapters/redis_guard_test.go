package adapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newGuardUnderTest(t *testing.T, throttle time.Duration) (*RedisTriggerGuard, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisTriggerGuard(client, throttle), server
}

func TestRedisTriggerGuard_TryAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstCallerAdmitted", func(t *testing.T) {
		guard, _ := newGuardUnderTest(t, 5*time.Minute)

		admitted, err := guard.TryAcquire(ctx, time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !admitted {
			t.Error("expected first caller to be admitted")
		}
	})

	t.Run("SecondCallerBlockedWhileLockHeld", func(t *testing.T) {
		guard, _ := newGuardUnderTest(t, 5*time.Minute)
		now := time.Now()

		if admitted, err := guard.TryAcquire(ctx, now); err != nil || !admitted {
			t.Fatalf("first acquire failed: admitted=%v err=%v", admitted, err)
		}

		admitted, err := guard.TryAcquire(ctx, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if admitted {
			t.Error("expected second caller to be blocked while lock is held")
		}
	})

	t.Run("ThrottledAfterRelease", func(t *testing.T) {
		guard, _ := newGuardUnderTest(t, 5*time.Minute)
		start := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

		if admitted, err := guard.TryAcquire(ctx, start); err != nil || !admitted {
			t.Fatalf("first acquire failed: admitted=%v err=%v", admitted, err)
		}
		if err := guard.Release(ctx, start); err != nil {
			t.Fatalf("release failed: %v", err)
		}

		admitted, err := guard.TryAcquire(ctx, start.Add(2*time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if admitted {
			t.Error("expected caller within the throttle interval to be blocked")
		}

		admitted, err = guard.TryAcquire(ctx, start.Add(6*time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !admitted {
			t.Error("expected caller after the throttle interval to be admitted")
		}
	})

	t.Run("ErrorWhenRedisUnavailable", func(t *testing.T) {
		guard, server := newGuardUnderTest(t, 5*time.Minute)
		server.Close()

		_, err := guard.TryAcquire(ctx, time.Now())
		if err == nil {
			t.Error("expected an error when redis is unreachable")
		}
	})

	t.Run("ConcurrentCallersAdmitExactlyOne", func(t *testing.T) {
		guard, _ := newGuardUnderTest(t, 5*time.Minute)
		now := time.Now()

		var wg sync.WaitGroup
		var mu sync.Mutex
		admittedCount := 0

		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				admitted, err := guard.TryAcquire(ctx, now)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if admitted {
					mu.Lock()
					admittedCount++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if admittedCount != 1 {
			t.Errorf("expected exactly 1 admission, got %d", admittedCount)
		}
	})
}
