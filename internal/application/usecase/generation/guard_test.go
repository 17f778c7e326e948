package generation

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestInProcessGuard_Throttle(t *testing.T) {
	ctx := context.Background()
	base := date(2024, time.March, 15)

	t.Run("calls two minutes apart admit exactly one run", func(t *testing.T) {
		guard := NewInProcessGuard(5 * time.Minute)

		admitted, err := guard.TryAcquire(ctx, base)
		if err != nil || !admitted {
			t.Fatalf("expected first call admitted, got admitted=%v err=%v", admitted, err)
		}
		if err := guard.Release(ctx, base); err != nil {
			t.Fatalf("unexpected release error: %v", err)
		}

		admitted, err = guard.TryAcquire(ctx, base.Add(2*time.Minute))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if admitted {
			t.Error("expected second call throttled at 2 minutes")
		}
	})

	t.Run("calls six minutes apart admit two runs", func(t *testing.T) {
		guard := NewInProcessGuard(5 * time.Minute)

		admitted, _ := guard.TryAcquire(ctx, base)
		if !admitted {
			t.Fatal("expected first call admitted")
		}
		guard.Release(ctx, base)

		admitted, _ = guard.TryAcquire(ctx, base.Add(6*time.Minute))
		if !admitted {
			t.Error("expected second call admitted after the interval elapsed")
		}
	})

	t.Run("in-flight run blocks admission regardless of elapsed time", func(t *testing.T) {
		guard := NewInProcessGuard(5 * time.Minute)

		admitted, _ := guard.TryAcquire(ctx, base)
		if !admitted {
			t.Fatal("expected first call admitted")
		}

		admitted, _ = guard.TryAcquire(ctx, base.Add(time.Hour))
		if admitted {
			t.Error("expected admission blocked while a run is in flight")
		}
	})

	t.Run("skipped admission does not move the throttle clock", func(t *testing.T) {
		guard := NewInProcessGuard(5 * time.Minute)

		guard.TryAcquire(ctx, base)
		guard.Release(ctx, base)

		// Repeated skipped attempts inside the window.
		for i := 1; i <= 4; i++ {
			if admitted, _ := guard.TryAcquire(ctx, base.Add(time.Duration(i)*time.Minute)); admitted {
				t.Fatalf("expected attempt at +%dm throttled", i)
			}
		}

		// The window is measured from the admitted run, not the last attempt.
		if admitted, _ := guard.TryAcquire(ctx, base.Add(5*time.Minute)); !admitted {
			t.Error("expected admission exactly one interval after the admitted run")
		}
	})

	t.Run("release after a failed run still holds the interval", func(t *testing.T) {
		guard := NewInProcessGuard(5 * time.Minute)

		guard.TryAcquire(ctx, base)
		// Release happens regardless of run outcome.
		guard.Release(ctx, base)

		if admitted, _ := guard.TryAcquire(ctx, base.Add(time.Minute)); admitted {
			t.Error("expected a failed run to hold off the next one, not tight-loop")
		}
	})
}

func TestInProcessGuard_ConcurrentAdmission(t *testing.T) {
	guard := NewInProcessGuard(5 * time.Minute)
	now := date(2024, time.March, 15)

	const callers = 32
	var wg sync.WaitGroup
	admissions := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := guard.TryAcquire(context.Background(), now)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			admissions <- admitted
		}()
	}
	wg.Wait()
	close(admissions)

	admittedCount := 0
	for admitted := range admissions {
		if admitted {
			admittedCount++
		}
	}
	if admittedCount != 1 {
		t.Errorf("expected exactly one concurrent caller admitted, got %d", admittedCount)
	}
}
