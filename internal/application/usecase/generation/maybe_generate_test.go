package generation

import (
	"context"
	"errors"
	"testing"
	"time"
)

// failingGuard simulates an unreachable guard state store.
type failingGuard struct{}

func (failingGuard) TryAcquire(context.Context, time.Time) (bool, error) {
	return false, errors.New("guard store unreachable")
}

func (failingGuard) Release(context.Context, time.Time) error {
	return nil
}

func TestMaybeGenerate_RunsOnceWhenAdmitted(t *testing.T) {
	template := newTemplate(monthlyRule(date(2024, time.January, 1)))
	templateStore := newFakeTemplateStore(template)
	instanceStore := newFakeInstanceStore()

	run := NewRunUseCase(templateStore, instanceStore, nil, 0)
	uc := NewMaybeGenerateUseCase(NewInProcessGuard(5*time.Minute), run)

	now := date(2024, time.March, 15)
	uc.Execute(now)
	uc.Execute(now) // throttled or blocked by the in-flight run
	uc.Wait()

	if instanceStore.count() != 2 {
		t.Errorf("expected 2 instances from a single admitted run, got %d", instanceStore.count())
	}
}

func TestMaybeGenerate_FailsClosedWhenGuardUnavailable(t *testing.T) {
	template := newTemplate(monthlyRule(date(2024, time.January, 1)))
	templateStore := newFakeTemplateStore(template)
	instanceStore := newFakeInstanceStore()

	run := NewRunUseCase(templateStore, instanceStore, nil, 0)
	uc := NewMaybeGenerateUseCase(failingGuard{}, run)

	uc.Execute(date(2024, time.March, 15))
	uc.Wait()

	if instanceStore.count() != 0 {
		t.Errorf("expected no run when the guard is unavailable, got %d instances", instanceStore.count())
	}
}

func TestMaybeGenerate_AdmitsAgainAfterInterval(t *testing.T) {
	template := newTemplate(monthlyRule(date(2024, time.January, 1)))
	templateStore := newFakeTemplateStore(template)
	instanceStore := newFakeInstanceStore()

	run := NewRunUseCase(templateStore, instanceStore, nil, 0)
	uc := NewMaybeGenerateUseCase(NewInProcessGuard(5*time.Minute), run)

	uc.Execute(date(2024, time.March, 15))
	uc.Wait()

	// Past the throttle window, a later read triggers the next pass,
	// which finds one more completed period.
	uc.Execute(date(2024, time.April, 2))
	uc.Wait()

	if instanceStore.count() != 3 {
		t.Errorf("expected 3 instances after the second admitted run, got %d", instanceStore.count())
	}
}
