package generation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MaybeGenerateUseCase is the engine's single entry point for the request
// layer. Handlers call Execute on read traffic without awaiting it: the
// admission decision is synchronous and cheap, the run itself happens on
// a detached goroutine, and nothing is ever returned or raised to the
// HTTP caller. Outcomes are observable only through logs and through the
// instance records a later read will find.
type MaybeGenerateUseCase struct {
	guard TriggerGuard
	run   *RunUseCase
	wg    sync.WaitGroup
}

// NewMaybeGenerateUseCase creates a new MaybeGenerateUseCase instance.
func NewMaybeGenerateUseCase(guard TriggerGuard, run *RunUseCase) *MaybeGenerateUseCase {
	return &MaybeGenerateUseCase{
		guard: guard,
		run:   run,
	}
}

// Execute opportunistically starts a generation run if the guard admits
// one. It returns immediately in every case.
func (uc *MaybeGenerateUseCase) Execute(now time.Time) {
	admitted, err := uc.guard.TryAcquire(context.Background(), now)
	if err != nil {
		// Guard state unreachable: fail closed. Skipping the run is
		// always safe; racing a duplicate run is not.
		slog.Error("Generation trigger guard unavailable, skipping run",
			"error", err,
		)
		return
	}
	if !admitted {
		slog.Debug("Generation run not admitted", "now", now)
		return
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()

		// The run is detached from the request that triggered it.
		ctx := context.Background()
		summary, err := uc.run.Execute(ctx, now)

		if releaseErr := uc.guard.Release(ctx, now); releaseErr != nil {
			slog.Error("Failed to release generation trigger guard",
				"error", releaseErr,
			)
		}

		logSummary(summary, err)
	}()
}

// Wait blocks until any in-flight run has finished. Used during graceful
// shutdown so a pass is not cut off mid-template.
func (uc *MaybeGenerateUseCase) Wait() {
	uc.wg.Wait()
}

// logSummary reports a finished pass to the log, which is the only place
// run outcomes surface.
func logSummary(summary *RunSummary, err error) {
	if err != nil {
		slog.Error("Generation run failed",
			"started_at", summary.StartedAt,
			"error", err,
		)
		return
	}

	logger := slog.With(
		"started_at", summary.StartedAt,
		"duration", summary.Duration,
		"templates_scanned", summary.TemplatesScanned,
		"instances_created", summary.InstancesCreated,
		"instances_skipped", summary.InstancesSkipped,
		"deadline_hit", summary.DeadlineHit,
	)

	if len(summary.Errors) > 0 {
		for _, templateErr := range summary.Errors {
			slog.Warn("Template failed during generation run",
				"template_id", templateErr.TemplateID,
				"error", templateErr.Err,
			)
		}
		logger.Warn("Generation run completed with errors", "failed_templates", len(summary.Errors))
		return
	}

	logger.Info("Generation run completed")
}
