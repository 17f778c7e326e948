package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// DefaultRunDeadline bounds the wall-clock budget of a single pass. When
// the deadline is hit, the pass stops admitting new templates but lets
// in-flight store operations complete, so no template is left with its
// watermark behind an already-created instance.
const DefaultRunDeadline = 2 * time.Minute

// TemplateOutcome records what a pass did for one template.
type TemplateOutcome struct {
	TemplateID uuid.UUID
	UserID     uuid.UUID
	Generated  int // Instances newly created
	Skipped    int // Occurrences that already had a live instance
	Err        error
}

// TemplateError pairs a template with the error that stopped its processing.
type TemplateError struct {
	TemplateID uuid.UUID
	Err        error
}

// RunSummary aggregates the result of one generation pass. It is
// ephemeral: created when the pass starts, logged by the caller, and
// discarded. Nothing in it is persisted.
type RunSummary struct {
	StartedAt        time.Time
	Duration         time.Duration
	TemplatesScanned int
	InstancesCreated int
	InstancesSkipped int
	DeadlineHit      bool
	Outcomes         []TemplateOutcome
	Errors           []TemplateError
}

// RunUseCase executes one generation pass: it scans due templates,
// materializes every due period exactly once through the instance store's
// create-if-absent operation, and advances each template's watermark.
// Templates fail independently; one template's error never aborts the
// pass for the others.
type RunUseCase struct {
	templateRepo TemplateStore
	instanceRepo InstanceStore
	notifier     adapter.GenerationNotifier // Optional
	deadline     time.Duration
}

// NewRunUseCase creates a new RunUseCase instance. notifier may be nil.
func NewRunUseCase(
	templateRepo TemplateStore,
	instanceRepo InstanceStore,
	notifier adapter.GenerationNotifier,
	deadline time.Duration,
) *RunUseCase {
	if deadline <= 0 {
		deadline = DefaultRunDeadline
	}
	return &RunUseCase{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		notifier:     notifier,
		deadline:     deadline,
	}
}

// Execute performs one generation pass evaluated at now.
func (uc *RunUseCase) Execute(ctx context.Context, now time.Time) (*RunSummary, error) {
	summary := &RunSummary{StartedAt: now}
	cutoff := time.Now().Add(uc.deadline)

	templates, err := uc.templateRepo.ListDue(ctx, now)
	if err != nil {
		return summary, domainerror.NewGenerationError(
			domainerror.ErrCodeTemplateQueryFailed,
			"failed to list due templates",
			err,
		)
	}
	summary.TemplatesScanned = len(templates)

	createdPerUser := make(map[uuid.UUID]int)

	for _, template := range templates {
		if time.Now().After(cutoff) {
			summary.DeadlineHit = true
			break
		}

		outcome := uc.processTemplate(ctx, template, now)
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.InstancesCreated += outcome.Generated
		summary.InstancesSkipped += outcome.Skipped

		if outcome.Err != nil {
			summary.Errors = append(summary.Errors, TemplateError{
				TemplateID: template.ID,
				Err:        outcome.Err,
			})
		}
		if outcome.Generated > 0 {
			createdPerUser[template.UserID] += outcome.Generated
		}
	}

	uc.notifyUsers(ctx, createdPerUser)

	summary.Duration = time.Since(now)
	return summary, nil
}

// processTemplate materializes every due period of one template. On a
// store failure the watermark is advanced only to the end of the last
// period processed before the failure, so the next pass resumes exactly
// where this one stopped; create-if-absent makes the re-processing safe.
func (uc *RunUseCase) processTemplate(ctx context.Context, template *entity.BudgetTemplate, now time.Time) TemplateOutcome {
	outcome := TemplateOutcome{TemplateID: template.ID, UserID: template.UserID}

	if !template.Eligible() {
		return outcome
	}

	periods, err := OccurrencesDue(template.Rule, template.LastGeneratedPeriodEnd, now)
	if err != nil {
		// Malformed rule: skip the template for this pass. It heals
		// itself on a later pass once the template is corrected.
		outcome.Err = err
		return outcome
	}

	var lastProcessedEnd *time.Time
	for _, period := range periods {
		instance := entity.NewBudgetInstance(template, period.Start, period.End)

		result, err := uc.instanceRepo.CreateIfAbsent(ctx, instance)
		if err != nil {
			// Stop at the failure point; never skip ahead past a
			// failed period.
			outcome.Err = domainerror.NewGenerationError(
				domainerror.ErrCodeInstanceCreateFailed,
				fmt.Sprintf("failed to create instance for period starting %s", period.Start.Format(time.RFC3339)),
				err,
			)
			break
		}

		switch result {
		case adapter.OutcomeCreated:
			outcome.Generated++
		case adapter.OutcomeAlreadyExists:
			// A concurrent run got there first. Success, not an error.
			outcome.Skipped++
		}

		end := period.End
		lastProcessedEnd = &end
	}

	if lastProcessedEnd != nil {
		advanced, err := uc.templateRepo.AdvanceWatermark(ctx, template.ID, *lastProcessedEnd)
		if err != nil {
			if outcome.Err == nil {
				outcome.Err = domainerror.NewGenerationError(
					domainerror.ErrCodeWatermarkUpdateFailed,
					"failed to advance watermark",
					err,
				)
			}
			return outcome
		}
		if !advanced {
			// A concurrent run already moved the watermark further.
			// The monotonic conditional update makes this harmless.
			slog.Debug("Watermark already ahead",
				"template_id", template.ID,
				"period_end", lastProcessedEnd,
			)
		}
	}

	return outcome
}

// notifyUsers enqueues one notification per user that gained instances.
// Delivery is best effort; a queue failure never fails the pass.
func (uc *RunUseCase) notifyUsers(ctx context.Context, createdPerUser map[uuid.UUID]int) {
	if uc.notifier == nil {
		return
	}
	for userID, count := range createdPerUser {
		if err := uc.notifier.NotifyGenerated(ctx, userID, count); err != nil {
			slog.Warn("Failed to queue generation notification",
				"user_id", userID,
				"error", err,
			)
		}
	}
}
