package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
)

// TemplateStore is the slice of the template repository the engine needs.
// adapter.TemplateRepository satisfies it.
type TemplateStore interface {
	// ListDue retrieves every active, non-deleted template whose anchor
	// date is not after now.
	ListDue(ctx context.Context, now time.Time) ([]*entity.BudgetTemplate, error)

	// AdvanceWatermark atomically moves a template's watermark forward,
	// only when newPeriodEnd exceeds the stored value.
	AdvanceWatermark(ctx context.Context, templateID uuid.UUID, newPeriodEnd time.Time) (bool, error)
}

// InstanceStore is the slice of the instance repository the engine needs.
// adapter.InstanceRepository satisfies it.
type InstanceStore interface {
	// CreateIfAbsent atomically inserts the instance unless a live one
	// with the same (template_id, period_start) exists.
	CreateIfAbsent(ctx context.Context, instance *entity.BudgetInstance) (adapter.CreateOutcome, error)
}
