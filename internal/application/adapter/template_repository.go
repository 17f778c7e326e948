// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/domain/entity"
)

// TemplateRepository defines the interface for budget template persistence operations.
type TemplateRepository interface {
	// Create creates a new budget template in the database.
	Create(ctx context.Context, template *entity.BudgetTemplate) error

	// FindByID retrieves a template by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BudgetTemplate, error)

	// FindByUserID retrieves all templates for a given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetTemplate, error)

	// Update updates an existing template in the database.
	Update(ctx context.Context, template *entity.BudgetTemplate) error

	// Delete removes a template from the database (soft delete).
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDue retrieves every active, non-deleted template whose anchor date
	// is not after now. Soft-deleted and paused templates are never returned.
	ListDue(ctx context.Context, now time.Time) ([]*entity.BudgetTemplate, error)

	// AdvanceWatermark conditionally moves a template's
	// last_generated_period_end forward to newPeriodEnd. The update is
	// atomic and applies only when newPeriodEnd is greater than the stored
	// value (or the stored value is null), so concurrent runs completing
	// out of order can never move the watermark backwards. It returns
	// whether the watermark advanced.
	AdvanceWatermark(ctx context.Context, templateID uuid.UUID, newPeriodEnd time.Time) (bool, error)
}
