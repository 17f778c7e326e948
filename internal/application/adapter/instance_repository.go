// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/domain/entity"
)

// CreateOutcome reports how a CreateIfAbsent call resolved.
type CreateOutcome string

const (
	// OutcomeCreated means a new instance row was inserted.
	OutcomeCreated CreateOutcome = "created"

	// OutcomeAlreadyExists means a live instance for the same
	// (template, period start) already existed. This is a success path,
	// not an error: it is how concurrent runs deduplicate.
	OutcomeAlreadyExists CreateOutcome = "already_exists"
)

// InstanceFilter narrows instance listing.
type InstanceFilter struct {
	From       *time.Time // Periods ending after this time
	To         *time.Time // Periods starting before this time
	TemplateID *uuid.UUID
}

// InstanceRepository defines the interface for budget instance persistence operations.
type InstanceRepository interface {
	// CreateIfAbsent atomically inserts the instance unless one with the
	// same (template_id, period_start) already exists, relying on a
	// store-level uniqueness constraint. Soft-deleted rows keep their
	// slot, so a user-deleted instance is not regenerated. Duplicate
	// detection is reported through the outcome, never as an error.
	CreateIfAbsent(ctx context.Context, instance *entity.BudgetInstance) (CreateOutcome, error)

	// FindByID retrieves an instance by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BudgetInstance, error)

	// FindByUserID retrieves instances for a user, newest period first.
	FindByUserID(ctx context.Context, userID uuid.UUID, filter InstanceFilter) ([]*entity.BudgetInstance, error)

	// Update updates an existing instance in the database.
	Update(ctx context.Context, instance *entity.BudgetInstance) error

	// Delete removes an instance from the database (soft delete). Deleting
	// an instance is a user action independent of template deletion.
	Delete(ctx context.Context, id uuid.UUID) error
}
