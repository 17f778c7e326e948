package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// DeleteInstanceInput represents the input for instance deletion.
type DeleteInstanceInput struct {
	UserID     uuid.UUID
	InstanceID uuid.UUID
}

// DeleteInstanceUseCase handles budget instance deletion. This is a soft
// delete of a single generated record; the template keeps generating
// future periods, and the deleted period is not regenerated because the
// template's watermark has already passed it.
type DeleteInstanceUseCase struct {
	instanceRepo adapter.InstanceRepository
}

// NewDeleteInstanceUseCase creates a new DeleteInstanceUseCase instance.
func NewDeleteInstanceUseCase(instanceRepo adapter.InstanceRepository) *DeleteInstanceUseCase {
	return &DeleteInstanceUseCase{instanceRepo: instanceRepo}
}

// Execute performs the instance deletion.
func (uc *DeleteInstanceUseCase) Execute(ctx context.Context, input DeleteInstanceInput) error {
	instance, err := uc.instanceRepo.FindByID(ctx, input.InstanceID)
	if err != nil {
		return err
	}
	if instance.UserID != input.UserID {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"instance does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if err := uc.instanceRepo.Delete(ctx, input.InstanceID); err != nil {
		return fmt.Errorf("failed to delete budget instance: %w", err)
	}

	return nil
}
