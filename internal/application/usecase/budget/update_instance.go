package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// UpdateInstanceInput represents the input for instance update. Nil fields
// are left unchanged.
type UpdateInstanceInput struct {
	UserID     uuid.UUID
	InstanceID uuid.UUID
	Amount     *decimal.Decimal
	Status     *entity.InstanceStatus
}

// UpdateInstanceOutput represents the output of instance update.
type UpdateInstanceOutput struct {
	Instance *entity.BudgetInstance
}

// UpdateInstanceUseCase handles budget instance update logic. Instances
// are user-owned records once generated; editing one never touches its
// template or other periods.
type UpdateInstanceUseCase struct {
	instanceRepo adapter.InstanceRepository
}

// NewUpdateInstanceUseCase creates a new UpdateInstanceUseCase instance.
func NewUpdateInstanceUseCase(instanceRepo adapter.InstanceRepository) *UpdateInstanceUseCase {
	return &UpdateInstanceUseCase{instanceRepo: instanceRepo}
}

// Execute performs the instance update.
func (uc *UpdateInstanceUseCase) Execute(ctx context.Context, input UpdateInstanceInput) (*UpdateInstanceOutput, error) {
	instance, err := uc.instanceRepo.FindByID(ctx, input.InstanceID)
	if err != nil {
		return nil, err
	}
	if instance.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"instance does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidAmount,
				"amount must be greater than zero",
				domainerror.ErrInvalidAmount,
			)
		}
		instance.Amount = *input.Amount
	}
	if input.Status != nil {
		if *input.Status != entity.InstanceStatusActive && *input.Status != entity.InstanceStatusInactive {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidInstanceStatus,
				"status must be 'active' or 'inactive'",
				domainerror.ErrInvalidInstanceStatus,
			)
		}
		instance.Status = *input.Status
	}

	instance.UpdatedAt = time.Now().UTC()

	if err := uc.instanceRepo.Update(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to update budget instance: %w", err)
	}

	return &UpdateInstanceOutput{Instance: instance}, nil
}
