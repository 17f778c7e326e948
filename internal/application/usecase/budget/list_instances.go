package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
)

// ListInstancesInput represents the input for listing instances.
type ListInstancesInput struct {
	UserID     uuid.UUID
	From       *time.Time
	To         *time.Time
	TemplateID *uuid.UUID
}

// ListInstancesOutput represents the output of listing instances.
type ListInstancesOutput struct {
	Instances []*entity.BudgetInstance
}

// ListInstancesUseCase handles listing a user's budget instances.
type ListInstancesUseCase struct {
	instanceRepo adapter.InstanceRepository
}

// NewListInstancesUseCase creates a new ListInstancesUseCase instance.
func NewListInstancesUseCase(instanceRepo adapter.InstanceRepository) *ListInstancesUseCase {
	return &ListInstancesUseCase{instanceRepo: instanceRepo}
}

// Execute retrieves the user's budget instances, newest period first.
func (uc *ListInstancesUseCase) Execute(ctx context.Context, input ListInstancesInput) (*ListInstancesOutput, error) {
	instances, err := uc.instanceRepo.FindByUserID(ctx, input.UserID, adapter.InstanceFilter{
		From:       input.From,
		To:         input.To,
		TemplateID: input.TemplateID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list budget instances: %w", err)
	}

	return &ListInstancesOutput{Instances: instances}, nil
}
