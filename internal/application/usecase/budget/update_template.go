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

// UpdateTemplateInput represents the input for template update. Nil fields
// are left unchanged. Edits only affect periods generated after the
// update; existing instances keep the values they were materialized with.
type UpdateTemplateInput struct {
	UserID     uuid.UUID
	TemplateID uuid.UUID
	Name       *string
	Amount     *decimal.Decimal
	IsActive   *bool
	EndDate    *time.Time
	ClearEnd   bool
}

// UpdateTemplateOutput represents the output of template update.
type UpdateTemplateOutput struct {
	Template *entity.BudgetTemplate
}

// UpdateTemplateUseCase handles budget template update logic.
type UpdateTemplateUseCase struct {
	templateRepo adapter.TemplateRepository
}

// NewUpdateTemplateUseCase creates a new UpdateTemplateUseCase instance.
func NewUpdateTemplateUseCase(templateRepo adapter.TemplateRepository) *UpdateTemplateUseCase {
	return &UpdateTemplateUseCase{templateRepo: templateRepo}
}

// Execute performs the template update.
func (uc *UpdateTemplateUseCase) Execute(ctx context.Context, input UpdateTemplateInput) (*UpdateTemplateOutput, error) {
	template, err := uc.templateRepo.FindByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if template.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"template does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidAmount,
				"amount must be greater than zero",
				domainerror.ErrInvalidAmount,
			)
		}
		template.Amount = *input.Amount
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if input.ClearEnd {
		template.Rule.EndDate = nil
	} else if input.EndDate != nil {
		template.Rule.EndDate = input.EndDate
	}

	if err := template.Rule.Validate(); err != nil {
		return nil, err
	}

	template.UpdatedAt = time.Now().UTC()

	if err := uc.templateRepo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update budget template: %w", err)
	}

	return &UpdateTemplateOutput{Template: template}, nil
}
