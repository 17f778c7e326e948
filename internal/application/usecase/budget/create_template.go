// Package budget contains budget template and instance use cases.
package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
	"github.com/budgetflow/backend/internal/domain/valueobject"
)

// CreateTemplateInput represents the input for template creation.
type CreateTemplateInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Currency   string
	Rule       valueobject.RecurrenceRule
}

// CreateTemplateOutput represents the output of template creation.
type CreateTemplateOutput struct {
	Template *entity.BudgetTemplate
}

// CreateTemplateUseCase handles budget template creation logic.
type CreateTemplateUseCase struct {
	templateRepo adapter.TemplateRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateTemplateUseCase creates a new CreateTemplateUseCase instance.
func NewCreateTemplateUseCase(templateRepo adapter.TemplateRepository, categoryRepo adapter.CategoryRepository) *CreateTemplateUseCase {
	return &CreateTemplateUseCase{
		templateRepo: templateRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the template creation.
func (uc *CreateTemplateUseCase) Execute(ctx context.Context, input CreateTemplateInput) (*CreateTemplateOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}

	if err := input.Rule.Validate(); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeTemplateCategoryNotFound,
			"category not found",
			domainerror.ErrTemplateCategoryNotFound,
		)
	}
	if category.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeCategoryDoesNotBelongUser,
			"category does not belong to user",
			domainerror.ErrCategoryDoesNotBelongToUser,
		)
	}

	template := entity.NewBudgetTemplate(
		input.UserID,
		input.CategoryID,
		input.Name,
		input.Amount,
		input.Currency,
		input.Rule,
	)

	if err := uc.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create budget template: %w", err)
	}

	return &CreateTemplateOutput{Template: template}, nil
}
