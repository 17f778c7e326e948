package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// DeleteTemplateInput represents the input for template deletion.
type DeleteTemplateInput struct {
	UserID     uuid.UUID
	TemplateID uuid.UUID
}

// DeleteTemplateUseCase handles budget template deletion. Deletion is a
// soft delete that stops future generation; instances already generated
// from the template are untouched and remain visible.
type DeleteTemplateUseCase struct {
	templateRepo adapter.TemplateRepository
}

// NewDeleteTemplateUseCase creates a new DeleteTemplateUseCase instance.
func NewDeleteTemplateUseCase(templateRepo adapter.TemplateRepository) *DeleteTemplateUseCase {
	return &DeleteTemplateUseCase{templateRepo: templateRepo}
}

// Execute performs the template deletion.
func (uc *DeleteTemplateUseCase) Execute(ctx context.Context, input DeleteTemplateInput) error {
	template, err := uc.templateRepo.FindByID(ctx, input.TemplateID)
	if err != nil {
		return err
	}
	if template.UserID != input.UserID {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"template does not belong to user",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	if err := uc.templateRepo.Delete(ctx, input.TemplateID); err != nil {
		return fmt.Errorf("failed to delete budget template: %w", err)
	}

	return nil
}
