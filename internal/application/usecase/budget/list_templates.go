package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/application/usecase/generation"
	"github.com/budgetflow/backend/internal/domain/entity"
)

// ListTemplatesInput represents the input for listing templates.
type ListTemplatesInput struct {
	UserID uuid.UUID
}

// TemplateWithSchedule pairs a template with its derived next due time.
type TemplateWithSchedule struct {
	Template *entity.BudgetTemplate
	// NextDueAt is when the next whole period becomes generatable; nil
	// when the rule's end date leaves no further period.
	NextDueAt *time.Time
}

// ListTemplatesOutput represents the output of listing templates.
type ListTemplatesOutput struct {
	Templates []TemplateWithSchedule
}

// ListTemplatesUseCase handles listing a user's budget templates.
type ListTemplatesUseCase struct {
	templateRepo adapter.TemplateRepository
}

// NewListTemplatesUseCase creates a new ListTemplatesUseCase instance.
func NewListTemplatesUseCase(templateRepo adapter.TemplateRepository) *ListTemplatesUseCase {
	return &ListTemplatesUseCase{templateRepo: templateRepo}
}

// Execute retrieves the user's templates with their derived schedules.
func (uc *ListTemplatesUseCase) Execute(ctx context.Context, input ListTemplatesInput) (*ListTemplatesOutput, error) {
	templates, err := uc.templateRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget templates: %w", err)
	}

	out := make([]TemplateWithSchedule, 0, len(templates))
	for _, template := range templates {
		item := TemplateWithSchedule{Template: template}
		if next, ok := generation.NextDueAt(template.Rule, template.LastGeneratedPeriodEnd); ok {
			item.NextDueAt = &next
		}
		out = append(out, item)
	}

	return &ListTemplatesOutput{Templates: out}, nil
}
