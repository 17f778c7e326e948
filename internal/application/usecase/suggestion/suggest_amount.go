// Package suggestion contains AI-assisted budget suggestion use cases.
package suggestion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/application/adapter"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// maxHistorySize caps how many past instance amounts are sent to the model.
const maxHistorySize = 12

// SuggestAmountInput represents the input for a budget amount suggestion.
type SuggestAmountInput struct {
	TemplateID uuid.UUID
	UserID     uuid.UUID
}

// SuggestAmountOutput represents the output of a budget amount suggestion.
type SuggestAmountOutput struct {
	Amount     decimal.Decimal
	Currency   string
	Rationale  string
	SampleSize int
}

// SuggestAmountUseCase proposes a budget amount for a template's next period
// based on the amounts of instances already generated from it.
type SuggestAmountUseCase struct {
	templateRepo      adapter.TemplateRepository
	instanceRepo      adapter.InstanceRepository
	categoryRepo      adapter.CategoryRepository
	suggestionService adapter.BudgetSuggestionService
}

// NewSuggestAmountUseCase creates a new SuggestAmountUseCase instance.
func NewSuggestAmountUseCase(
	templateRepo adapter.TemplateRepository,
	instanceRepo adapter.InstanceRepository,
	categoryRepo adapter.CategoryRepository,
	suggestionService adapter.BudgetSuggestionService,
) *SuggestAmountUseCase {
	return &SuggestAmountUseCase{
		templateRepo:      templateRepo,
		instanceRepo:      instanceRepo,
		categoryRepo:      categoryRepo,
		suggestionService: suggestionService,
	}
}

// Execute performs the suggestion. When the AI service is not configured it
// falls back to the average of past amounts, or the template amount when no
// history exists.
func (uc *SuggestAmountUseCase) Execute(ctx context.Context, input SuggestAmountInput) (*SuggestAmountOutput, error) {
	template, err := uc.templateRepo.FindByID(ctx, input.TemplateID)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeTemplateNotFound,
			"budget template not found",
			domainerror.ErrTemplateNotFound,
		)
	}
	if template.UserID != input.UserID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"not authorized to access this budget template",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	instances, err := uc.instanceRepo.FindByUserID(ctx, input.UserID, adapter.InstanceFilter{
		TemplateID: &template.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load instance history: %w", err)
	}

	amounts := make([]decimal.Decimal, 0, maxHistorySize)
	for _, instance := range instances {
		if len(amounts) == maxHistorySize {
			break
		}
		amounts = append(amounts, instance.Amount)
	}

	categoryName := ""
	if category, err := uc.categoryRepo.FindByID(ctx, template.CategoryID); err == nil {
		categoryName = category.Name
	}

	if !uc.suggestionService.IsAvailable() {
		return uc.fallback(template.Amount, template.Currency, amounts), nil
	}

	result, err := uc.suggestionService.SuggestAmount(ctx, &adapter.SuggestionRequest{
		CategoryName: categoryName,
		Currency:     template.Currency,
		PastAmounts:  amounts,
	})
	if err != nil {
		// The suggestion endpoint stays usable when the model is down.
		return uc.fallback(template.Amount, template.Currency, amounts), nil
	}

	return &SuggestAmountOutput{
		Amount:     result.Amount,
		Currency:   template.Currency,
		Rationale:  result.Rationale,
		SampleSize: len(amounts),
	}, nil
}

func (uc *SuggestAmountUseCase) fallback(templateAmount decimal.Decimal, currency string, amounts []decimal.Decimal) *SuggestAmountOutput {
	if len(amounts) == 0 {
		return &SuggestAmountOutput{
			Amount:    templateAmount,
			Currency:  currency,
			Rationale: "no generation history yet, keeping the current template amount",
		}
	}

	sum := decimal.Zero
	for _, amount := range amounts {
		sum = sum.Add(amount)
	}
	average := sum.Div(decimal.NewFromInt(int64(len(amounts)))).Round(2)

	return &SuggestAmountOutput{
		Amount:     average,
		Currency:   currency,
		Rationale:  fmt.Sprintf("average of the last %d generated budgets", len(amounts)),
		SampleSize: len(amounts),
	}
}
