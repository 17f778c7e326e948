package suggestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
	"github.com/budgetflow/backend/internal/domain/valueobject"
)

type fakeTemplateRepo struct {
	template *entity.BudgetTemplate
}

func (r *fakeTemplateRepo) Create(_ context.Context, _ *entity.BudgetTemplate) error { return nil }

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BudgetTemplate, error) {
	if r.template == nil || r.template.ID != id {
		return nil, domainerror.ErrTemplateNotFound
	}
	return r.template, nil
}

func (r *fakeTemplateRepo) FindByUserID(_ context.Context, _ uuid.UUID) ([]*entity.BudgetTemplate, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, _ *entity.BudgetTemplate) error { return nil }
func (r *fakeTemplateRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

func (r *fakeTemplateRepo) ListDue(_ context.Context, _ time.Time) ([]*entity.BudgetTemplate, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) AdvanceWatermark(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return false, nil
}

type fakeInstanceRepo struct {
	instances []*entity.BudgetInstance
}

func (r *fakeInstanceRepo) CreateIfAbsent(_ context.Context, _ *entity.BudgetInstance) (adapter.CreateOutcome, error) {
	return adapter.OutcomeCreated, nil
}

func (r *fakeInstanceRepo) FindByID(_ context.Context, _ uuid.UUID) (*entity.BudgetInstance, error) {
	return nil, domainerror.ErrInstanceNotFound
}

func (r *fakeInstanceRepo) FindByUserID(_ context.Context, _ uuid.UUID, _ adapter.InstanceFilter) ([]*entity.BudgetInstance, error) {
	return r.instances, nil
}

func (r *fakeInstanceRepo) Update(_ context.Context, _ *entity.BudgetInstance) error { return nil }
func (r *fakeInstanceRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

type fakeCategoryRepo struct {
	category *entity.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, _ *entity.Category) error { return nil }

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if r.category == nil || r.category.ID != id {
		return nil, domainerror.ErrCategoryNotFound
	}
	return r.category, nil
}

func (r *fakeCategoryRepo) FindByUserID(_ context.Context, _ uuid.UUID) ([]*entity.Category, error) {
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, _ *entity.Category) error { return nil }
func (r *fakeCategoryRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }

func (r *fakeCategoryRepo) ExistsByNameAndUser(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return false, nil
}

type fakeSuggestionService struct {
	available bool
	result    *adapter.SuggestionResult
	err       error
	lastReq   *adapter.SuggestionRequest
}

func (s *fakeSuggestionService) IsAvailable() bool { return s.available }

func (s *fakeSuggestionService) SuggestAmount(_ context.Context, request *adapter.SuggestionRequest) (*adapter.SuggestionResult, error) {
	s.lastReq = request
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testTemplate(userID uuid.UUID, amount int64) *entity.BudgetTemplate {
	return entity.NewBudgetTemplate(
		userID, uuid.New(), "Groceries",
		decimal.NewFromInt(amount), "USD",
		valueobject.RecurrenceRule{
			Frequency:  valueobject.FrequencyMonthly,
			Interval:   1,
			AnchorDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	)
}

func instancesWithAmounts(template *entity.BudgetTemplate, amounts ...int64) []*entity.BudgetInstance {
	start := template.Rule.AnchorDate
	out := make([]*entity.BudgetInstance, 0, len(amounts))
	for i, amount := range amounts {
		instance := entity.NewBudgetInstance(template, start.AddDate(0, i, 0), start.AddDate(0, i+1, 0))
		instance.Amount = decimal.NewFromInt(amount)
		out = append(out, instance)
	}
	return out
}

func TestSuggestAmountUseCase_Execute(t *testing.T) {
	userID := uuid.New()

	t.Run("UsesTheModelWhenAvailable", func(t *testing.T) {
		template := testTemplate(userID, 450)
		service := &fakeSuggestionService{
			available: true,
			result: &adapter.SuggestionResult{
				Amount:    decimal.NewFromFloat(480.50),
				Rationale: "spending has trended up",
			},
		}
		uc := NewSuggestAmountUseCase(
			&fakeTemplateRepo{template: template},
			&fakeInstanceRepo{instances: instancesWithAmounts(template, 440, 460, 500)},
			&fakeCategoryRepo{category: &entity.Category{ID: template.CategoryID, UserID: userID, Name: "Groceries"}},
			service,
		)

		output, err := uc.Execute(context.Background(), SuggestAmountInput{TemplateID: template.ID, UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Amount.Equal(decimal.NewFromFloat(480.50)) {
			t.Errorf("expected the model's amount, got %s", output.Amount)
		}
		if output.SampleSize != 3 {
			t.Errorf("expected sample size 3, got %d", output.SampleSize)
		}
		if service.lastReq == nil || service.lastReq.CategoryName != "Groceries" {
			t.Error("category name was not passed to the model")
		}
	})

	t.Run("FallsBackToAverageWhenModelFails", func(t *testing.T) {
		template := testTemplate(userID, 450)
		service := &fakeSuggestionService{available: true, err: errors.New("model unavailable")}
		uc := NewSuggestAmountUseCase(
			&fakeTemplateRepo{template: template},
			&fakeInstanceRepo{instances: instancesWithAmounts(template, 400, 500)},
			&fakeCategoryRepo{},
			service,
		)

		output, err := uc.Execute(context.Background(), SuggestAmountInput{TemplateID: template.ID, UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Amount.Equal(decimal.NewFromInt(450)) {
			t.Errorf("expected the history average 450, got %s", output.Amount)
		}
		if output.SampleSize != 2 {
			t.Errorf("expected sample size 2, got %d", output.SampleSize)
		}
	})

	t.Run("FallsBackToTemplateAmountWithoutHistory", func(t *testing.T) {
		template := testTemplate(userID, 450)
		uc := NewSuggestAmountUseCase(
			&fakeTemplateRepo{template: template},
			&fakeInstanceRepo{},
			&fakeCategoryRepo{},
			&fakeSuggestionService{available: false},
		)

		output, err := uc.Execute(context.Background(), SuggestAmountInput{TemplateID: template.ID, UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Amount.Equal(template.Amount) {
			t.Errorf("expected the template amount, got %s", output.Amount)
		}
		if output.SampleSize != 0 {
			t.Errorf("expected sample size 0, got %d", output.SampleSize)
		}
	})

	t.Run("RejectsForeignTemplate", func(t *testing.T) {
		template := testTemplate(userID, 450)
		uc := NewSuggestAmountUseCase(
			&fakeTemplateRepo{template: template},
			&fakeInstanceRepo{},
			&fakeCategoryRepo{},
			&fakeSuggestionService{},
		)

		_, err := uc.Execute(context.Background(), SuggestAmountInput{TemplateID: template.ID, UserID: uuid.New()})
		var budgetErr *domainerror.BudgetError
		if !errors.As(err, &budgetErr) || budgetErr.Code != domainerror.ErrCodeUnauthorizedBudgetAccess {
			t.Fatalf("expected an unauthorized access error, got %v", err)
		}
	})
}
