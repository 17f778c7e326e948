package budget

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
	templates map[uuid.UUID]*entity.BudgetTemplate
	updated   *entity.BudgetTemplate
	deleted   []uuid.UUID
}

func newFakeTemplateRepo(templates ...*entity.BudgetTemplate) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: make(map[uuid.UUID]*entity.BudgetTemplate)}
	for _, t := range templates {
		r.templates[t.ID] = t
	}
	return r
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *entity.BudgetTemplate) error {
	r.templates[template.ID] = template
	return nil
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BudgetTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeTemplateNotFound,
			"budget template not found",
			domainerror.ErrTemplateNotFound,
		)
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTemplateRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.BudgetTemplate, error) {
	var out []*entity.BudgetTemplate
	for _, t := range r.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *entity.BudgetTemplate) error {
	r.templates[template.ID] = template
	r.updated = template
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.templates, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeTemplateRepo) ListDue(_ context.Context, _ time.Time) ([]*entity.BudgetTemplate, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) AdvanceWatermark(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return true, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo(categories ...*entity.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ExistsByNameAndUser(_ context.Context, name string, userID uuid.UUID) (bool, error) {
	for _, c := range r.categories {
		if c.Name == name && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func monthlyRule(anchor time.Time) valueobject.RecurrenceRule {
	return valueobject.RecurrenceRule{
		Frequency:  valueobject.FrequencyMonthly,
		Interval:   1,
		AnchorDate: anchor,
	}
}

func assertBudgetErrorCode(t *testing.T, err error, want domainerror.BudgetErrorCode) {
	t.Helper()
	var budgetErr *domainerror.BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected a budget error, got %v", err)
	}
	if budgetErr.Code != want {
		t.Fatalf("expected error code %s, got %s", want, budgetErr.Code)
	}
}

func TestCreateTemplateUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	cat := &entity.Category{ID: uuid.New(), UserID: userID, Name: "Groceries"}
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CreatesActiveTemplate", func(t *testing.T) {
		templateRepo := newFakeTemplateRepo()
		uc := NewCreateTemplateUseCase(templateRepo, newFakeCategoryRepo(cat))

		output, err := uc.Execute(context.Background(), CreateTemplateInput{
			UserID:     userID,
			CategoryID: cat.ID,
			Name:       "Monthly groceries",
			Amount:     decimal.NewFromInt(450),
			Currency:   "USD",
			Rule:       monthlyRule(anchor),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Template.IsActive {
			t.Error("new template must start active")
		}
		if output.Template.LastGeneratedPeriodEnd != nil {
			t.Error("new template must start with an empty watermark")
		}
		if _, ok := templateRepo.templates[output.Template.ID]; !ok {
			t.Error("template was not persisted")
		}
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		uc := NewCreateTemplateUseCase(newFakeTemplateRepo(), newFakeCategoryRepo(cat))

		_, err := uc.Execute(context.Background(), CreateTemplateInput{
			UserID:     userID,
			CategoryID: cat.ID,
			Name:       "Zero",
			Amount:     decimal.Zero,
			Currency:   "USD",
			Rule:       monthlyRule(anchor),
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeInvalidAmount)
	})

	t.Run("RejectsForeignCategory", func(t *testing.T) {
		uc := NewCreateTemplateUseCase(newFakeTemplateRepo(), newFakeCategoryRepo(cat))

		_, err := uc.Execute(context.Background(), CreateTemplateInput{
			UserID:     uuid.New(),
			CategoryID: cat.ID,
			Name:       "Sneaky",
			Amount:     decimal.NewFromInt(100),
			Currency:   "USD",
			Rule:       monthlyRule(anchor),
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeCategoryDoesNotBelongUser)
	})

	t.Run("RejectsEndDateBeforeAnchor", func(t *testing.T) {
		uc := NewCreateTemplateUseCase(newFakeTemplateRepo(), newFakeCategoryRepo(cat))

		rule := monthlyRule(anchor)
		end := anchor.AddDate(0, -1, 0)
		rule.EndDate = &end

		_, err := uc.Execute(context.Background(), CreateTemplateInput{
			UserID:     userID,
			CategoryID: cat.ID,
			Name:       "Backwards",
			Amount:     decimal.NewFromInt(100),
			Currency:   "USD",
			Rule:       rule,
		})
		if err == nil {
			t.Fatal("expected a validation error")
		}
	})
}

func TestUpdateTemplateUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	newTemplate := func() *entity.BudgetTemplate {
		return entity.NewBudgetTemplate(
			userID, uuid.New(), "Rent",
			decimal.NewFromInt(1200), "USD",
			monthlyRule(anchor),
		)
	}

	t.Run("PausesTemplate", func(t *testing.T) {
		template := newTemplate()
		repo := newFakeTemplateRepo(template)
		uc := NewUpdateTemplateUseCase(repo)

		paused := false
		output, err := uc.Execute(context.Background(), UpdateTemplateInput{
			UserID:     userID,
			TemplateID: template.ID,
			IsActive:   &paused,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Template.IsActive {
			t.Error("template should be paused")
		}
		if repo.updated == nil || repo.updated.IsActive {
			t.Error("pause was not persisted")
		}
	})

	t.Run("ClearsEndDate", func(t *testing.T) {
		template := newTemplate()
		end := anchor.AddDate(1, 0, 0)
		template.Rule.EndDate = &end
		repo := newFakeTemplateRepo(template)
		uc := NewUpdateTemplateUseCase(repo)

		output, err := uc.Execute(context.Background(), UpdateTemplateInput{
			UserID:     userID,
			TemplateID: template.ID,
			ClearEnd:   true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Template.Rule.EndDate != nil {
			t.Error("end date should be cleared")
		}
	})

	t.Run("RejectsForeignTemplate", func(t *testing.T) {
		template := newTemplate()
		uc := NewUpdateTemplateUseCase(newFakeTemplateRepo(template))

		name := "Hijacked"
		_, err := uc.Execute(context.Background(), UpdateTemplateInput{
			UserID:     uuid.New(),
			TemplateID: template.ID,
			Name:       &name,
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeUnauthorizedBudgetAccess)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		template := newTemplate()
		uc := NewUpdateTemplateUseCase(newFakeTemplateRepo(template))

		negative := decimal.NewFromInt(-10)
		_, err := uc.Execute(context.Background(), UpdateTemplateInput{
			UserID:     userID,
			TemplateID: template.ID,
			Amount:     &negative,
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeInvalidAmount)
	})
}

func TestListTemplatesUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	anchor := time.Now().UTC().AddDate(0, -1, 0)

	template := entity.NewBudgetTemplate(
		userID, uuid.New(), "Rent",
		decimal.NewFromInt(1200), "USD",
		monthlyRule(anchor),
	)
	uc := NewListTemplatesUseCase(newFakeTemplateRepo(template))

	output, err := uc.Execute(context.Background(), ListTemplatesInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(output.Templates))
	}
	if output.Templates[0].NextDueAt == nil {
		t.Error("an open-ended template always has a next due time")
	}
}

type fakeInstanceRepo struct {
	instances map[uuid.UUID]*entity.BudgetInstance
	deleted   []uuid.UUID
}

func newFakeInstanceRepo(instances ...*entity.BudgetInstance) *fakeInstanceRepo {
	r := &fakeInstanceRepo{instances: make(map[uuid.UUID]*entity.BudgetInstance)}
	for _, in := range instances {
		r.instances[in.ID] = in
	}
	return r
}

func (r *fakeInstanceRepo) CreateIfAbsent(_ context.Context, instance *entity.BudgetInstance) (adapter.CreateOutcome, error) {
	r.instances[instance.ID] = instance
	return adapter.OutcomeCreated, nil
}

func (r *fakeInstanceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BudgetInstance, error) {
	in, ok := r.instances[id]
	if !ok {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInstanceNotFound,
			"budget instance not found",
			domainerror.ErrInstanceNotFound,
		)
	}
	copied := *in
	return &copied, nil
}

func (r *fakeInstanceRepo) FindByUserID(_ context.Context, userID uuid.UUID, _ adapter.InstanceFilter) ([]*entity.BudgetInstance, error) {
	var out []*entity.BudgetInstance
	for _, in := range r.instances {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *fakeInstanceRepo) Update(_ context.Context, instance *entity.BudgetInstance) error {
	r.instances[instance.ID] = instance
	return nil
}

func (r *fakeInstanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.instances, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func TestUpdateInstanceUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	template := entity.NewBudgetTemplate(
		userID, uuid.New(), "Groceries",
		decimal.NewFromInt(450), "USD",
		monthlyRule(anchor),
	)
	periodEnd := anchor.AddDate(0, 1, 0)

	t.Run("DeactivatesInstance", func(t *testing.T) {
		instance := entity.NewBudgetInstance(template, anchor, periodEnd)
		uc := NewUpdateInstanceUseCase(newFakeInstanceRepo(instance))

		inactive := entity.InstanceStatusInactive
		output, err := uc.Execute(context.Background(), UpdateInstanceInput{
			UserID:     userID,
			InstanceID: instance.ID,
			Status:     &inactive,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Instance.Status != entity.InstanceStatusInactive {
			t.Errorf("expected inactive status, got %s", output.Instance.Status)
		}
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		instance := entity.NewBudgetInstance(template, anchor, periodEnd)
		uc := NewUpdateInstanceUseCase(newFakeInstanceRepo(instance))

		bogus := entity.InstanceStatus("archived")
		_, err := uc.Execute(context.Background(), UpdateInstanceInput{
			UserID:     userID,
			InstanceID: instance.ID,
			Status:     &bogus,
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeInvalidInstanceStatus)
	})

	t.Run("RejectsForeignInstance", func(t *testing.T) {
		instance := entity.NewBudgetInstance(template, anchor, periodEnd)
		uc := NewUpdateInstanceUseCase(newFakeInstanceRepo(instance))

		amount := decimal.NewFromInt(99)
		_, err := uc.Execute(context.Background(), UpdateInstanceInput{
			UserID:     uuid.New(),
			InstanceID: instance.ID,
			Amount:     &amount,
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeUnauthorizedBudgetAccess)
	})
}

func TestDeleteInstanceUseCase_Execute(t *testing.T) {
	userID := uuid.New()
	anchor := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	template := entity.NewBudgetTemplate(
		userID, uuid.New(), "Groceries",
		decimal.NewFromInt(450), "USD",
		monthlyRule(anchor),
	)
	instance := entity.NewBudgetInstance(template, anchor, anchor.AddDate(0, 1, 0))

	t.Run("DeletesOwnInstance", func(t *testing.T) {
		repo := newFakeInstanceRepo(instance)
		uc := NewDeleteInstanceUseCase(repo)

		if err := uc.Execute(context.Background(), DeleteInstanceInput{
			UserID:     userID,
			InstanceID: instance.ID,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.deleted) != 1 {
			t.Error("instance was not deleted")
		}
	})

	t.Run("RejectsForeignInstance", func(t *testing.T) {
		repo := newFakeInstanceRepo(instance)
		uc := NewDeleteInstanceUseCase(repo)

		err := uc.Execute(context.Background(), DeleteInstanceInput{
			UserID:     uuid.New(),
			InstanceID: instance.ID,
		})
		assertBudgetErrorCode(t, err, domainerror.ErrCodeUnauthorizedBudgetAccess)
		if len(repo.deleted) != 0 {
			t.Error("foreign instance must not be deleted")
		}
	})
}
