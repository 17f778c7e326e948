// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
	"github.com/budgetflow/backend/internal/integration/persistence/model"
)

// templateRepository implements the adapter.TemplateRepository interface.
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new budget template repository instance.
func NewTemplateRepository(db *gorm.DB) adapter.TemplateRepository {
	return &templateRepository{
		db: db,
	}
}

// Create creates a new budget template in the database.
func (r *templateRepository) Create(ctx context.Context, template *entity.BudgetTemplate) error {
	templateModel := model.BudgetTemplateFromEntity(template)
	result := r.db.WithContext(ctx).Create(templateModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a template by its ID.
func (r *templateRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BudgetTemplate, error) {
	var templateModel model.BudgetTemplateModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&templateModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTemplateNotFound
		}
		return nil, result.Error
	}
	return templateModel.ToEntity(), nil
}

// FindByUserID retrieves all templates for a given user.
func (r *templateRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BudgetTemplate, error) {
	var templateModels []model.BudgetTemplateModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&templateModels)
	if result.Error != nil {
		return nil, result.Error
	}

	templates := make([]*entity.BudgetTemplate, len(templateModels))
	for i, tm := range templateModels {
		templates[i] = tm.ToEntity()
	}
	return templates, nil
}

// Update persists the user-editable template columns. The watermark is
// deliberately not written here: only AdvanceWatermark may move it, so an
// edit racing a generation pass can never push it back to a stale value.
// A map is used so false and nil values overwrite.
func (r *templateRepository) Update(ctx context.Context, template *entity.BudgetTemplate) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetTemplateModel{}).
		Where("id = ?", template.ID).
		Updates(map[string]interface{}{
			"name":       template.Name,
			"amount":     template.Amount,
			"is_active":  template.IsActive,
			"end_date":   template.Rule.EndDate,
			"updated_at": template.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template from the database (soft delete via gorm.DeletedAt).
// Instances already generated from the template are left untouched.
func (r *templateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.BudgetTemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTemplateNotFound
	}
	return nil
}

// ListDue retrieves every active, non-deleted template whose anchor date is
// not after now. gorm's soft-delete scope excludes deleted rows.
func (r *templateRepository) ListDue(ctx context.Context, now time.Time) ([]*entity.BudgetTemplate, error) {
	var templateModels []model.BudgetTemplateModel
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND anchor_date <= ?", true, now).
		Order("anchor_date ASC").
		Find(&templateModels)
	if result.Error != nil {
		return nil, result.Error
	}

	templates := make([]*entity.BudgetTemplate, len(templateModels))
	for i, tm := range templateModels {
		templates[i] = tm.ToEntity()
	}
	return templates, nil
}

// AdvanceWatermark conditionally moves last_generated_period_end forward.
// The WHERE clause makes the update a no-op when the stored watermark is
// already at or past newPeriodEnd, so the move is monotonic even when
// concurrent runs finish out of order.
func (r *templateRepository) AdvanceWatermark(ctx context.Context, templateID uuid.UUID, newPeriodEnd time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetTemplateModel{}).
		Where("id = ? AND (last_generated_period_end IS NULL OR last_generated_period_end < ?)", templateID, newPeriodEnd).
		Update("last_generated_period_end", newPeriodEnd)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
