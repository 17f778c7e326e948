// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/budgetflow/backend/internal/application/adapter"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
	"github.com/budgetflow/backend/internal/integration/persistence/model"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// instanceRepository implements the adapter.InstanceRepository interface.
type instanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository creates a new budget instance repository instance.
func NewInstanceRepository(db *gorm.DB) adapter.InstanceRepository {
	return &instanceRepository{
		db: db,
	}
}

// CreateIfAbsent inserts the instance, mapping a unique violation on
// (template_id, period_start) to OutcomeAlreadyExists. The insert and the
// duplicate check are a single statement, so two concurrent runs racing on
// the same period resolve to exactly one row with no lost update.
func (r *instanceRepository) CreateIfAbsent(ctx context.Context, instance *entity.BudgetInstance) (adapter.CreateOutcome, error) {
	instanceModel := model.BudgetInstanceFromEntity(instance)
	result := r.db.WithContext(ctx).Create(instanceModel)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return adapter.OutcomeAlreadyExists, nil
		}
		return "", result.Error
	}
	return adapter.OutcomeCreated, nil
}

// isUniqueViolation recognizes unique constraint violations from PostgreSQL
// (production) and SQLite (tests).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}

// FindByID retrieves an instance by its ID.
func (r *instanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BudgetInstance, error) {
	var instanceModel model.BudgetInstanceModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&instanceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInstanceNotFound
		}
		return nil, result.Error
	}
	return instanceModel.ToEntity(), nil
}

// FindByUserID retrieves instances for a user, newest period first.
func (r *instanceRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter adapter.InstanceFilter) ([]*entity.BudgetInstance, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.From != nil {
		query = query.Where("period_end > ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("period_start < ?", *filter.To)
	}
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}

	var instanceModels []model.BudgetInstanceModel
	result := query.Order("period_start DESC").Find(&instanceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	instances := make([]*entity.BudgetInstance, len(instanceModels))
	for i, im := range instanceModels {
		instances[i] = im.ToEntity()
	}
	return instances, nil
}

// Update updates an existing instance in the database.
func (r *instanceRepository) Update(ctx context.Context, instance *entity.BudgetInstance) error {
	instanceModel := model.BudgetInstanceFromEntity(instance)
	result := r.db.WithContext(ctx).Save(instanceModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes an instance from the database (soft delete via gorm.DeletedAt).
// The soft-deleted row keeps its (template_id, period_start) slot, so the
// generation engine never recreates a budget the user deleted.
func (r *instanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.BudgetInstanceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrInstanceNotFound
	}
	return nil
}
