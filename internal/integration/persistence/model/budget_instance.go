// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budgetflow/backend/internal/domain/entity"
)

// BudgetInstanceModel represents the budget_instances table in the database.
// The composite unique index on (template_id, period_start) is what makes
// CreateIfAbsent safe under concurrent generation runs. Soft-deleted rows
// keep the index slot occupied so a deleted instance is not regenerated.
type BudgetInstanceModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TemplateID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_instance_template_period"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	PeriodStart time.Time       `gorm:"type:date;not null;uniqueIndex:idx_instance_template_period"`
	PeriodEnd   time.Time       `gorm:"type:date;not null"`
	Status      string          `gorm:"type:varchar(10);not null;default:'active'"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the BudgetInstanceModel.
func (BudgetInstanceModel) TableName() string {
	return "budget_instances"
}

// ToEntity converts a BudgetInstanceModel to a domain BudgetInstance entity.
func (m *BudgetInstanceModel) ToEntity() *entity.BudgetInstance {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.BudgetInstance{
		ID:          m.ID,
		TemplateID:  m.TemplateID,
		UserID:      m.UserID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Amount:      m.Amount,
		Currency:    m.Currency,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Status:      entity.InstanceStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// BudgetInstanceFromEntity creates a BudgetInstanceModel from a domain entity.
func BudgetInstanceFromEntity(instance *entity.BudgetInstance) *BudgetInstanceModel {
	var deletedAt gorm.DeletedAt
	if instance.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *instance.DeletedAt, Valid: true}
	}

	return &BudgetInstanceModel{
		ID:          instance.ID,
		TemplateID:  instance.TemplateID,
		UserID:      instance.UserID,
		CategoryID:  instance.CategoryID,
		Name:        instance.Name,
		Amount:      instance.Amount,
		Currency:    instance.Currency,
		PeriodStart: instance.PeriodStart,
		PeriodEnd:   instance.PeriodEnd,
		Status:      string(instance.Status),
		CreatedAt:   instance.CreatedAt,
		UpdatedAt:   instance.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}
