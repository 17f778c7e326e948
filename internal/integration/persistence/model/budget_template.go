// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budgetflow/backend/internal/domain/entity"
	"github.com/budgetflow/backend/internal/domain/valueobject"
)

// BudgetTemplateModel represents the budget_templates table in the database.
// The recurrence rule is flattened into columns so ListDue can filter on
// the anchor date without unpacking JSON.
type BudgetTemplateModel struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID                 uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name                   string          `gorm:"type:varchar(100);not null"`
	Amount                 decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency               string          `gorm:"type:varchar(3);not null"`
	Frequency              string          `gorm:"type:varchar(10);not null"`
	RecurrenceInterval     int             `gorm:"not null;default:1"`
	AnchorDate             time.Time       `gorm:"type:date;not null;index"`
	EndDate                *time.Time      `gorm:"type:date"`
	IsActive               bool            `gorm:"not null;default:true;index"`
	LastGeneratedPeriodEnd *time.Time      `gorm:"type:date"`
	CreatedAt              time.Time       `gorm:"not null"`
	UpdatedAt              time.Time       `gorm:"not null"`
	DeletedAt              gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the BudgetTemplateModel.
func (BudgetTemplateModel) TableName() string {
	return "budget_templates"
}

// ToEntity converts a BudgetTemplateModel to a domain BudgetTemplate entity.
func (m *BudgetTemplateModel) ToEntity() *entity.BudgetTemplate {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.BudgetTemplate{
		ID:         m.ID,
		UserID:     m.UserID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		Amount:     m.Amount,
		Currency:   m.Currency,
		Rule: valueobject.RecurrenceRule{
			Frequency:  valueobject.Frequency(m.Frequency),
			Interval:   m.RecurrenceInterval,
			AnchorDate: m.AnchorDate,
			EndDate:    m.EndDate,
		},
		IsActive:               m.IsActive,
		LastGeneratedPeriodEnd: m.LastGeneratedPeriodEnd,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
		DeletedAt:              deletedAt,
	}
}

// BudgetTemplateFromEntity creates a BudgetTemplateModel from a domain entity.
func BudgetTemplateFromEntity(template *entity.BudgetTemplate) *BudgetTemplateModel {
	var deletedAt gorm.DeletedAt
	if template.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *template.DeletedAt, Valid: true}
	}

	return &BudgetTemplateModel{
		ID:                     template.ID,
		UserID:                 template.UserID,
		CategoryID:             template.CategoryID,
		Name:                   template.Name,
		Amount:                 template.Amount,
		Currency:               template.Currency,
		Frequency:              string(template.Rule.Frequency),
		RecurrenceInterval:     template.Rule.Interval,
		AnchorDate:             template.Rule.AnchorDate,
		EndDate:                template.Rule.EndDate,
		IsActive:               template.IsActive,
		LastGeneratedPeriodEnd: template.LastGeneratedPeriodEnd,
		CreatedAt:              template.CreatedAt,
		UpdatedAt:              template.UpdatedAt,
		DeletedAt:              deletedAt,
	}
}
