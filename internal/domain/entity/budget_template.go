// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/domain/valueobject"
)

// BudgetTemplate represents a user-defined recurring budget definition.
// Due periods are materialized into BudgetInstance records by the
// generation engine; LastGeneratedPeriodEnd is the watermark marking the
// end boundary of the most recently materialized period and only ever
// advances forward in time.
type BudgetTemplate struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	CategoryID             uuid.UUID
	Name                   string
	Amount                 decimal.Decimal
	Currency               string
	Rule                   valueobject.RecurrenceRule
	IsActive               bool
	LastGeneratedPeriodEnd *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              *time.Time // Soft-delete support
}

// NewBudgetTemplate creates a new BudgetTemplate entity.
func NewBudgetTemplate(
	userID, categoryID uuid.UUID,
	name string,
	amount decimal.Decimal,
	currency string,
	rule valueobject.RecurrenceRule,
) *BudgetTemplate {
	now := time.Now().UTC()

	return &BudgetTemplate{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Name:       name,
		Amount:     amount,
		Currency:   currency,
		Rule:       rule,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Eligible reports whether the template participates in generation.
// Soft-deleted or paused templates are never processed.
func (t *BudgetTemplate) Eligible() bool {
	return t.IsActive && t.DeletedAt == nil
}
