// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstanceStatus represents the lifecycle status of a budget instance.
type InstanceStatus string

const (
	InstanceStatusActive   InstanceStatus = "active"
	InstanceStatusInactive InstanceStatus = "inactive"
)

// BudgetInstance is one concrete budget record materialized from a
// template for a single period. The period window is [PeriodStart,
// PeriodEnd). Amount and currency are copied from the template at
// generation time; later template edits never rewrite an instance.
// TemplateID is a weak reference: the instance outlives template
// deletion, and its own soft-delete flag is independent of the
// template's.
type BudgetInstance struct {
	ID          uuid.UUID
	TemplateID  uuid.UUID
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Amount      decimal.Decimal
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      InstanceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewBudgetInstance materializes an instance from a template for one period.
func NewBudgetInstance(template *BudgetTemplate, periodStart, periodEnd time.Time) *BudgetInstance {
	now := time.Now().UTC()

	return &BudgetInstance{
		ID:          uuid.New(),
		TemplateID:  template.ID,
		UserID:      template.UserID,
		CategoryID:  template.CategoryID,
		Name:        template.Name,
		Amount:      template.Amount,
		Currency:    template.Currency,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      InstanceStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
