// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// SuggestionRequest carries the history an amount suggestion is based on.
type SuggestionRequest struct {
	CategoryName string
	Currency     string
	// PastAmounts are the amounts of recently generated instances for the
	// category, newest first.
	PastAmounts []decimal.Decimal
}

// SuggestionResult is a suggested budget amount with a short rationale.
type SuggestionResult struct {
	Amount    decimal.Decimal
	Rationale string
}

// BudgetSuggestionService defines the interface for AI-assisted budget amount suggestions.
type BudgetSuggestionService interface {
	// IsAvailable reports whether the service is configured.
	IsAvailable() bool

	// SuggestAmount proposes a budget amount for the next period.
	SuggestAmount(ctx context.Context, request *SuggestionRequest) (*SuggestionResult, error)
}
