// Package valueobject defines immutable value types shared across the domain.
package valueobject

import (
	"time"

	domainerror "github.com/budgetflow/backend/internal/domain/error"
)

// Frequency represents the cadence of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ValidFrequency reports whether f is one of the supported cadences.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurrenceRule describes when a budget template produces new instances.
// AnchorDate is the start of the first period; EndDate, when set, bounds
// generation (periods ending after it are never produced).
type RecurrenceRule struct {
	Frequency  Frequency
	Interval   int
	AnchorDate time.Time
	EndDate    *time.Time
}

// Validate checks that the rule is well-formed.
func (r RecurrenceRule) Validate() error {
	if !ValidFrequency(r.Frequency) {
		return domainerror.NewGenerationError(
			domainerror.ErrCodeInvalidFrequency,
			"frequency must be 'daily', 'weekly', 'monthly', or 'yearly'",
			domainerror.ErrInvalidRecurrenceRule,
		)
	}
	if r.Interval < 1 {
		return domainerror.NewGenerationError(
			domainerror.ErrCodeInvalidInterval,
			"interval must be a positive integer",
			domainerror.ErrInvalidRecurrenceRule,
		)
	}
	if r.AnchorDate.IsZero() {
		return domainerror.NewGenerationError(
			domainerror.ErrCodeMissingAnchorDate,
			"anchor date is required",
			domainerror.ErrInvalidRecurrenceRule,
		)
	}
	if r.EndDate != nil && r.EndDate.Before(r.AnchorDate) {
		return domainerror.NewGenerationError(
			domainerror.ErrCodeInvalidEndDate,
			"end date must not precede the anchor date",
			domainerror.ErrInvalidRecurrenceRule,
		)
	}
	return nil
}
