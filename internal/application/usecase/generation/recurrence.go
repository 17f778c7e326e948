// Package generation contains the recurring budget generation engine: the
// recurrence clock, the generation run, and the trigger guard that
// schedules runs opportunistically on request traffic.
package generation

import (
	"time"

	"github.com/budgetflow/backend/internal/domain/valueobject"
)

// Period is one due occurrence window: [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// OccurrencesDue computes, oldest first, every whole period of the rule's
// cadence that starts at or after lastGeneratedPeriodEnd (or at the anchor
// when the template has never generated) and ends at or before now.
//
// The function is pure: identical inputs always yield identical output, so
// re-evaluating a template on a later run can never produce a period with
// a different boundary.
//
// A rule end date bounds the sequence to whole periods: a trailing period
// that would extend past the end date is excluded entirely, never
// truncated.
func OccurrencesDue(rule valueobject.RecurrenceRule, lastGeneratedPeriodEnd *time.Time, now time.Time) ([]Period, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	var periods []Period
	for i := 0; ; i++ {
		start := nthBoundary(rule, i)
		if start.After(now) {
			break
		}

		end := nthBoundary(rule, i+1)
		if end.After(now) {
			break
		}
		if rule.EndDate != nil && end.After(*rule.EndDate) {
			break
		}

		// Periods tile contiguously, so any period starting before the
		// watermark has already been materialized.
		if lastGeneratedPeriodEnd != nil && start.Before(*lastGeneratedPeriodEnd) {
			continue
		}

		periods = append(periods, Period{Start: start, End: end})
	}

	return periods, nil
}

// NextDueAt returns the instant at which the template's next whole period
// becomes generatable (the end boundary of the first period not yet
// covered by the watermark). The second return value is false when the
// rule's end date leaves no further whole period.
func NextDueAt(rule valueobject.RecurrenceRule, lastGeneratedPeriodEnd *time.Time) (time.Time, bool) {
	if err := rule.Validate(); err != nil {
		return time.Time{}, false
	}

	for i := 0; ; i++ {
		start := nthBoundary(rule, i)
		end := nthBoundary(rule, i+1)
		if rule.EndDate != nil && end.After(*rule.EndDate) {
			return time.Time{}, false
		}
		if lastGeneratedPeriodEnd != nil && start.Before(*lastGeneratedPeriodEnd) {
			continue
		}
		return end, true
	}
}

// nthBoundary returns the n-th period boundary of the rule, counted from
// the anchor (n = 0 is the anchor itself). Boundaries are always computed
// from the anchor, never from the previous boundary, so day-of-month
// clamping cannot accumulate drift.
func nthBoundary(rule valueobject.RecurrenceRule, n int) time.Time {
	steps := n * rule.Interval
	anchor := rule.AnchorDate

	switch rule.Frequency {
	case valueobject.FrequencyDaily:
		return anchor.AddDate(0, 0, steps)
	case valueobject.FrequencyWeekly:
		return anchor.AddDate(0, 0, steps*7)
	case valueobject.FrequencyMonthly:
		return addMonthsClamped(anchor, steps)
	case valueobject.FrequencyYearly:
		return addMonthsClamped(anchor, steps*12)
	}

	// Unreachable after Validate.
	return anchor
}

// addMonthsClamped advances t by the given number of months, clamping the
// day of month to the last day of the target month when the original day
// does not exist there (e.g., the 31st over a 30-day month, or Feb 29
// outside leap years).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// Normalize to the first of the target month, then clamp the day.
	target := time.Date(year, month, 1, hour, minute, sec, t.Nanosecond(), t.Location()).AddDate(0, months, 0)
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
