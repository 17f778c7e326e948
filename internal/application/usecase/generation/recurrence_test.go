package generation

import (
	"testing"
	"time"

	"github.com/budgetflow/backend/internal/domain/valueobject"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func monthlyRule(anchor time.Time) valueobject.RecurrenceRule {
	return valueobject.RecurrenceRule{
		Frequency:  valueobject.FrequencyMonthly,
		Interval:   1,
		AnchorDate: anchor,
	}
}

func TestOccurrencesDue(t *testing.T) {
	tests := []struct {
		name      string
		rule      valueobject.RecurrenceRule
		watermark *time.Time
		now       time.Time
		want      []Period
	}{
		{
			name: "monthly template due for two whole periods",
			rule: monthlyRule(date(2024, time.January, 1)),
			now:  date(2024, time.March, 15),
			want: []Period{
				{Start: date(2024, time.January, 1), End: date(2024, time.February, 1)},
				{Start: date(2024, time.February, 1), End: date(2024, time.March, 1)},
			},
		},
		{
			name:      "watermark suppresses already generated periods",
			rule:      monthlyRule(date(2024, time.January, 1)),
			watermark: timePtr(date(2024, time.March, 1)),
			now:       date(2024, time.March, 20),
			want:      nil,
		},
		{
			name: "anchor after now yields nothing",
			rule: monthlyRule(date(2030, time.January, 1)),
			now:  date(2024, time.March, 15),
			want: nil,
		},
		{
			name: "current period is excluded until it completes",
			rule: monthlyRule(date(2024, time.January, 1)),
			now:  date(2024, time.January, 31),
			want: nil,
		},
		{
			name: "midnight anchor two months back yields two whole periods mid-day",
			rule: monthlyRule(date(2024, time.January, 15)),
			now:  time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC),
			want: []Period{
				{Start: date(2024, time.January, 15), End: date(2024, time.February, 15)},
				{Start: date(2024, time.February, 15), End: date(2024, time.March, 15)},
			},
		},
		{
			name: "end date excludes the partial trailing period",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyMonthly,
				Interval:   1,
				AnchorDate: date(2024, time.January, 1),
				EndDate:    timePtr(date(2024, time.March, 15)),
			},
			now: date(2024, time.June, 1),
			want: []Period{
				{Start: date(2024, time.January, 1), End: date(2024, time.February, 1)},
				{Start: date(2024, time.February, 1), End: date(2024, time.March, 1)},
			},
		},
		{
			name: "monthly anchored on the 31st clamps over short months",
			rule: monthlyRule(date(2024, time.January, 31)),
			now:  date(2024, time.May, 1),
			want: []Period{
				{Start: date(2024, time.January, 31), End: date(2024, time.February, 29)},
				{Start: date(2024, time.February, 29), End: date(2024, time.March, 31)},
				{Start: date(2024, time.March, 31), End: date(2024, time.April, 30)},
			},
		},
		{
			name: "biweekly interval",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyWeekly,
				Interval:   2,
				AnchorDate: date(2024, time.January, 1),
			},
			now: date(2024, time.February, 1),
			want: []Period{
				{Start: date(2024, time.January, 1), End: date(2024, time.January, 15)},
				{Start: date(2024, time.January, 15), End: date(2024, time.January, 29)},
			},
		},
		{
			name: "daily cadence",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyDaily,
				Interval:   1,
				AnchorDate: date(2024, time.March, 1),
			},
			now: date(2024, time.March, 4),
			want: []Period{
				{Start: date(2024, time.March, 1), End: date(2024, time.March, 2)},
				{Start: date(2024, time.March, 2), End: date(2024, time.March, 3)},
				{Start: date(2024, time.March, 3), End: date(2024, time.March, 4)},
			},
		},
		{
			name: "yearly anchored on leap day clamps to Feb 28",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyYearly,
				Interval:   1,
				AnchorDate: date(2024, time.February, 29),
			},
			now: date(2026, time.March, 1),
			want: []Period{
				{Start: date(2024, time.February, 29), End: date(2025, time.February, 28)},
				{Start: date(2025, time.February, 28), End: date(2026, time.February, 28)},
			},
		},
		{
			name:      "watermark mid-sequence resumes at the next period",
			rule:      monthlyRule(date(2024, time.January, 1)),
			watermark: timePtr(date(2024, time.February, 1)),
			now:       date(2024, time.April, 10),
			want: []Period{
				{Start: date(2024, time.February, 1), End: date(2024, time.March, 1)},
				{Start: date(2024, time.March, 1), End: date(2024, time.April, 1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OccurrencesDue(tt.rule, tt.watermark, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d periods, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("period %d: expected [%s, %s), got [%s, %s)",
						i,
						tt.want[i].Start, tt.want[i].End,
						got[i].Start, got[i].End,
					)
				}
			}
		})
	}
}

func TestOccurrencesDue_Deterministic(t *testing.T) {
	// A template anchored on the 31st evaluated across February must
	// produce identical boundaries on every evaluation: boundaries are
	// computed from the anchor, so clamping cannot drift.
	rule := monthlyRule(date(2024, time.January, 31))
	now := date(2024, time.December, 31)

	first, err := OccurrencesDue(rule, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := OccurrencesDue(rule, nil, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("evaluation %d returned %d periods, expected %d", i, len(again), len(first))
		}
		for j := range again {
			if !again[j].Start.Equal(first[j].Start) || !again[j].End.Equal(first[j].End) {
				t.Fatalf("evaluation %d period %d drifted: got [%s, %s), expected [%s, %s)",
					i, j,
					again[j].Start, again[j].End,
					first[j].Start, first[j].End,
				)
			}
		}
	}

	// March must start where February ended, after the clamp.
	if !first[0].End.Equal(date(2024, time.February, 29)) {
		t.Errorf("expected February boundary on the 29th, got %s", first[0].End)
	}
	if !first[1].End.Equal(date(2024, time.March, 31)) {
		t.Errorf("expected March boundary back on the 31st, got %s", first[1].End)
	}
}

func TestOccurrencesDue_InvalidRule(t *testing.T) {
	tests := []struct {
		name string
		rule valueobject.RecurrenceRule
	}{
		{
			name: "unknown frequency",
			rule: valueobject.RecurrenceRule{
				Frequency:  "fortnightly",
				Interval:   1,
				AnchorDate: date(2024, time.January, 1),
			},
		},
		{
			name: "zero interval",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyMonthly,
				Interval:   0,
				AnchorDate: date(2024, time.January, 1),
			},
		},
		{
			name: "missing anchor",
			rule: valueobject.RecurrenceRule{
				Frequency: valueobject.FrequencyMonthly,
				Interval:  1,
			},
		},
		{
			name: "end date before anchor",
			rule: valueobject.RecurrenceRule{
				Frequency:  valueobject.FrequencyMonthly,
				Interval:   1,
				AnchorDate: date(2024, time.June, 1),
				EndDate:    timePtr(date(2024, time.January, 1)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OccurrencesDue(tt.rule, nil, date(2024, time.June, 1)); err == nil {
				t.Error("expected an error for malformed rule")
			}
		})
	}
}

func TestNextDueAt(t *testing.T) {
	t.Run("next due is the end of the first ungenerated period", func(t *testing.T) {
		rule := monthlyRule(date(2024, time.January, 1))
		watermark := date(2024, time.March, 1)

		next, ok := NextDueAt(rule, &watermark)
		if !ok {
			t.Fatal("expected a next due time")
		}
		if !next.Equal(date(2024, time.April, 1)) {
			t.Errorf("expected 2024-04-01, got %s", next)
		}
	})

	t.Run("exhausted rule has no next due time", func(t *testing.T) {
		rule := valueobject.RecurrenceRule{
			Frequency:  valueobject.FrequencyMonthly,
			Interval:   1,
			AnchorDate: date(2024, time.January, 1),
			EndDate:    timePtr(date(2024, time.March, 1)),
		}
		watermark := date(2024, time.March, 1)

		if _, ok := NextDueAt(rule, &watermark); ok {
			t.Error("expected no next due time past the rule end date")
		}
	})
}
