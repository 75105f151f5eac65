package recurrence

import (
	"errors"
	"testing"
	"time"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/taskerr"
)

func TestNext_Rules(t *testing.T) {
	tests := []struct {
		name string
		from date.Date
		rule model.Recurrence
		want date.Date
	}{
		{"daily", date.New(2024, time.May, 10), model.RecurDaily, date.New(2024, time.May, 11)},
		{"daily month end", date.New(2024, time.April, 30), model.RecurDaily, date.New(2024, time.May, 1)},
		{"weekly", date.New(2024, time.December, 28), model.RecurWeekly, date.New(2025, time.January, 4)},
		{"monthly", date.New(2024, time.March, 15), model.RecurMonthly, date.New(2024, time.April, 15)},
		{"monthly leap clamp", date.New(2024, time.January, 31), model.RecurMonthly, date.New(2024, time.February, 29)},
		{"monthly clamp", date.New(2023, time.January, 31), model.RecurMonthly, date.New(2023, time.February, 28)},
		{"monthly 31 to 30", date.New(2024, time.March, 31), model.RecurMonthly, date.New(2024, time.April, 30)},
		{"monthly year rollover", date.New(2024, time.December, 31), model.RecurMonthly, date.New(2025, time.January, 31)},
		{"yearly", date.New(2024, time.June, 1), model.RecurYearly, date.New(2025, time.June, 1)},
		{"yearly leap day", date.New(2024, time.February, 29), model.RecurYearly, date.New(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.rule)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Fatalf("Next(%s, %s) = %s, want %s", tt.from, tt.rule, got, tt.want)
			}
		})
	}
}

func TestNext_AdvancesMonotonically(t *testing.T) {
	rules := []model.Recurrence{model.RecurDaily, model.RecurWeekly, model.RecurMonthly, model.RecurYearly}
	start := date.New(2023, time.January, 1)

	for _, rule := range rules {
		for d := start; d.Year() < 2025; d = d.AddDays(1) {
			first, err := Next(d, rule)
			if err != nil {
				t.Fatalf("Next(%s, %s): %v", d, rule, err)
			}
			second, err := Next(first, rule)
			if err != nil {
				t.Fatalf("Next(%s, %s): %v", first, rule, err)
			}
			if !first.After(d.Time) || !second.After(first.Time) {
				t.Fatalf("%s from %s not monotonic: %s -> %s", rule, d, first, second)
			}
		}
	}
}

func TestNext_NoneIsRejected(t *testing.T) {
	_, err := Next(date.New(2024, time.May, 10), model.RecurNone)
	if !errors.Is(err, taskerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNextDue_StoredText(t *testing.T) {
	got, err := NextDue("31/01/2024", model.RecurMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "29/02/2024" {
		t.Fatalf("got %q, want 29/02/2024", got)
	}

	for _, raw := range []string{"2024-01-31", "31/02/2024", "garbage", ""} {
		if _, err := NextDue(raw, model.RecurDaily); !errors.Is(err, taskerr.ErrInvalidDate) {
			t.Fatalf("NextDue(%q): expected invalid date error, got %v", raw, err)
		}
	}
}
