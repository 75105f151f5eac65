// Package recurrence computes the next due date of a repeating task.
package recurrence

import (
	"time"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/taskerr"
)

// Next returns the occurrence that follows d under rule.
// Monthly and yearly steps clamp to the last day of the target month,
// so Jan 31 becomes Feb 28/29 and Feb 29 becomes Feb 28 in non-leap years.
func Next(d date.Date, rule model.Recurrence) (date.Date, error) {
	switch rule {
	case model.RecurDaily:
		return d.AddDays(1), nil
	case model.RecurWeekly:
		return d.AddDays(7), nil
	case model.RecurMonthly:
		year, month := d.Year(), d.Month()+1
		if month > 12 {
			month = 1
			year++
		}
		return clamped(year, month, d.Day()), nil
	case model.RecurYearly:
		return clamped(d.Year()+1, d.Month(), d.Day()), nil
	default:
		return date.Date{}, taskerr.Validationf("recurrence %q has no next occurrence", rule)
	}
}

// NextDue parses a stored due date and returns the formatted successor date.
func NextDue(raw string, rule model.Recurrence) (string, error) {
	current, err := date.Parse(raw)
	if err != nil {
		return "", err
	}
	next, err := Next(current, rule)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

func clamped(year int, month time.Month, day int) date.Date {
	if last := date.DaysIn(year, month); day > last {
		day = last
	}
	return date.New(year, month, day)
}
