// Package date provides a Date type stored as DD/MM/YYYY text and the
// DD/MM/YYYY HH:MM timestamp format used for created/completed times.
package date

import (
	"strings"
	"time"

	"task-tracker/internal/taskerr"
)

const (
	Layout      = "02/01/2006"
	StampLayout = "02/01/2006 15:04"
	isoLayout   = "2006-01-02"
)

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the clock part of t, keeping its local calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a stored DD/MM/YYYY string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, taskerr.InvalidDatef("%q: expected DD/MM/YYYY", s)
	}
	return Date{t}, nil
}

// ParseInput accepts what people type: DD/MM/YYYY, YYYY-MM-DD, "today" or "tomorrow".
func ParseInput(s string, today Date) (Date, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	switch clean {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	if t, err := time.Parse(isoLayout, clean); err == nil {
		return Date{t}, nil
	}
	return Parse(clean)
}

// String returns the date as DD/MM/YYYY.
func (d Date) String() string {
	return d.Format(Layout)
}

// AddDays returns d moved by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// DaysSince returns d - other in whole days. Unix seconds avoid the
// ~292 year limit of time.Duration.
func (d Date) DaysSince(other Date) int {
	return int((d.Unix() - other.Unix()) / 86400)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatStamp renders t as DD/MM/YYYY HH:MM.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// ParseStamp parses a stored DD/MM/YYYY HH:MM timestamp.
func ParseStamp(s string) (time.Time, error) {
	t, err := time.Parse(StampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, taskerr.InvalidDatef("%q: expected DD/MM/YYYY HH:MM", s)
	}
	return t, nil
}
