package model

import (
	"strings"

	"task-tracker/internal/taskerr"
)

// DefaultOwner is used when a task is created without an owner.
const DefaultOwner = "General"

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// ParseStatus maps text to a Status. Legacy Portuguese labels are accepted.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "pendente", "open":
		return StatusPending, nil
	case "completed", "concluida", "done":
		return StatusCompleted, nil
	}
	return "", taskerr.Validationf("unknown status %q", raw)
}

// Recurrence is the rule that advances a completed task's due date.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
	RecurYearly  Recurrence = "yearly"
)

// Recurrences lists every rule in display order.
var Recurrences = []Recurrence{RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly}

// Valid reports whether r is one of the known rules.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// ParseRecurrence maps text to a Recurrence. Empty input means none.
func ParseRecurrence(raw string) (Recurrence, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "não repete", "nao repete", "no":
		return RecurNone, nil
	case "daily", "diária", "diaria":
		return RecurDaily, nil
	case "weekly", "semanal":
		return RecurWeekly, nil
	case "monthly", "mensal":
		return RecurMonthly, nil
	case "yearly", "annual", "anual":
		return RecurYearly, nil
	}
	return "", taskerr.Validationf("unknown recurrence %q", raw)
}

// Task is a single tracked item. Dates are stored as DD/MM/YYYY text and
// timestamps as DD/MM/YYYY HH:MM; empty text means absent.
type Task struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Status      Status     `gorm:"index;not null;default:pending" json:"status"`
	Owner       string     `gorm:"index" json:"owner"`
	DueDate     string     `json:"due_date,omitempty"`
	CreatedAt   string     `gorm:"column:created_at" json:"created_at"`
	CompletedAt string     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Recurrence  Recurrence `gorm:"not null;default:none" json:"recurrence"`
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Recurs reports whether completing the task should spawn a successor.
func (t Task) Recurs() bool {
	return t.Recurrence != RecurNone && t.Recurrence != "" && t.DueDate != ""
}
