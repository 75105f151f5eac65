package service

import (
	"task-tracker/internal/date"
	"task-tracker/internal/model"
)

// Lateness is the number of days a task ran past its due date.
type Lateness struct {
	Days int
	Late bool
}

// LatenessOf measures a completed task against its completion date and a
// pending one against today. Tasks without a due date are never late.
func LatenessOf(task model.Task, today date.Date) (Lateness, error) {
	if task.DueDate == "" {
		return Lateness{}, nil
	}
	due, err := date.Parse(task.DueDate)
	if err != nil {
		return Lateness{}, err
	}

	ref := today
	if task.IsCompleted() {
		if task.CompletedAt == "" {
			return Lateness{}, nil
		}
		at, err := date.ParseStamp(task.CompletedAt)
		if err != nil {
			return Lateness{}, err
		}
		ref = date.FromTime(at)
	}

	days := ref.DaysSince(due)
	if days <= 0 {
		return Lateness{Days: days}, nil
	}
	return Lateness{Days: days, Late: true}, nil
}
