package service

import (
	"context"
	"log"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
)

// UrgencyService finds pending tasks that are overdue, due today or due tomorrow.
type UrgencyService struct {
	store TaskStore
}

func NewUrgencyService(store TaskStore) *UrgencyService {
	return &UrgencyService{store: store}
}

// ListUrgent keeps store order. Tasks without a due date are ignored and
// tasks whose stored due date cannot be parsed are logged and skipped.
func (s *UrgencyService) ListUrgent(ctx context.Context, today date.Date) ([]model.Task, error) {
	pending, err := s.store.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}

	limit := today.AddDays(1)
	urgent := make([]model.Task, 0, len(pending))
	for _, task := range pending {
		if task.DueDate == "" {
			continue
		}
		due, err := date.Parse(task.DueDate)
		if err != nil {
			log.Printf("[warn] urgency: skipping task %d: %v", task.ID, err)
			continue
		}
		if !due.After(limit.Time) {
			urgent = append(urgent, task)
		}
	}
	return urgent, nil
}

// Preview returns at most limit tasks and how many were left out.
func Preview(tasks []model.Task, limit int) ([]model.Task, int) {
	if limit <= 0 || len(tasks) <= limit {
		return tasks, 0
	}
	return tasks[:limit], len(tasks) - limit
}
