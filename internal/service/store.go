package service

import (
	"context"

	"task-tracker/internal/model"
)

// TaskStore is the persistence contract the services depend on.
// Get, UpdateStatus and Delete return a taskerr.ErrNotFound error for unknown ids.
type TaskStore interface {
	Insert(ctx context.Context, task *model.Task) (uint, error)
	Get(ctx context.Context, id uint) (*model.Task, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id uint, status model.Status, completedAt string) error
	Delete(ctx context.Context, id uint) error
	DistinctOwners(ctx context.Context) ([]string, error)
}
