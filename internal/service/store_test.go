package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"task-tracker/internal/model"
	"task-tracker/internal/taskerr"
)

// memStore is an in-memory TaskStore with monotonic ids.
type memStore struct {
	tasks     map[uint]model.Task
	lastID    uint
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[uint]model.Task)}
}

func (m *memStore) Insert(_ context.Context, task *model.Task) (uint, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.lastID++
	task.ID = m.lastID
	m.tasks[task.ID] = *task
	return task.ID, nil
}

func (m *memStore) Get(_ context.Context, id uint) (*model.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, taskerr.NotFoundf("task %d", id)
	}
	return &task, nil
}

func (m *memStore) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	all, _ := m.ListAll(ctx)
	var out []model.Task
	for _, task := range all {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]model.Task, error) {
	out := make([]model.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uint, status model.Status, completedAt string) error {
	task, ok := m.tasks[id]
	if !ok {
		return taskerr.NotFoundf("task %d", id)
	}
	task.Status = status
	task.CompletedAt = completedAt
	m.tasks[id] = task
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint) error {
	if _, ok := m.tasks[id]; !ok {
		return taskerr.NotFoundf("task %d", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *memStore) DistinctOwners(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var owners []string
	for _, task := range m.tasks {
		if task.Owner != "" && !seen[task.Owner] {
			seen[task.Owner] = true
			owners = append(owners, task.Owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

// seed stores tasks as given, assigning ids in order.
func (m *memStore) seed(t *testing.T, tasks ...model.Task) []uint {
	t.Helper()
	ids := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		if task.Recurrence == "" {
			task.Recurrence = model.RecurNone
		}
		if task.Status == "" {
			task.Status = model.StatusPending
		}
		id, err := m.Insert(context.Background(), &task)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

var errStoreDown = errors.New("store down")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
