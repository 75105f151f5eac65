package service

import (
	"context"
	"log"
	"strings"
	"time"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/recurrence"
	"task-tracker/internal/taskerr"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title      string
	Owner      string
	DueDate    *date.Date
	Recurrence model.Recurrence
}

// StatusChange is the outcome of a status update. Next is the spawned
// successor of a completed recurring task, if any.
type StatusChange struct {
	Task model.Task  `json:"task"`
	Next *model.Task `json:"next,omitempty"`
}

// TaskService owns task creation, status transitions and deletion.
type TaskService struct {
	store        TaskStore
	defaultOwner string
	now          func() time.Time
}

func NewTaskService(store TaskStore, defaultOwner string) *TaskService {
	if strings.TrimSpace(defaultOwner) == "" {
		defaultOwner = model.DefaultOwner
	}
	return &TaskService{store: store, defaultOwner: defaultOwner, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, taskerr.Validationf("title is required")
	}

	rule := input.Recurrence
	if rule == "" {
		rule = model.RecurNone
	}
	if !rule.Valid() {
		return nil, taskerr.Validationf("unknown recurrence %q", rule)
	}

	owner := strings.TrimSpace(input.Owner)
	if owner == "" {
		owner = s.defaultOwner
	}

	task := model.Task{
		Title:      title,
		Status:     model.StatusPending,
		Owner:      owner,
		CreatedAt:  date.FormatStamp(s.now()),
		Recurrence: rule,
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate.String()
	}

	if _, err := s.store.Insert(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.store.Get(ctx, id)
}

func (s *TaskService) ListByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	if !status.Valid() {
		return nil, taskerr.Validationf("unknown status %q", status)
	}
	return s.store.ListByStatus(ctx, status)
}

// SetStatus moves a task to status. Completing a pending recurring task with a
// due date also spawns its next occurrence; a failed spawn is logged and does
// not fail the transition. Setting the status a task already has changes nothing.
func (s *TaskService) SetStatus(ctx context.Context, id uint, status model.Status) (StatusChange, error) {
	if !status.Valid() {
		return StatusChange{}, taskerr.Validationf("unknown status %q", status)
	}

	task, err := s.store.Get(ctx, id)
	if err != nil {
		return StatusChange{}, err
	}
	if task.Status == status {
		return StatusChange{Task: *task}, nil
	}

	completedAt := ""
	if status == model.StatusCompleted {
		completedAt = date.FormatStamp(s.now())
	}
	if err := s.store.UpdateStatus(ctx, id, status, completedAt); err != nil {
		return StatusChange{}, err
	}

	wasPending := task.Status == model.StatusPending
	task.Status = status
	task.CompletedAt = completedAt
	change := StatusChange{Task: *task}

	if wasPending && status == model.StatusCompleted {
		next, err := s.SpawnNext(ctx, *task)
		if err != nil {
			log.Printf("[warn] task %d completed without successor: %v", task.ID, err)
		}
		change.Next = next
	}
	return change, nil
}

// Complete marks a task as done.
func (s *TaskService) Complete(ctx context.Context, id uint) (StatusChange, error) {
	return s.SetStatus(ctx, id, model.StatusCompleted)
}

// Reopen moves a completed task back to pending.
func (s *TaskService) Reopen(ctx context.Context, id uint) (StatusChange, error) {
	return s.SetStatus(ctx, id, model.StatusPending)
}

// SpawnNext creates the next occurrence of a recurring task. It returns nil
// without error when the task does not recur or has no due date.
func (s *TaskService) SpawnNext(ctx context.Context, task model.Task) (*model.Task, error) {
	if !task.Recurs() {
		return nil, nil
	}

	nextDue, err := recurrence.NextDue(task.DueDate, task.Recurrence)
	if err != nil {
		return nil, err
	}

	next := model.Task{
		Title:      task.Title,
		Status:     model.StatusPending,
		Owner:      task.Owner,
		DueDate:    nextDue,
		CreatedAt:  date.FormatStamp(s.now()),
		Recurrence: task.Recurrence,
	}
	if _, err := s.store.Insert(ctx, &next); err != nil {
		return nil, err
	}
	log.Printf("[info] task %d spawned successor %d due %s", task.ID, next.ID, next.DueDate)
	return &next, nil
}

// Delete removes a task. Successors and predecessors are independent tasks.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}
