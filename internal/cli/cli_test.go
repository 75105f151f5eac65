package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
	"task-tracker/internal/taskerr"
)

type harness struct {
	t  *testing.T
	db string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{"TELEGRAM_TOKEN", "DATABASE_URL", "DEFAULT_OWNER", "ALERT_TIME", "ALERT_INTERVAL_HOURS", "URGENT_PREVIEW", "TIMEZONE"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
	return &harness{t: t, db: filepath.Join(t.TempDir(), "tasks.db")}
}

// run executes the CLI against the harness database and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", h.db, "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustJSON(v interface{}, args ...string) {
	h.t.Helper()
	out, err := h.run(append([]string{"--json"}, args...)...)
	if err != nil {
		h.t.Fatalf("%v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		h.t.Fatalf("%v: decode %q: %v", args, out, err)
	}
}

func TestAddCompleteSpawnsSuccessor(t *testing.T) {
	h := newHarness(t)

	var created model.Task
	h.mustJSON(&created, "add", "Water", "plants", "--owner", "Ana", "--due", "2024-05-10", "--repeat", "daily")
	if created.Title != "Water plants" || created.DueDate != "10/05/2024" || created.Recurrence != model.RecurDaily {
		t.Fatalf("unexpected task: %+v", created)
	}

	var change service.StatusChange
	h.mustJSON(&change, "done", "1")
	if change.Task.Status != model.StatusCompleted || change.Task.CompletedAt == "" {
		t.Fatalf("unexpected completed task: %+v", change.Task)
	}
	if change.Next == nil || change.Next.DueDate != "11/05/2024" || change.Next.Owner != "Ana" {
		t.Fatalf("unexpected successor: %+v", change.Next)
	}

	var pending []model.Task
	h.mustJSON(&pending, "ls", "--status", "pending")
	if len(pending) != 1 || pending[0].ID != change.Next.ID {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	var reopened service.StatusChange
	h.mustJSON(&reopened, "reopen", "#1")
	if reopened.Task.Status != model.StatusPending || reopened.Task.CompletedAt != "" || reopened.Next != nil {
		t.Fatalf("unexpected reopen: %+v", reopened)
	}
}

func TestSearchAndList(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"add", "Banana bread", "--owner", "Bruno"},
		{"add", "Dentist", "--owner", "Carla"},
		{"add", "Groceries", "--owner", "Ana"},
	} {
		if _, err := h.run(args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	if _, err := h.run("done", "1"); err != nil {
		t.Fatalf("done: %v", err)
	}

	var found []model.Task
	h.mustJSON(&found, "search", "ANA")
	if len(found) != 2 || found[0].ID != 3 || found[1].ID != 1 {
		t.Fatalf("unexpected search results: %+v", found)
	}

	var all []model.Task
	h.mustJSON(&all, "ls")
	if len(all) != 3 || all[0].ID != 3 || all[2].ID != 1 {
		t.Fatalf("unexpected list: %+v", all)
	}

	var padded []model.Task
	h.mustJSON(&padded, "search", "  ANA  ")
	if len(padded) != len(found) {
		t.Fatalf("padded search found %d tasks, want %d", len(padded), len(found))
	}

	out, err := h.run("search", "zzz")
	if err != nil || !strings.Contains(out, "No tasks found.") {
		t.Fatalf("unexpected output %q, %v", out, err)
	}
}

func TestUrgent(t *testing.T) {
	h := newHarness(t)
	for _, due := range []string{"09/05/2024", "10/05/2024", "11/05/2024", "12/05/2024"} {
		if _, err := h.run("add", "due "+due, "--due", due); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	var urgent []model.Task
	h.mustJSON(&urgent, "urgent", "--today", "10/05/2024")
	if len(urgent) != 3 {
		t.Fatalf("expected 3 urgent tasks, got %+v", urgent)
	}
	for _, task := range urgent {
		if task.DueDate == "12/05/2024" {
			t.Fatalf("task due in two days listed as urgent")
		}
	}

	out, err := h.run("urgent", "--today", "10/05/2024")
	if err != nil {
		t.Fatalf("urgent: %v", err)
	}
	if !strings.Contains(out, "3 task(s) due today, tomorrow, or overdue") || !strings.Contains(out, "(1d overdue)") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestReportAndOwners(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{
		{"add", "one", "--owner", "A"},
		{"add", "two", "--owner", "A"},
		{"add", "three", "--owner", "B"},
		{"done", "1"},
		{"done", "3"},
	} {
		if _, err := h.run(args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	var rows []ownerReport
	h.mustJSON(&rows, "report")
	want := []ownerReport{
		{Owner: "A", Total: 2, Completed: 1, Pending: 1},
		{Owner: "B", Total: 1, Completed: 1, Pending: 0},
	}
	if len(rows) != len(want) || rows[0] != want[0] || rows[1] != want[1] {
		t.Fatalf("report = %+v, want %+v", rows, want)
	}

	var owners []string
	h.mustJSON(&owners, "owners")
	if len(owners) != 2 || owners[0] != "A" || owners[1] != "B" {
		t.Fatalf("owners = %v", owners)
	}

	out, err := h.run("report")
	if err != nil || !strings.Contains(out, "OWNER") {
		t.Fatalf("unexpected report output %q, %v", out, err)
	}
}

func TestErrors(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run("rm", "99"); !errors.Is(err, taskerr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := h.run("done", "abc"); !errors.Is(err, taskerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := h.run("add", "  "); !errors.Is(err, taskerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := h.run("add", "x", "--repeat", "hourly"); !errors.Is(err, taskerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := h.run("add", "x", "--due", "someday"); !errors.Is(err, taskerr.ErrInvalidDate) {
		t.Fatalf("expected invalid date error, got %v", err)
	}
	if _, err := h.run("serve"); err == nil || !strings.Contains(err.Error(), "TELEGRAM_TOKEN") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestDeleteThenIDsKeepGrowing(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("add", "a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.run("add", "b"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if out, err := h.run("rm", "2"); err != nil || !strings.Contains(out, "Deleted task #2") {
		t.Fatalf("rm: %q, %v", out, err)
	}

	var created model.Task
	h.mustJSON(&created, "add", "c")
	if created.ID != 3 {
		t.Fatalf("id = %d, want 3", created.ID)
	}
}

func TestMissingConfigFile(t *testing.T) {
	h := newHarness(t)
	missing := filepath.Join(t.TempDir(), "tracker.yaml")
	if _, err := h.run("--config", missing, "ls"); err == nil || !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected config error naming %s, got %v", missing, err)
	}
}
