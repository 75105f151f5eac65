package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

var (
	idStyle      = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ownerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	lateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// DisableColor strips all styling from output.
func DisableColor() {
	idStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	ownerStyle = lipgloss.NewStyle()
	lateStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	headerStyle = lipgloss.NewStyle()
	warningStyle = lipgloss.NewStyle()
}

// writeJSON writes data as indented JSON.
func writeJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// taskLine renders one task: completed in green, late in red.
func taskLine(task model.Task, today date.Date) string {
	var sb strings.Builder

	mark := "[ ]"
	if task.IsCompleted() {
		mark = doneStyle.Render("[x]")
	}
	sb.WriteString(fmt.Sprintf("%s %s %s", mark, idStyle.Render(fmt.Sprintf("#%d", task.ID)), task.Title))
	if task.Owner != "" {
		sb.WriteString(" " + ownerStyle.Render("@"+task.Owner))
	}

	if task.DueDate != "" {
		late, err := service.LatenessOf(task, today)
		switch {
		case err != nil:
			sb.WriteString(" " + warningStyle.Render("due:"+task.DueDate+" (unreadable)"))
		case late.Late && task.IsCompleted():
			sb.WriteString(" " + lateStyle.Render(fmt.Sprintf("due:%s (finished %dd late)", task.DueDate, late.Days)))
		case late.Late:
			sb.WriteString(" " + lateStyle.Render(fmt.Sprintf("due:%s (%dd overdue)", task.DueDate, late.Days)))
		default:
			sb.WriteString(" " + dimStyle.Render("due:"+task.DueDate))
		}
	}
	if task.Recurrence != model.RecurNone && task.Recurrence != "" {
		sb.WriteString(" " + dimStyle.Render("↻ "+string(task.Recurrence)))
	}
	return sb.String()
}

func writeTasks(w io.Writer, tasks []model.Task, today date.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks found."))
		return
	}
	for _, task := range tasks {
		fmt.Fprintln(w, taskLine(task, today))
	}
}

// ownerReport is the JSON shape of one report row.
type ownerReport struct {
	Owner     string `json:"owner"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
}

func reportRows(report map[string]service.OwnerStats) []ownerReport {
	rows := make([]ownerReport, 0, len(report))
	for _, owner := range service.SortedOwners(report) {
		stats := report[owner]
		rows = append(rows, ownerReport{Owner: owner, Total: stats.Total, Completed: stats.Completed, Pending: stats.Pending()})
	}
	return rows
}

func writeReport(w io.Writer, report map[string]service.OwnerStats) {
	if len(report) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks found."))
		return
	}

	const pad = 2
	ownerW := len("OWNER") + pad
	for owner := range report {
		ownerW = max(ownerW, lipgloss.Width(owner)+pad)
	}

	header := fmt.Sprintf("%-*s %7s %9s %7s", ownerW, "OWNER", "TOTAL", "COMPLETED", "PENDING")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, row := range reportRows(report) {
		name := row.Owner + strings.Repeat(" ", ownerW-lipgloss.Width(row.Owner))
		fmt.Fprintf(w, "%s %7d %s %7d\n", name, row.Total,
			doneStyle.Render(fmt.Sprintf("%9d", row.Completed)), row.Pending)
	}
}
