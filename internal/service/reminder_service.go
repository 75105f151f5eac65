package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
)

// DefaultPreview is how many urgent tasks an alert lists before summarising the rest.
const DefaultPreview = 4

// ReminderService builds human-readable urgency alerts.
type ReminderService struct {
	urgency *UrgencyService
	preview int
}

func NewReminderService(urgency *UrgencyService, preview int) *ReminderService {
	if preview <= 0 {
		preview = DefaultPreview
	}
	return &ReminderService{urgency: urgency, preview: preview}
}

// UrgentSummary returns the alert text and the number of urgent tasks.
// The text is empty when nothing is urgent.
func (s *ReminderService) UrgentSummary(ctx context.Context, today date.Date) (string, int, error) {
	urgent, err := s.urgency.ListUrgent(ctx, today)
	if err != nil {
		return "", 0, err
	}
	if len(urgent) == 0 {
		return "", 0, nil
	}

	shown, rest := Preview(urgent, s.preview)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("⏰ <b>%d task(s) due today, tomorrow, or overdue</b>\n", len(urgent)))
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", today))
	for _, task := range shown {
		builder.WriteString(FormatTaskHTML(task, today))
	}
	if rest > 0 {
		builder.WriteString(fmt.Sprintf("… and %d more\n", rest))
	}

	return strings.TrimSpace(builder.String()), len(urgent), nil
}

// FormatTaskHTML renders one task as a Telegram HTML line with its due date
// and lateness annotation.
func FormatTaskHTML(task model.Task, today date.Date) string {
	var sb strings.Builder

	icon := "🟢"
	late, err := LatenessOf(task, today)
	switch {
	case task.IsCompleted():
		icon = "✅"
	case err != nil:
		icon = "❔"
	case late.Late:
		icon = "⚠️"
	case task.DueDate != "" && late.Days >= -1:
		icon = "⏳"
	}

	sb.WriteString(fmt.Sprintf("%s <b>#%d</b> %s", icon, task.ID, html.EscapeString(strings.TrimSpace(task.Title))))
	if owner := strings.TrimSpace(task.Owner); owner != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(owner)))
	}

	if task.DueDate != "" {
		sb.WriteString(fmt.Sprintf("\n   📅 %s", html.EscapeString(task.DueDate)))
		if err == nil && late.Late {
			sb.WriteString(fmt.Sprintf(" · <b>%d day(s) late</b>", late.Days))
		}
	}
	if task.Recurrence != model.RecurNone && task.Recurrence != "" {
		sb.WriteString(fmt.Sprintf("\n   ♻️ %s", task.Recurrence))
	}

	sb.WriteByte('\n')
	return sb.String()
}
