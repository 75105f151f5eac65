package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
	"task-tracker/internal/taskerr"
)

const (
	cbCompletePrefix = "complete:"
	cbReopenPrefix   = "reopen:"
	cbDeletePrefix   = "delete:"
	cbConfirmPrefix  = "confirm:"
	cbCancelPrefix   = "cancel:"
)

// listLimit caps how many tasks one list message shows.
const listLimit = 30

// Deps are the services the bot talks to.
type Deps struct {
	Subscribers *repository.SubscriberRepository
	Tasks       *service.TaskService
	Search      *service.SearchService
	Reports     *service.ReportService
	Reminders   *service.ReminderService
	Location    *time.Location
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	deps          Deps
	conversations map[int64]*conversationState
	confirmations map[int64]uint
	mu            sync.Mutex
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		deps:          deps,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]uint),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("[warn] handle callback: %v", err)
			}
		case update.Message != nil:
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("[warn] handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) today() date.Date {
	return date.FromTime(time.Now().In(b.deps.Location))
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if isCancelInput(msg.Text) {
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	}

	if b.hasConversation(msg.Chat.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Send /new to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "stop":
		if err := b.deps.Subscribers.Unsubscribe(ctx, chatID); err != nil {
			return err
		}
		return b.sendText(chatID, "🔕 Alerts are off. Send /start to turn them back on.")
	case "help":
		return b.sendText(chatID, helpText)
	case "new":
		return b.startNewTaskConversation(ctx, chatID)
	case "tasks":
		return b.sendTaskList(ctx, chatID, model.StatusPending)
	case "done_list":
		return b.sendTaskList(ctx, chatID, model.StatusCompleted)
	case "complete":
		return b.withTaskID(chatID, args, "/complete 12", func(id uint) error {
			return b.completeTask(ctx, chatID, id)
		})
	case "reopen":
		return b.withTaskID(chatID, args, "/reopen 12", func(id uint) error {
			return b.reopenTask(ctx, chatID, id)
		})
	case "delete":
		return b.withTaskID(chatID, args, "/delete 12", func(id uint) error {
			return b.askDeleteConfirmation(ctx, chatID, id)
		})
	case "search":
		return b.handleSearch(ctx, chatID, args)
	case "urgent":
		return b.handleUrgent(ctx, chatID)
	case "report":
		return b.handleReport(ctx, chatID)
	case "cancel":
		b.clearConversation(chatID)
		b.clearConfirmation(chatID)
		return b.sendText(chatID, "⏪ Cancelled.")
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /new — add a task step by step\n" +
	"• /tasks — pending tasks with complete and delete buttons\n" +
	"• /done_list — completed tasks with reopen buttons\n" +
	"• /complete &lt;id&gt; — mark a task as done\n" +
	"• /reopen &lt;id&gt; — move a task back to pending\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /search &lt;text&gt; — find tasks by title or owner\n" +
	"• /urgent — tasks due today, tomorrow, or overdue\n" +
	"• /report — totals per owner\n" +
	"• /stop — turn alerts off\n" +
	"• /cancel — abort the current input"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.deps.Subscribers.Subscribe(ctx, msg.Chat.ID, msg.From.FirstName, msg.From.UserName); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of tasks and remind you of the urgent ones.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) withTaskID(chatID int64, args, example string, fn func(uint) error) error {
	if args == "" {
		return b.sendText(chatID, fmt.Sprintf("Give me a task ID: %s", example))
	}
	id, err := strconv.ParseUint(args, 10, 64)
	if err != nil {
		return b.sendText(chatID, "The task ID must be a number.")
	}
	return fn(uint(id))
}

func (b *Bot) completeTask(ctx context.Context, chatID int64, id uint) error {
	change, err := b.deps.Tasks.Complete(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}

	log.Printf("[info] task completed id=%d chat=%d", id, chatID)
	text := fmt.Sprintf("✅ «%s» is done.", escape(change.Task.Title))
	if change.Next != nil {
		text += fmt.Sprintf("\n♻️ Next one (#%d) is due %s.", change.Next.ID, change.Next.DueDate)
	}
	return b.sendText(chatID, text)
}

func (b *Bot) reopenTask(ctx context.Context, chatID int64, id uint) error {
	change, err := b.deps.Tasks.Reopen(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}
	log.Printf("[info] task reopened id=%d chat=%d", id, chatID)
	return b.sendText(chatID, fmt.Sprintf("↩️ «%s» is pending again.", escape(change.Task.Title)))
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, id uint) error {
	task, err := b.deps.Tasks.Get(ctx, id)
	if err != nil {
		return b.sendError(chatID, err)
	}

	b.setConfirmation(chatID, task.ID)
	text := fmt.Sprintf("Delete «%s» (#%d)?", escape(task.Title), task.ID)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard(task.ID))
}

func (b *Bot) deleteTask(ctx context.Context, chatID int64, id uint) error {
	if err := b.deps.Tasks.Delete(ctx, id); err != nil {
		return b.sendError(chatID, err)
	}
	log.Printf("[info] task deleted id=%d chat=%d", id, chatID)
	return b.sendText(chatID, fmt.Sprintf("🗑 Task #%d deleted.", id))
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, term string) error {
	tasks, err := b.deps.Search.Search(ctx, term)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, fmt.Sprintf("Nothing matches «%s».", escape(term)))
	}

	header := fmt.Sprintf("🔎 <b>%d result(s)</b>", len(tasks))
	return b.sendTasks(chatID, header, tasks)
}

func (b *Bot) handleUrgent(ctx context.Context, chatID int64) error {
	text, count, err := b.deps.Reminders.UrgentSummary(ctx, b.today())
	if err != nil {
		return b.sendError(chatID, err)
	}
	if count == 0 {
		return b.sendText(chatID, "🎉 Nothing is due today or tomorrow, and nothing is overdue.")
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleReport(ctx context.Context, chatID int64) error {
	report, err := b.deps.Reports.Report(ctx)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(report) == 0 {
		return b.sendText(chatID, "No tasks yet. Add one with /new.")
	}
	return b.sendText(chatID, formatReport(report))
}

// SendUrgentAlerts sends the urgency summary to every subscribed chat.
func (b *Bot) SendUrgentAlerts(ctx context.Context) error {
	subscribers, err := b.deps.Subscribers.ListAll(ctx)
	if err != nil {
		return err
	}

	text, count, err := b.deps.Reminders.UrgentSummary(ctx, b.today())
	if err != nil {
		return err
	}
	if count == 0 {
		log.Printf("[info] no urgent tasks, skipping alerts")
		return nil
	}

	for _, sub := range subscribers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.ChatID, text); err != nil {
			log.Printf("[warn] send alert to %d: %v", sub.ChatID, err)
		}
	}
	log.Printf("[info] urgent alert (%d tasks) sent to %d chats", count, len(subscribers))
	return nil
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, status model.Status) error {
	tasks, err := b.deps.Tasks.ListByStatus(ctx, status)
	if err != nil {
		return b.sendError(chatID, err)
	}
	if len(tasks) == 0 {
		if status == model.StatusCompleted {
			return b.sendText(chatID, "No completed tasks yet.")
		}
		return b.sendText(chatID, "No pending tasks. Add one with /new.")
	}

	header := "📋 <b>Pending tasks</b>"
	if status == model.StatusCompleted {
		header = "✅ <b>Completed tasks</b>"
		service.Rank(tasks)
	} else {
		sortByOwnerAndDue(tasks)
	}
	return b.sendTasks(chatID, header, tasks)
}

// sendTasks renders tasks with one row of action buttons per task.
func (b *Bot) sendTasks(chatID int64, header string, tasks []model.Task) error {
	shown, rest := service.Preview(tasks, listLimit)
	today := b.today()

	var builder strings.Builder
	builder.WriteString(header)
	builder.WriteString("\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range shown {
		builder.WriteString(service.FormatTaskHTML(task, today))
		buttons = append(buttons, taskButtons(task))
	}
	if rest > 0 {
		builder.WriteString(fmt.Sprintf("\n… and %d more", rest))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("[warn] callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data
	log.Printf("[info] callback %q from %d", data, cb.From.ID)

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		if id, err := parseTaskID(data, cbCompletePrefix); err == nil {
			return b.completeTask(ctx, chatID, id)
		}
	case strings.HasPrefix(data, cbReopenPrefix):
		if id, err := parseTaskID(data, cbReopenPrefix); err == nil {
			return b.reopenTask(ctx, chatID, id)
		}
	case strings.HasPrefix(data, cbDeletePrefix):
		if id, err := parseTaskID(data, cbDeletePrefix); err == nil {
			return b.askDeleteConfirmation(ctx, chatID, id)
		}
	case strings.HasPrefix(data, cbConfirmPrefix):
		id, err := parseTaskID(data, cbConfirmPrefix)
		if err != nil {
			return nil
		}
		pending, ok := b.getConfirmation(chatID)
		if !ok || pending != id {
			return b.sendText(chatID, "That confirmation has expired.")
		}
		b.clearConfirmation(chatID)
		return b.deleteTask(ctx, chatID, id)
	case strings.HasPrefix(data, cbCancelPrefix):
		b.clearConfirmation(chatID)
		return b.sendText(chatID, "Kept it.")
	}
	return nil
}

// sendError turns service errors into a reply.
func (b *Bot) sendError(chatID int64, err error) error {
	text := userMessage(err)
	if !errors.Is(err, taskerr.ErrNotFound) && !errors.Is(err, taskerr.ErrValidation) {
		log.Printf("[warn] chat %d: %v", chatID, err)
	}
	return b.sendText(chatID, text)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, taskerr.ErrNotFound):
		return "Task not found."
	case errors.Is(err, taskerr.ErrValidation), errors.Is(err, taskerr.ErrInvalidDate):
		var te *taskerr.Error
		if errors.As(err, &te) {
			return escape(te.Msg)
		}
		return escape(err.Error())
	default:
		return fmt.Sprintf("Something went wrong: %s", escape(err.Error()))
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation(chatID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.confirmations[chatID]
	return id, ok
}

func (b *Bot) setConfirmation(chatID int64, id uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[chatID] = id
}

func (b *Bot) clearConfirmation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, chatID)
}

func parseTaskID(data, prefix string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// sortByOwnerAndDue groups tasks by owner, earliest due date first, undated last.
func sortByOwnerAndDue(tasks []model.Task) {
	due := func(t model.Task) (date.Date, bool) {
		if t.DueDate == "" {
			return date.Date{}, false
		}
		d, err := date.Parse(t.DueDate)
		return d, err == nil
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, c := tasks[i], tasks[j]
		if a.Owner != c.Owner {
			return strings.ToLower(a.Owner) < strings.ToLower(c.Owner)
		}
		da, okA := due(a)
		dc, okC := due(c)
		switch {
		case okA && okC && !da.Equal(dc.Time):
			return da.Before(dc.Time)
		case okA != okC:
			return okA
		}
		return a.ID < c.ID
	})
}

func formatReport(report map[string]service.OwnerStats) string {
	var builder strings.Builder
	builder.WriteString("📊 <b>Tasks per owner</b>\n\n")
	for _, owner := range service.SortedOwners(report) {
		stats := report[owner]
		builder.WriteString(fmt.Sprintf("<b>%s</b> %s\n", escape(owner), progressBar(stats, 10)))
		builder.WriteString(fmt.Sprintf("   %d total · %d done · %d pending\n", stats.Total, stats.Completed, stats.Pending()))
	}
	return strings.TrimSpace(builder.String())
}

// progressBar draws the completed share of width cells.
func progressBar(stats service.OwnerStats, width int) string {
	if stats.Total == 0 || width <= 0 {
		return ""
	}
	filled := stats.Completed * width / stats.Total
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func escape(s string) string {
	return html.EscapeString(s)
}
