package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageOwner
	stageDueDate
	stageRecurrence
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

func (b *Bot) startNewTaskConversation(ctx context.Context, chatID int64) error {
	log.Printf("[info] start new task conversation chat=%d", chatID)
	b.clearConfirmation(chatID)
	b.setConversation(chatID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(chatID, "🆕 New task.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	state := b.getConversation(chatID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title cannot be empty. What is the task called?", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageOwner

		owners, err := b.deps.Reports.Owners(ctx)
		if err != nil {
			log.Printf("[warn] load owners: %v", err)
		}
		return b.sendWithReplyMarkup(chatID, "👤 <b>Step 2:</b> who owns it? Pick one or type a name.", ownerKeyboard(owners))
	case stageOwner:
		if !isSkipInput(text) {
			state.input.Owner = text
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(chatID, "📅 <b>Step 3:</b> due date as <code>DD/MM/YYYY</code>, <code>today</code> or <code>tomorrow</code>.", dueDateKeyboard())
	case stageDueDate:
		if !isSkipInput(text) {
			due, err := date.ParseInput(text, b.today())
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "I cannot read that date. Use <code>DD/MM/YYYY</code> or skip.", dueDateKeyboard())
			}
			state.input.DueDate = &due
		}
		state.stage = stageRecurrence
		return b.sendWithReplyMarkup(chatID, "🔁 <b>Step 4:</b> does it repeat?", recurrenceKeyboard())
	case stageRecurrence:
		rule, err := model.ParseRecurrence(text)
		if isSkipInput(text) {
			rule, err = model.RecurNone, nil
		}
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "Pick one of the buttons.", recurrenceKeyboard())
		}
		state.input.Recurrence = rule
		b.clearConversation(chatID)
		return b.finishTaskCreation(ctx, chatID, state.input)
	default:
		b.clearConversation(chatID)
		return b.sendText(chatID, "Conversation reset. Start again with /new.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, input service.TaskInput) error {
	task, err := b.deps.Tasks.Create(ctx, input)
	if err != nil {
		return b.sendError(chatID, err)
	}

	log.Printf("[info] task created id=%d chat=%d recurrence=%s", task.ID, chatID, task.Recurrence)

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(task.Title)))
	summary.WriteString(fmt.Sprintf("• <b>Owner:</b> %s\n", escape(task.Owner)))
	if task.DueDate != "" {
		summary.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", task.DueDate))
	}
	if task.Recurrence != model.RecurNone {
		summary.WriteString(fmt.Sprintf("• <b>Repeats:</b> %s\n", task.Recurrence))
	}
	return b.sendText(chatID, strings.TrimSpace(summary.String()))
}

func (b *Bot) setConversation(chatID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) getConversation(chatID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) hasConversation(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[chatID]
	return ok
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}
