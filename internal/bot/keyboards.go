package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-tracker/internal/model"
)

const (
	btnSkip     = "⏭️ Skip"
	btnCancel   = "⏪ Cancel"
	btnToday    = "today"
	btnTomorrow = "tomorrow"
)

// maxOwnerButtons bounds the owner suggestion keyboard.
const maxOwnerButtons = 9

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// ownerKeyboard suggests known owners, three per row.
func ownerKeyboard(owners []string) tgbotapi.ReplyKeyboardMarkup {
	if len(owners) > maxOwnerButtons {
		owners = owners[:maxOwnerButtons]
	}

	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, owner := range owners {
		row = append(row, tgbotapi.NewKeyboardButton(owner))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnSkip),
		tgbotapi.NewKeyboardButton(btnCancel),
	))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func dueDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnTomorrow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func recurrenceKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var first, second []tgbotapi.KeyboardButton
	for i, rule := range model.Recurrences {
		button := tgbotapi.NewKeyboardButton(string(rule))
		if i < 3 {
			first = append(first, button)
		} else {
			second = append(second, button)
		}
	}
	kb := tgbotapi.NewReplyKeyboard(first, second, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func confirmKeyboard(id uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("%s%d", cbConfirmPrefix, id)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep", fmt.Sprintf("%s%d", cbCancelPrefix, id)),
		),
	)
}

// taskButtons offers complete or reopen, plus delete.
func taskButtons(task model.Task) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if task.IsCompleted() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("↩️ #%d · %s", task.ID, shortTitle(task.Title, 20)),
			fmt.Sprintf("%s%d", cbReopenPrefix, task.ID)))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 20)),
			fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)))
	return row
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}
