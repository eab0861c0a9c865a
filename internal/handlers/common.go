package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/planmyevents/internal/service"
	"github.com/Kerhoff/planmyevents/internal/telegram"
)

// maxListed caps the rows of a catalog listing
const maxListed = 30

func reply(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func replyWithKeyboard(bot telegram.Sender, chatID int64, text string, keyboard [][]tgbotapi.InlineKeyboardButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if len(keyboard) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func answer(bot telegram.Sender, queryID, text string) error {
	if _, err := bot.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// userMessage turns an expected service error into chat text. It returns
// false for errors the user cannot act on.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrNoCurrentEvent):
		return "⚠️ No event is selected. Pick one with /events or create one with /newevent.", true
	case errors.Is(err, service.ErrEventNotFound):
		return "❌ Event not found. Use /events to see the list.", true
	case errors.Is(err, service.ErrDishNotFound):
		return "❌ Dish not found. Use /dishes to browse the catalog.", true
	case errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrInvalidDish),
		errors.Is(err, service.ErrEventIDRequired):
		return "❌ " + escape(err.Error()), true
	}
	return "", false
}

// replyError reports expected errors to the chat and passes the rest on to
// the router.
func replyError(bot telegram.Sender, chatID int64, err error) error {
	if text, ok := userMessage(err); ok {
		return reply(bot, chatID, text)
	}
	return err
}

// pick resolves a user reference to an item: a 1-based position in items or
// an exact id.
func pick[T any](items []T, ref string, id func(T) string) (T, bool) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, false
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	for _, item := range items {
		if id(item) == ref {
			return item, true
		}
	}
	return zero, false
}

// parseEventArgs splits "/newevent Shabbat dinner 20" into the name and an
// optional trailing participant count.
func parseEventArgs(args []string) (name string, participants int) {
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil && n > 0 {
			return strings.Join(args[:len(args)-1], " "), n
		}
	}
	return strings.Join(args, " "), 0
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
