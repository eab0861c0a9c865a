package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

const helpText = `📚 *PlanMyEvents Help*

*Events:*
• /newevent <name> [people] - Create an event
• /events - Show events
• /use <number> - Select the event to plan
• /delevent <number> - Delete an event

*Menu:*
• /dishes [search] - Browse dishes that suit the current event
• /add <number> - Add a dish to the current event
• /remove <number> - Remove a dish from the current event
• /cart - Show the current menu and its cost
• /clearcart - Empty the current menu

*Shopping:*
• /shoplist - Ingredients to buy for the current event

_Numbers refer to the positions shown by /events, /dishes and /cart._`

func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if err := reply(bot, message.Chat.ID, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent help message")
	return nil
}
