package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/service"
	"github.com/Kerhoff/planmyevents/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		svc:    svc,
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	appName := h.svc.Settings().General.AppName

	welcomeText := fmt.Sprintf(`🎉 *Welcome to %s!*

I help you plan the menu of your events and tell you what to buy.

*Getting started:*
1. Create an event with /newevent Shabbat dinner 20
2. Browse dishes with /dishes and add them with /add <number>
3. Check the menu with /cart
4. Get the shopping list with /shoplist

Use /help to see every command.`, escape(appName))

	if err := reply(bot, message.Chat.ID, welcomeText); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent start message")
	return nil
}
