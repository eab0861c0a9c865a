package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the bot API used by handlers. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles inline keyboard presses. data is the callback
// payload with the registered prefix removed.
type CallbackHandler interface {
	HandleCallback(bot Sender, query *tgbotapi.CallbackQuery, data string) error
}

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:    logger,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback routes callback data of the form "<prefix>:<payload>"
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
	r.logger.Debugf("Registered callback: %s", prefix)
}

// Commands returns the registered command names
func (r *Router) Commands() []string {
	out := make([]string, 0, len(r.handlers))
	for cmd := range r.handlers {
		out = append(out, cmd)
	}
	return out
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot Sender, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	fields := logrus.Fields{
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
		"text":       message.Text,
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	r.logger.WithFields(fields).Info("Received message")

	// Only text commands are handled
	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
		}).Warn("Unknown command")

		r.send(bot, tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /help to see available commands."))
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"error":   err,
		}).Error("Command handler failed")

		r.send(bot, tgbotapi.NewMessage(message.Chat.ID, "❌ An error occurred while processing your command. Please try again."))
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(bot Sender, query *tgbotapi.CallbackQuery) {
	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"data":        query.Data,
	}).Info("Received callback query")

	prefix, data, _ := strings.Cut(query.Data, ":")
	handler, exists := r.callbacks[prefix]
	if !exists {
		r.answer(bot, query.ID, "")
		r.logger.WithField("data", query.Data).Warn("Unknown callback")
		return
	}

	if err := handler.HandleCallback(bot, query, data); err != nil {
		r.logger.WithFields(logrus.Fields{
			"prefix": prefix,
			"error":  err,
		}).Error("Callback handler failed")
		r.answer(bot, query.ID, "❌ Something went wrong")
	}
}

func (r *Router) answer(bot Sender, id, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		r.logger.WithError(err).Warn("Failed to answer callback")
	}
}

func (r *Router) send(bot Sender, c tgbotapi.Chattable) {
	if _, err := bot.Send(c); err != nil {
		r.logger.WithError(err).Error("Failed to send message")
	}
}
