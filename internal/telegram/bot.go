package telegram

import (
	"context"
	"fmt"
	"sort"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// maxInFlight bounds the updates handled concurrently
const maxInFlight = 8

// Bot receives updates by long polling and hands them to the Router
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
	router *Router
	wg     sync.WaitGroup
}

// NewBot authorizes token against the Bot API
func NewBot(token string, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	logger.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	return &Bot{
		api:    api,
		logger: logger,
		router: NewRouter(logger),
	}, nil
}

// Start publishes the command menu and polls for messages and button
// presses until ctx is cancelled. It returns once in-flight updates finish.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	if err := b.publishCommands(); err != nil {
		b.logger.WithError(err).Warn("Failed to publish command menu")
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.WithField("commands", len(b.router.Commands())).Info("Bot polling for updates")

	slots := make(chan struct{}, maxInFlight)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				continue
			}
			b.wg.Add(1)
			go func() {
				defer func() {
					<-slots
					b.wg.Done()
				}()
				b.handleUpdate(update)
			}()
		}
	}
}

// publishCommands sets the chat menu to the registered commands
func (b *Bot) publishCommands() error {
	names := b.router.Commands()
	sort.Strings(names)

	commands := make([]tgbotapi.BotCommand, 0, len(names))
	for _, name := range names {
		commands = append(commands, tgbotapi.BotCommand{
			Command:     name,
			Description: commandDescription(name),
		})
	}
	_, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...))
	return err
}

func commandDescription(name string) string {
	if d, ok := commandDescriptions[name]; ok {
		return d
	}
	return name
}

var commandDescriptions = map[string]string{
	"start":     "Introduction",
	"help":      "List the commands",
	"newevent":  "Create an event",
	"events":    "Show events",
	"use":       "Select the current event",
	"delevent":  "Delete an event",
	"dishes":    "Browse the dish catalog",
	"add":       "Add a dish to the current event",
	"remove":    "Remove a dish from the current event",
	"cart":      "Show the current event's menu",
	"clearcart": "Empty the current event's menu",
	"shoplist":  "Shopping list for the current event",
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"update_id": update.UpdateID,
				"panic":     r,
			}).Error("Update handler panicked")
		}
	}()

	switch {
	case update.Message != nil:
		b.router.HandleMessage(b.api, update.Message)
	case update.CallbackQuery != nil:
		b.router.HandleCallbackQuery(b.api, update.CallbackQuery)
	}
}

// RegisterCommand registers a command handler on the router
func (b *Bot) RegisterCommand(command string, handler CommandHandler) {
	b.router.RegisterCommand(command, handler)
}

// RegisterCallback registers an inline keyboard handler on the router
func (b *Bot) RegisterCallback(prefix string, handler CallbackHandler) {
	b.router.RegisterCallback(prefix, handler)
}
