package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/service"
	"github.com/Kerhoff/planmyevents/internal/telegram"
)

func eventID(e models.Event) string { return e.ID }

// ---------------------------------------------------------------------------
// CreateEventHandler – /newevent <name> [people]
// ---------------------------------------------------------------------------

// CreateEventHandler handles the /newevent command.
type CreateEventHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCreateEventHandler creates a new CreateEventHandler.
func NewCreateEventHandler(svc *service.Service, logger *logrus.Logger) *CreateEventHandler {
	return &CreateEventHandler{svc: svc, logger: logger}
}

// Handle processes the /newevent command.
func (h *CreateEventHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	name, participants := parseEventArgs(args)
	if name == "" {
		return reply(bot, message.Chat.ID,
			"❌ Please provide an event name.\nUsage: `/newevent Shabbat dinner 20`")
	}

	ctx := context.Background()
	id, err := h.svc.CreateEvent(ctx, models.EventInput{Name: name, Participants: participants})
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	selected := h.svc.Settings().Events.AutoSelectCurrentEvent
	if selected {
		if err := h.svc.SetCurrentEvent(ctx, id); err != nil {
			return replyError(bot, message.Chat.ID, err)
		}
	}

	event, err := h.svc.Event(id)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	text := fmt.Sprintf("✅ *Event created!*\n\n🎉 *%s* · %d people", escape(event.Name), event.Participants)
	if selected {
		text += "\n\nIt is now the current event. Add dishes with /dishes."
	} else {
		text += "\n\nSelect it with /events to start planning."
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"event_id": id,
	}).Info("Event created from chat")

	return reply(bot, message.Chat.ID, text)
}

// ---------------------------------------------------------------------------
// EventsHandler – /events
// ---------------------------------------------------------------------------

// EventsHandler lists the events and lets the user select one with an inline
// button.
type EventsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(svc *service.Service, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{svc: svc, logger: logger}
}

// Handle processes the /events command.
func (h *EventsHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	events := h.svc.EventsSorted()
	if len(events) == 0 {
		return reply(bot, message.Chat.ID, "📭 No events yet. Create one with /newevent.")
	}

	currency := h.svc.Settings().General.Currency
	currentID := h.svc.CurrentEventID()

	var sb strings.Builder
	sb.WriteString("📅 *Events:*\n\n")

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, e := range events {
		marker := "▫️"
		if e.ID == currentID {
			marker = "▶️"
		}
		fmt.Fprintf(&sb, "%s *%d.* %s · %d people · %d dishes · %s\n",
			marker, i+1, escape(e.Name), e.Participants,
			len(h.svc.CartForEvent(e.ID)), formatMoney(h.svc.EventTotal(e.ID), currency))

		if e.ID != currentID {
			keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Use %d. %s", i+1, e.Name), "use:"+e.ID),
			))
		}
	}
	sb.WriteString("\n_Select an event with /use <number>._")

	return replyWithKeyboard(bot, message.Chat.ID, sb.String(), keyboard)
}

// HandleCallback selects the event chosen with an inline button.
func (h *EventsHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	if err := h.svc.SetCurrentEvent(context.Background(), data); err != nil {
		if text, ok := userMessage(err); ok {
			return answer(bot, query.ID, text)
		}
		return err
	}

	event, err := h.svc.Event(data)
	if err != nil {
		return answer(bot, query.ID, "❌ Event not found")
	}

	h.logger.WithField("event_id", data).Info("Event selected from chat")
	if err := answer(bot, query.ID, "✅ Now planning "+event.Name); err != nil {
		return err
	}
	if query.Message != nil && query.Message.Chat != nil {
		return reply(bot, query.Message.Chat.ID, fmt.Sprintf("▶️ Now planning *%s*.", escape(event.Name)))
	}
	return nil
}

// ---------------------------------------------------------------------------
// UseHandler – /use <number>
// ---------------------------------------------------------------------------

// UseHandler handles the /use command.
type UseHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewUseHandler creates a new UseHandler.
func NewUseHandler(svc *service.Service, logger *logrus.Logger) *UseHandler {
	return &UseHandler{svc: svc, logger: logger}
}

// Handle processes the /use command.
func (h *UseHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide the event number.\nUsage: `/use 1`")
	}

	event, ok := pick(h.svc.EventsSorted(), args[0], eventID)
	if !ok {
		return replyError(bot, message.Chat.ID, service.ErrEventNotFound)
	}

	if err := h.svc.SetCurrentEvent(context.Background(), event.ID); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"event_id": event.ID,
	}).Info("Event selected from chat")

	return reply(bot, message.Chat.ID, fmt.Sprintf("▶️ Now planning *%s*.", escape(event.Name)))
}

// ---------------------------------------------------------------------------
// DeleteEventHandler – /delevent <number>
// ---------------------------------------------------------------------------

// DeleteEventHandler handles the /delevent command.
type DeleteEventHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteEventHandler creates a new DeleteEventHandler.
func NewDeleteEventHandler(svc *service.Service, logger *logrus.Logger) *DeleteEventHandler {
	return &DeleteEventHandler{svc: svc, logger: logger}
}

// Handle processes the /delevent command.
func (h *DeleteEventHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide the event number.\nUsage: `/delevent 2`")
	}

	event, ok := pick(h.svc.EventsSorted(), args[0], eventID)
	if !ok {
		return replyError(bot, message.Chat.ID, service.ErrEventNotFound)
	}

	if err := h.svc.DeleteEvent(context.Background(), event.ID); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"event_id": event.ID,
	}).Info("Event deleted from chat")

	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 Event *%s* and its menu were deleted.", escape(event.Name)))
}
