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

func dishID(d models.Dish) string { return d.ID }

// addDish adds a catalog dish to the current event and returns the chat text
// describing the outcome.
func addDish(ctx context.Context, svc *service.Service, dish models.Dish) (string, error) {
	if svc.IsDishInEvent(dish.ID, "") {
		return fmt.Sprintf("ℹ️ *%s* is already on the menu.", escape(dish.Name)), nil
	}
	if err := svc.AddDishToCurrentEvent(ctx, dish.ID); err != nil {
		return "", err
	}

	text := fmt.Sprintf("✅ *%s* added to the menu.", escape(dish.Name))
	if current := svc.CurrentEvent(); current != nil && !service.DishCompatible(dish, *current) {
		text += fmt.Sprintf("\n⚠️ It is %s while the event is %s.", dish.KosherType, current.FoodType)
	}
	return text, nil
}

// ---------------------------------------------------------------------------
// DishesHandler – /dishes [search]
// ---------------------------------------------------------------------------

// DishesHandler lists active dishes that suit the current event.
type DishesHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDishesHandler creates a new DishesHandler.
func NewDishesHandler(svc *service.Service, logger *logrus.Logger) *DishesHandler {
	return &DishesHandler{svc: svc, logger: logger}
}

// Handle processes the /dishes command. Dishes are numbered by their
// position in the full catalog so the numbers work with /add.
func (h *DishesHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	filter := models.DishFilter{
		Query:      strings.Join(args, " "),
		ActiveOnly: true,
	}
	current := h.svc.CurrentEvent()
	if current != nil {
		filter.CompatibleWith = current.FoodType
	}

	matches := h.svc.SearchDishes(filter)
	if len(matches) == 0 {
		return reply(bot, message.Chat.ID, "🔍 No matching dishes.")
	}

	position := make(map[string]int)
	for i, d := range h.svc.Dishes() {
		position[d.ID] = i + 1
	}
	currency := h.svc.Settings().General.Currency

	var sb strings.Builder
	if current != nil {
		fmt.Fprintf(&sb, "🍽 *Dishes for %s:*\n\n", escape(current.Name))
	} else {
		sb.WriteString("🍽 *Dishes:*\n\n")
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, d := range matches {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n…and %d more. Narrow it down with /dishes <search>.", len(matches)-maxListed)
			break
		}

		inCart := current != nil && h.svc.IsDishInEvent(d.ID, current.ID)
		marker := "•"
		if inCart {
			marker = "✅"
		}
		fmt.Fprintf(&sb, "%s *%d.* %s · %s · serves %d · %s\n",
			marker, position[d.ID], escape(d.Name), d.KosherType, d.ServingSize,
			formatMoney(d.EstimatedPrice, currency))

		if current != nil && !inCart {
			keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ %d. %s", position[d.ID], d.Name), "add:"+d.ID),
			))
		}
	}

	if current == nil {
		sb.WriteString("\n_Select an event with /events to add dishes._")
	}
	return replyWithKeyboard(bot, message.Chat.ID, sb.String(), keyboard)
}

// HandleCallback adds the dish chosen with an inline button.
func (h *DishesHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	dish, err := h.svc.Dish(data)
	if err != nil {
		return answer(bot, query.ID, "❌ Dish not found")
	}

	text, err := addDish(context.Background(), h.svc, dish)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			return answer(bot, query.ID, msg)
		}
		return err
	}

	if err := answer(bot, query.ID, "✅ "+dish.Name); err != nil {
		return err
	}
	if query.Message != nil && query.Message.Chat != nil {
		return reply(bot, query.Message.Chat.ID, text)
	}
	return nil
}

// ---------------------------------------------------------------------------
// AddDishHandler – /add <number>
// ---------------------------------------------------------------------------

// AddDishHandler handles the /add command.
type AddDishHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddDishHandler creates a new AddDishHandler.
func NewAddDishHandler(svc *service.Service, logger *logrus.Logger) *AddDishHandler {
	return &AddDishHandler{svc: svc, logger: logger}
}

// Handle processes the /add command.
func (h *AddDishHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide the dish number from /dishes.\nUsage: `/add 3`")
	}

	dish, ok := pick(h.svc.Dishes(), args[0], dishID)
	if !ok {
		return replyError(bot, message.Chat.ID, service.ErrDishNotFound)
	}

	text, err := addDish(context.Background(), h.svc, dish)
	if err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"dish_id": dish.ID,
	}).Info("Dish added from chat")

	return reply(bot, message.Chat.ID, text)
}

// ---------------------------------------------------------------------------
// RemoveDishHandler – /remove <number>
// ---------------------------------------------------------------------------

// RemoveDishHandler handles the /remove command. Numbers refer to /cart.
type RemoveDishHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewRemoveDishHandler creates a new RemoveDishHandler.
func NewRemoveDishHandler(svc *service.Service, logger *logrus.Logger) *RemoveDishHandler {
	return &RemoveDishHandler{svc: svc, logger: logger}
}

// Handle processes the /remove command.
func (h *RemoveDishHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	current := h.svc.CurrentEvent()
	if current == nil {
		return replyError(bot, message.Chat.ID, service.ErrNoCurrentEvent)
	}
	if len(args) == 0 {
		return reply(bot, message.Chat.ID, "❌ Please provide the dish number from /cart.\nUsage: `/remove 1`")
	}

	item, ok := pick(h.svc.CartForEvent(current.ID), args[0], func(c models.CartItem) string { return c.DishID })
	if !ok {
		return reply(bot, message.Chat.ID, "❌ That dish is not on the menu. Use /cart to see it.")
	}

	if err := h.svc.RemoveDishFromCart(context.Background(), current.ID, item.DishID); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"event_id": current.ID,
		"dish_id":  item.DishID,
	}).Info("Dish removed from chat")

	return reply(bot, message.Chat.ID, fmt.Sprintf("🗑 *%s* removed from the menu.", escape(item.DishName)))
}
