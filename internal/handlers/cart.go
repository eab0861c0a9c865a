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

// ---------------------------------------------------------------------------
// CartHandler – /cart
// ---------------------------------------------------------------------------

// CartHandler shows the current event's menu.
type CartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(svc *service.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{svc: svc, logger: logger}
}

// Handle processes the /cart command.
func (h *CartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	current := h.svc.CurrentEvent()
	if current == nil {
		return replyError(bot, message.Chat.ID, service.ErrNoCurrentEvent)
	}

	items := h.svc.CartForEvent(current.ID)
	if len(items) == 0 {
		return reply(bot, message.Chat.ID,
			fmt.Sprintf("🛒 The menu of *%s* is empty. Add dishes with /dishes.", escape(current.Name)))
	}

	currency := h.svc.Settings().General.Currency
	prices := make(map[string]float64)
	for _, d := range h.svc.Dishes() {
		prices[d.ID] = d.EstimatedPrice
	}

	return reply(bot, message.Chat.ID, formatCart(*current, items, prices,
		h.svc.EventTotal(current.ID), h.svc.TotalPeopleCount(current.ID), currency))
}

func formatCart(event models.Event, items []models.CartItem, prices map[string]float64, total float64, people int, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Menu of %s:*\n\n", escape(event.Name))
	for i, item := range items {
		fmt.Fprintf(&sb, "*%d.* %s · %d people · %s\n",
			i+1, escape(item.DishName), item.PeopleCount, formatMoney(prices[item.DishID], currency))
	}
	fmt.Fprintf(&sb, "\n👥 %d people · 💰 *%s*", people, formatMoney(total, currency))
	return sb.String()
}

// ---------------------------------------------------------------------------
// ClearCartHandler – /clearcart
// ---------------------------------------------------------------------------

// ClearCartHandler empties the current event's menu.
type ClearCartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewClearCartHandler creates a new ClearCartHandler.
func NewClearCartHandler(svc *service.Service, logger *logrus.Logger) *ClearCartHandler {
	return &ClearCartHandler{svc: svc, logger: logger}
}

// Handle processes the /clearcart command.
func (h *ClearCartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	current := h.svc.CurrentEvent()
	if current == nil {
		return replyError(bot, message.Chat.ID, service.ErrNoCurrentEvent)
	}

	if err := h.svc.ClearCart(context.Background(), current.ID); err != nil {
		return replyError(bot, message.Chat.ID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"event_id": current.ID,
	}).Info("Cart cleared from chat")

	return reply(bot, message.Chat.ID, fmt.Sprintf("🧹 The menu of *%s* is now empty.", escape(current.Name)))
}

// ---------------------------------------------------------------------------
// ShoppingListHandler – /shoplist
// ---------------------------------------------------------------------------

// ShoppingListHandler sends the ingredients to buy for the current event.
type ShoppingListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(svc *service.Service, logger *logrus.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{svc: svc, logger: logger}
}

// Handle processes the /shoplist command.
func (h *ShoppingListHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	current := h.svc.CurrentEvent()
	if current == nil {
		return replyError(bot, message.Chat.ID, service.ErrNoCurrentEvent)
	}

	list := h.svc.GenerateShoppingList(current.ID)
	if len(list) == 0 {
		return reply(bot, message.Chat.ID,
			fmt.Sprintf("📝 Nothing to buy for *%s* yet. Add dishes with /dishes.", escape(current.Name)))
	}

	return reply(bot, message.Chat.ID, formatShoppingList(*current, list, h.svc.Settings().General.Currency))
}

func formatShoppingList(event models.Event, list []models.ShoppingListItem, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 *Shopping list for %s:*\n\n", escape(event.Name))
	for _, item := range list {
		fmt.Fprintf(&sb, "• *%s*: %s %s", escape(item.ProductName), formatQuantity(item.TotalQuantity), escape(item.Unit))
		if item.EstimatedPrice > 0 {
			fmt.Fprintf(&sb, " ≈ %s", formatMoney(item.Cost(), currency))
		}
		fmt.Fprintf(&sb, "\n   _for %s_\n", escape(strings.Join(item.Dishes, ", ")))
	}
	fmt.Fprintf(&sb, "\n💰 Estimated total: *%s*", formatMoney(models.ShoppingListTotal(list), currency))
	return sb.String()
}
