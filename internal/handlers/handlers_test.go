package handlers

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/repository/memory"
	"github.com/Kerhoff/planmyevents/internal/service"
	"github.com/Kerhoff/planmyevents/internal/storage"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg
}

func newTestService(t *testing.T) (*service.Service, *logrus.Logger) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	store := storage.New(memory.NewKVRepository(), "", logger, nil)
	svc := service.New(store, logger, service.WithoutSeed())
	require.NoError(t, svc.Init(context.Background()))
	return svc, logger
}

func saveDish(t *testing.T, svc *service.Service, name, kosher string, price float64, ingredients ...models.Ingredient) models.Dish {
	t.Helper()

	dish, err := svc.SaveDish(context.Background(), models.Dish{
		Name:           name,
		KosherType:     kosher,
		EstimatedPrice: price,
		ServingSize:    4,
		IsActive:       true,
		Ingredients:    ingredients,
	})
	require.NoError(t, err)
	return dish
}

func chatMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 42},
		From:      &tgbotapi.User{ID: 7},
	}
}

func TestPick(t *testing.T) {
	items := []models.Event{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got, ok := pick(items, "2", eventID)
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	got, ok = pick(items, "c", eventID)
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	_, ok = pick(items, "4", eventID)
	assert.False(t, ok)

	_, ok = pick(items, " ", eventID)
	assert.False(t, ok)
}

func TestParseEventArgs(t *testing.T) {
	tests := []struct {
		args         []string
		name         string
		participants int
	}{
		{[]string{"Shabbat", "dinner", "20"}, "Shabbat dinner", 20},
		{[]string{"Brunch"}, "Brunch", 0},
		{[]string{"42"}, "42", 0},
		{[]string{"Party", "-3"}, "Party -3", 0},
		{nil, "", 0},
	}

	for _, tt := range tests {
		name, participants := parseEventArgs(tt.args)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.participants, participants)
	}
}

func TestFormatShoppingList(t *testing.T) {
	list := []models.ShoppingListItem{
		{ProductName: "flour", TotalQuantity: 300, Unit: "g", EstimatedPrice: 0.01, Dishes: []string{"Cake", "Bread"}},
		{ProductName: "salt", TotalQuantity: 1.5, Unit: "tbsp", Dishes: []string{"Bread"}},
	}

	text := formatShoppingList(models.Event{Name: "Dinner"}, list, "ILS")

	assert.Contains(t, text, "*flour*: 300 g ≈ 3.00 ILS")
	assert.Contains(t, text, "*salt*: 1.5 tbsp\n")
	assert.Contains(t, text, "_for Cake, Bread_")
	assert.Contains(t, text, "Estimated total: *3.00 ILS*")
}

func TestCreateEventHandler(t *testing.T) {
	svc, logger := newTestService(t)
	bot := &fakeSender{}

	err := NewCreateEventHandler(svc, logger).Handle(bot, chatMessage(), []string{"Shabbat", "dinner", "20"})
	require.NoError(t, err)

	current := svc.CurrentEvent()
	require.NotNil(t, current)
	assert.Equal(t, "Shabbat dinner", current.Name)
	assert.Equal(t, 20, current.Participants)
	assert.Contains(t, bot.last(t).Text, "current event")
}

func TestCreateEventHandler_MissingName(t *testing.T) {
	svc, logger := newTestService(t)
	bot := &fakeSender{}

	require.NoError(t, NewCreateEventHandler(svc, logger).Handle(bot, chatMessage(), nil))
	assert.Contains(t, bot.last(t).Text, "Usage")
	assert.Empty(t, svc.Events())
}

func TestAddDishHandler_NoCurrentEvent(t *testing.T) {
	svc, logger := newTestService(t)
	saveDish(t, svc, "Salad", models.KosherParve, 20)
	bot := &fakeSender{}

	err := NewAddDishHandler(svc, logger).Handle(bot, chatMessage(), []string{"1"})
	require.NoError(t, err)
	assert.Contains(t, bot.last(t).Text, "No event is selected")
}

func TestMenuFlow(t *testing.T) {
	svc, logger := newTestService(t)
	ctx := context.Background()
	saveDish(t, svc, "Cake", models.KosherParve, 30,
		models.Ingredient{ProductName: "flour", Quantity: 200, Unit: "g"})
	saveDish(t, svc, "Bread", models.KosherParve, 13,
		models.Ingredient{ProductName: "flour", Quantity: 100, Unit: "g"})

	id, err := svc.CreateEvent(ctx, models.EventInput{Name: "Dinner"})
	require.NoError(t, err)
	require.NoError(t, svc.SetCurrentEvent(ctx, id))

	bot := &fakeSender{}
	add := NewAddDishHandler(svc, logger)

	require.NoError(t, add.Handle(bot, chatMessage(), []string{"1"}))
	assert.Contains(t, bot.last(t).Text, "*Cake* added")

	require.NoError(t, add.Handle(bot, chatMessage(), []string{"1"}))
	assert.Contains(t, bot.last(t).Text, "already on the menu")

	require.NoError(t, add.Handle(bot, chatMessage(), []string{"2"}))
	assert.Len(t, svc.CartForEvent(id), 2)

	require.NoError(t, NewCartHandler(svc, logger).Handle(bot, chatMessage(), nil))
	cart := bot.last(t).Text
	assert.Contains(t, cart, "*1.* Cake · 4 people · 30.00 ILS")
	assert.Contains(t, cart, "43.00 ILS")

	require.NoError(t, NewShoppingListHandler(svc, logger).Handle(bot, chatMessage(), nil))
	assert.Contains(t, bot.last(t).Text, "*flour*: 300 g")

	require.NoError(t, NewRemoveDishHandler(svc, logger).Handle(bot, chatMessage(), []string{"1"}))
	assert.Contains(t, bot.last(t).Text, "*Cake* removed")
	items := svc.CartForEvent(id)
	require.Len(t, items, 1)
	assert.Equal(t, "Bread", items[0].DishName)

	require.NoError(t, NewClearCartHandler(svc, logger).Handle(bot, chatMessage(), nil))
	assert.Empty(t, svc.CartForEvent(id))
}

func TestAddDishHandler_UnknownDish(t *testing.T) {
	svc, logger := newTestService(t)
	bot := &fakeSender{}

	require.NoError(t, NewAddDishHandler(svc, logger).Handle(bot, chatMessage(), []string{"9"}))
	assert.Contains(t, bot.last(t).Text, "Dish not found")
}

func TestEventsHandler_ListAndSelect(t *testing.T) {
	svc, logger := newTestService(t)
	ctx := context.Background()
	first, err := svc.CreateEvent(ctx, models.EventInput{Name: "First"})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, models.EventInput{Name: "Second"})
	require.NoError(t, err)

	bot := &fakeSender{}
	h := NewEventsHandler(svc, logger)
	require.NoError(t, h.Handle(bot, chatMessage(), nil))

	msg := bot.last(t)
	assert.Contains(t, msg.Text, "First")
	assert.Contains(t, msg.Text, "Second")
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 2)

	query := &tgbotapi.CallbackQuery{ID: "q1", Message: chatMessage()}
	require.NoError(t, h.HandleCallback(bot, query, first))
	assert.Equal(t, first, svc.CurrentEventID())
	require.Len(t, bot.requests, 1)
	assert.Contains(t, bot.last(t).Text, "Now planning *First*")

	require.NoError(t, h.HandleCallback(bot, &tgbotapi.CallbackQuery{ID: "q2"}, "missing"))
	cb, ok := bot.requests[1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Contains(t, cb.Text, "Event not found")
}

func TestUseAndDeleteEventHandlers(t *testing.T) {
	svc, logger := newTestService(t)
	ctx := context.Background()
	id, err := svc.CreateEvent(ctx, models.EventInput{Name: "Only"})
	require.NoError(t, err)
	bot := &fakeSender{}

	require.NoError(t, NewUseHandler(svc, logger).Handle(bot, chatMessage(), []string{"1"}))
	assert.Equal(t, id, svc.CurrentEventID())

	require.NoError(t, NewUseHandler(svc, logger).Handle(bot, chatMessage(), []string{"5"}))
	assert.Contains(t, bot.last(t).Text, "Event not found")

	require.NoError(t, NewDeleteEventHandler(svc, logger).Handle(bot, chatMessage(), []string{id}))
	assert.Empty(t, svc.Events())
	assert.Empty(t, svc.CurrentEventID())
}

func TestDishesHandler_FiltersByCurrentEvent(t *testing.T) {
	svc, logger := newTestService(t)
	ctx := context.Background()
	saveDish(t, svc, "Steak", models.KosherMeat, 90)
	saveDish(t, svc, "Lasagna", models.KosherDairy, 50)
	saveDish(t, svc, "Rice", models.KosherParve, 10)

	id, err := svc.CreateEvent(ctx, models.EventInput{Name: "Brunch", FoodType: models.KosherDairy})
	require.NoError(t, err)
	require.NoError(t, svc.SetCurrentEvent(ctx, id))
	require.NoError(t, svc.AddDishToCurrentEvent(ctx, svc.Dishes()[2].ID))

	bot := &fakeSender{}
	h := NewDishesHandler(svc, logger)
	require.NoError(t, h.Handle(bot, chatMessage(), nil))

	msg := bot.last(t)
	assert.NotContains(t, msg.Text, "Steak")
	assert.Contains(t, msg.Text, "*2.* Lasagna")
	assert.Contains(t, msg.Text, "✅ *3.* Rice")

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	data := markup.InlineKeyboard[0][0].CallbackData
	require.NotNil(t, data)

	lasagna := svc.Dishes()[1]
	assert.Equal(t, "add:"+lasagna.ID, *data)

	require.NoError(t, h.HandleCallback(bot, &tgbotapi.CallbackQuery{ID: "q", Message: chatMessage()}, lasagna.ID))
	assert.True(t, svc.IsDishInEvent(lasagna.ID, id))
}
