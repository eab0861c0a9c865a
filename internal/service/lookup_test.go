package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/storage"
)

func TestLookup_Defaults(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, models.DefaultLookupData(), f.svc.Lookup())

	_, err := f.svc.LookupList("colors")
	assert.ErrorIs(t, err, ErrUnknownLookup)
}

func TestAddLookupItem_TrimsAndDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddLookupItem(ctx, models.LookupDishCategories, "  brunch "))
	require.NoError(t, f.svc.AddLookupItem(ctx, models.LookupDishCategories, "brunch"))
	require.NoError(t, f.svc.AddLookupItem(ctx, models.LookupDishCategories, "   "))

	list, err := f.svc.LookupList(models.LookupDishCategories)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "starter", "side", "dessert", "drink", "snack", "brunch"}, list)

	assert.ErrorIs(t, f.svc.AddLookupItem(ctx, "colors", "red"), ErrUnknownLookup)
}

func TestUpdateLookupItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := models.LookupEventTypes

	require.NoError(t, f.svc.UpdateLookupItem(ctx, key, 0, " friday night "))
	list, _ := f.svc.LookupList(key)
	assert.Equal(t, "friday night", list[0])

	// Duplicate of another entry is ignored.
	require.NoError(t, f.svc.UpdateLookupItem(ctx, key, 0, "brit"))
	list, _ = f.svc.LookupList(key)
	assert.Equal(t, "friday night", list[0])

	// Blank removes.
	require.NoError(t, f.svc.UpdateLookupItem(ctx, key, 0, ""))
	list, _ = f.svc.LookupList(key)
	assert.Equal(t, []string{"sheva-brachot", "brit", "breakfast", "other"}, list)

	assert.ErrorIs(t, f.svc.UpdateLookupItem(ctx, key, 99, "x"), ErrInvalidLookup)
}

func TestRemoveAndResetLookupList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := models.LookupKosherTypes

	require.NoError(t, f.svc.RemoveLookupItem(ctx, key, 1))
	require.NoError(t, f.svc.RemoveLookupItem(ctx, key, 42))
	list, _ := f.svc.LookupList(key)
	assert.Equal(t, []string{models.KosherDairy, models.KosherParve}, list)

	require.NoError(t, f.svc.ResetLookupList(ctx, key))
	list, _ = f.svc.LookupList(key)
	assert.Equal(t, []string{models.KosherDairy, models.KosherMeat, models.KosherParve}, list)
}

func TestWidgets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := models.WidgetDashboardMetrics

	require.NoError(t, f.svc.ToggleWidget(ctx, group, "guestExperience", true))
	require.NoError(t, f.svc.ToggleWidget(ctx, group, "missing", true))

	require.NoError(t, f.svc.UpsertWidget(ctx, group, models.WidgetConfig{ID: " weather ", Enabled: true}))
	require.NoError(t, f.svc.UpsertWidget(ctx, group, models.WidgetConfig{ID: "budgetProjection", Label: "Budget", Enabled: false}))
	assert.ErrorIs(t, f.svc.UpsertWidget(ctx, group, models.WidgetConfig{ID: " "}), ErrInvalidLookup)
	assert.ErrorIs(t, f.svc.ToggleWidget(ctx, "sidebar", "x", true), ErrUnknownLookup)

	widgets := f.svc.Lookup().DashboardMetrics
	require.Len(t, widgets, 4)
	assert.Equal(t, "Budget", widgets[0].Label)
	assert.False(t, widgets[0].Enabled)
	assert.NotEmpty(t, widgets[0].Description)
	assert.True(t, widgets[1].Enabled)
	assert.Equal(t, models.WidgetConfig{ID: "weather", Label: "weather", Enabled: true}, widgets[3])

	require.NoError(t, f.svc.RemoveWidget(ctx, group, "weather"))
	assert.Len(t, f.svc.Lookup().DashboardMetrics, 3)

	require.NoError(t, f.svc.ResetWidgetGroup(ctx, group))
	assert.Equal(t, models.DefaultLookupData().DashboardMetrics, f.svc.Lookup().DashboardMetrics)
}

func TestLookup_StoredDataMergesOverDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.Set(ctx, storage.KeyLookupData, map[string]any{
		"dishCategories": []string{" soups ", "soups", ""},
		"eventTypes":     []string{},
		"dashboardSections": []map[string]any{
			{"id": "quickLinks", "label": "Links", "enabled": false},
			{"id": "custom", "enabled": true},
		},
	})
	svc := f.reload(t)
	data := svc.Lookup()

	assert.Equal(t, []string{"soups"}, data.DishCategories)
	assert.Empty(t, data.EventTypes)
	assert.Equal(t, models.DefaultLookupData().MeasurementUnits, data.MeasurementUnits)

	require.Len(t, data.DashboardSections, 5)
	assert.Equal(t, "Links", data.DashboardSections[3].Label)
	assert.False(t, data.DashboardSections[3].Enabled)
	assert.Equal(t, "custom", data.DashboardSections[4].Label)
	assert.Equal(t, models.DefaultLookupData().DashboardMetrics, data.DashboardMetrics)
}

func TestResetLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddLookupItem(ctx, models.LookupMeasurementUnits, "pinch"))
	require.NoError(t, f.svc.ResetLookup(ctx))
	assert.Equal(t, models.DefaultLookupData(), f.svc.Lookup())

	svc := f.reload(t)
	assert.Equal(t, models.DefaultLookupData(), svc.Lookup())
}
