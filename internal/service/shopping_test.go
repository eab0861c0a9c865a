package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/models"
)

func TestGenerateShoppingList_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveProduct(ctx, models.Product{Name: "flour", EstimatedPrice: 0.01})
	require.NoError(t, err)
	_, err = f.svc.SaveProduct(ctx, models.Product{Name: "egg", EstimatedPrice: 1.5})
	require.NoError(t, err)

	a := f.saveDish(t, "A", 25, models.Ingredient{ProductName: "flour", Quantity: 200, Unit: "g"})
	b := f.saveDish(t, "B", 18,
		models.Ingredient{ProductName: "flour", Quantity: 100, Unit: "g"},
		models.Ingredient{ProductName: "egg", Quantity: 2, Unit: "unit"},
	)

	e1 := f.createCurrentEvent(t, "E1")
	require.NoError(t, f.svc.AddDishToCart(ctx, a.ID, a.Name, 4))
	require.NoError(t, f.svc.AddDishToCart(ctx, b.ID, b.Name, 4))

	assert.Equal(t, 43.0, f.svc.EventTotal(e1))

	list := f.svc.GenerateShoppingList(e1)
	assert.Equal(t, []models.ShoppingListItem{
		{ProductName: "flour", TotalQuantity: 300, Unit: "g", EstimatedPrice: 0.01, Dishes: []string{"A", "B"}},
		{ProductName: "egg", TotalQuantity: 2, Unit: "unit", EstimatedPrice: 1.5, Dishes: []string{"B"}},
	}, list)
	assert.InDelta(t, 6.0, models.ShoppingListTotal(list), 1e-9)
}

func TestGenerateShoppingList_EmptyCart(t *testing.T) {
	f := newFixture(t)
	id := f.createCurrentEvent(t, "E")

	list := f.svc.GenerateShoppingList(id)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Equal(t, 0.0, models.ShoppingListTotal(list))
}

func TestGenerateShoppingList_NoPeopleMultiplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.saveDish(t, "Rice", 10, models.Ingredient{ProductName: "rice", Quantity: 500, Unit: "g"})

	id := f.createCurrentEvent(t, "E")
	require.NoError(t, f.svc.AddDishToCart(ctx, d.ID, d.Name, 12))

	list := f.svc.GenerateShoppingList(id)
	require.Len(t, list, 1)
	assert.Equal(t, 500.0, list[0].TotalQuantity)
}

func TestGenerateShoppingList_RepeatedIngredientListsDishOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.saveDish(t, "Layer cake", 40,
		models.Ingredient{ProductName: "sugar", Quantity: 100, Unit: "g"},
		models.Ingredient{ProductName: "sugar", Quantity: 50, Unit: "g"},
	)

	id := f.createCurrentEvent(t, "E")
	require.NoError(t, f.svc.AddDishToCart(ctx, d.ID, d.Name, 1))

	list := f.svc.GenerateShoppingList(id)
	require.Len(t, list, 1)
	assert.Equal(t, 150.0, list[0].TotalQuantity)
	assert.Equal(t, []string{"Layer cake"}, list[0].Dishes)
	assert.Equal(t, 0.0, list[0].EstimatedPrice)
}

func TestGenerateShoppingList_SkipsDanglingAndOtherEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.saveDish(t, "Soup", 20, models.Ingredient{ProductName: "carrot", Quantity: 3, Unit: "unit"})

	other := f.createCurrentEvent(t, "Other")
	require.NoError(t, f.svc.AddDishToCart(ctx, d.ID, d.Name, 1))

	id := f.createCurrentEvent(t, "E")
	require.NoError(t, f.svc.AddDishToCart(ctx, "ghost", "Ghost", 1))

	assert.Empty(t, f.svc.GenerateShoppingList(id))
	assert.Len(t, f.svc.GenerateShoppingList(other), 1)
}

func TestGenerateShoppingList_MixedUnitsAreNotNormalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.saveDish(t, "A", 1, models.Ingredient{ProductName: "flour", Quantity: 1, Unit: "kg"})
	b := f.saveDish(t, "B", 1, models.Ingredient{ProductName: "flour", Quantity: 200, Unit: "g"})

	id := f.createCurrentEvent(t, "E")
	require.NoError(t, f.svc.AddDishToCart(ctx, a.ID, a.Name, 1))
	require.NoError(t, f.svc.AddDishToCart(ctx, b.ID, b.Name, 1))

	list := f.svc.GenerateShoppingList(id)
	require.Len(t, list, 1)
	assert.Equal(t, 201.0, list[0].TotalQuantity)
	assert.Equal(t, "kg", list[0].Unit)
}
