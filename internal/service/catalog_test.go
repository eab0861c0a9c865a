package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/planmyevents/internal/models"
)

func TestSaveDish_InsertAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.SaveDish(ctx, models.Dish{
		Name:        " Pancakes ",
		Ingredients: []models.Ingredient{{ProductName: " flour ", Quantity: 200, Unit: "g"}},
		Equipment:   []models.Equipment{{Name: "Pan", Required: true}, {Name: "  "}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, 4, created.ServingSize)
	assert.Equal(t, "main", created.Category)
	assert.Equal(t, models.KosherParve, created.KosherType)
	assert.Equal(t, "flour", created.Ingredients[0].ProductName)
	assert.Len(t, created.Equipment, 1)
	assert.Equal(t, created.CreatedDate, created.LastModified)

	created.EstimatedPrice = 22
	updated, err := f.svc.SaveDish(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedDate, updated.CreatedDate)
	assert.True(t, updated.LastModified.After(created.LastModified))
	assert.Len(t, f.svc.Dishes(), 1)

	unknown, err := f.svc.SaveDish(ctx, models.Dish{ID: "not-in-catalog", Name: "Other"})
	require.NoError(t, err)
	assert.NotEqual(t, "not-in-catalog", unknown.ID)
	assert.Len(t, f.svc.Dishes(), 2)
}

func TestSaveDish_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []models.Dish{
		{Name: ""},
		{Name: "x", EstimatedPrice: -1},
		{Name: "x", ServingSize: -1},
		{Name: "x", Ingredients: []models.Ingredient{{ProductName: "", Quantity: 1}}},
		{Name: "x", Ingredients: []models.Ingredient{{ProductName: "salt", Quantity: 0}}},
	}
	for _, d := range cases {
		_, err := f.svc.SaveDish(ctx, d)
		assert.ErrorIs(t, err, ErrInvalidDish)
	}
	assert.Empty(t, f.svc.Dishes())
}

func TestDeleteDish_Unknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.DeleteDish(context.Background(), "missing"), ErrDishNotFound)

	_, err := f.svc.Dish("missing")
	assert.ErrorIs(t, err, ErrDishNotFound)
}

func TestSearchDishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	save := func(d models.Dish) {
		_, err := f.svc.SaveDish(ctx, d)
		require.NoError(t, err)
	}
	save(models.Dish{Name: "Cheese blintz", Category: "main", KosherType: models.KosherDairy, IsActive: true})
	save(models.Dish{Name: "Brisket", Category: "main", KosherType: models.KosherMeat, IsActive: true})
	save(models.Dish{Name: "Green salad", Description: "with cheese-free dressing", Category: "starter", KosherType: models.KosherParve, IsActive: true})
	save(models.Dish{Name: "Old stew", Category: "main", KosherType: models.KosherMeat, IsActive: false})

	names := func(ds []models.Dish) []string {
		out := []string{}
		for _, d := range ds {
			out = append(out, d.Name)
		}
		return out
	}

	assert.Len(t, f.svc.SearchDishes(models.DishFilter{}), 4)
	assert.Equal(t, []string{"Cheese blintz", "Green salad"}, names(f.svc.SearchDishes(models.DishFilter{Query: "CHEESE"})))
	assert.Equal(t, []string{"Cheese blintz", "Brisket"}, names(f.svc.SearchDishes(models.DishFilter{Category: "main", ActiveOnly: true})))
	assert.Equal(t, []string{"Brisket", "Green salad"}, names(f.svc.SearchDishes(models.DishFilter{CompatibleWith: models.KosherMeat, ActiveOnly: true})))
	assert.Len(t, f.svc.SearchDishes(models.DishFilter{CompatibleWith: models.FoodTypeAll}), 4)
	assert.Equal(t, []string{"Brisket", "Old stew"}, names(f.svc.SearchDishes(models.DishFilter{KosherType: models.KosherMeat})))
}

func TestDishCompatible(t *testing.T) {
	dairy := models.Dish{KosherType: models.KosherDairy}
	parve := models.Dish{KosherType: models.KosherParve}

	assert.True(t, DishCompatible(dairy, models.Event{FoodType: models.KosherDairy}))
	assert.False(t, DishCompatible(dairy, models.Event{FoodType: models.KosherMeat}))
	assert.True(t, DishCompatible(parve, models.Event{FoodType: models.KosherMeat}))
	assert.True(t, DishCompatible(dairy, models.Event{FoodType: models.FoodTypeAll}))
}

func TestProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.SaveProduct(ctx, models.Product{Name: "Eggs", EstimatedPrice: 15, PackageQuantity: 12})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.InventoryInStock, p.InventoryStatus)
	assert.Equal(t, "groceries", p.Category)

	p.InventoryStatus = models.InventoryLowStock
	_, err = f.svc.SaveProduct(ctx, p)
	require.NoError(t, err)

	got, err := f.svc.ProductByName("Eggs")
	require.NoError(t, err)
	assert.Equal(t, models.InventoryLowStock, got.InventoryStatus)

	_, err = f.svc.ProductByName("eggs")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.svc.SaveProduct(ctx, models.Product{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	_, err = f.svc.SaveProduct(ctx, models.Product{Name: "x", EstimatedPrice: -1})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))
	assert.Empty(t, f.svc.Products())
	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	_, err = f.svc.Product(p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_PricesDropToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.SaveProduct(ctx, models.Product{Name: "rice", EstimatedPrice: 8})
	require.NoError(t, err)
	d := f.saveDish(t, "Rice", 10, models.Ingredient{ProductName: "rice", Quantity: 1, Unit: "kg"})
	id := f.createCurrentEvent(t, "E")
	require.NoError(t, f.svc.AddDishToCart(ctx, d.ID, d.Name, 1))

	assert.Equal(t, 8.0, f.svc.GenerateShoppingList(id)[0].EstimatedPrice)
	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, 0.0, f.svc.GenerateShoppingList(id)[0].EstimatedPrice)
}

func TestSearchProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	save := func(p models.Product) {
		t.Helper()
		_, err := f.svc.SaveProduct(ctx, p)
		require.NoError(t, err)
	}
	save(models.Product{Name: "Flour", Brand: "Sugat", Supplier: "Shufersal", EstimatedPrice: 6})
	save(models.Product{Name: "eggs", Brand: "Tnuva", Supplier: "Market", EstimatedPrice: 15,
		InventoryStatus: models.InventoryLowStock})
	save(models.Product{Name: "Basil", Brand: "Green", Supplier: "Shuk", EstimatedPrice: 4,
		InventoryStatus: models.InventoryOutOfStock, Category: "herbs"})

	names := func(products []models.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	all, err := f.svc.SearchProducts(models.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil", "eggs", "Flour"}, names(all))
	assert.Equal(t, "Flour", f.svc.Products()[0].Name, "stored order is untouched")

	byBrand, err := f.svc.SearchProducts(models.ProductFilter{Query: "TNU"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs"}, names(byBrand))

	bySupplier, err := f.svc.SearchProducts(models.ProductFilter{Query: "shu"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil", "Flour"}, names(bySupplier))

	low, err := f.svc.SearchProducts(models.ProductFilter{InventoryStatus: models.InventoryLowStock})
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs"}, names(low))

	herbs, err := f.svc.SearchProducts(models.ProductFilter{Category: "herbs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil"}, names(herbs))

	byName, err := f.svc.SearchProducts(models.ProductFilter{SortBy: models.ProductSortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil", "eggs", "Flour"}, names(byName))

	byPrice, err := f.svc.SearchProducts(models.ProductFilter{SortBy: models.ProductSortPrice, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs", "Flour", "Basil"}, names(byPrice))

	_, err = f.svc.SearchProducts(models.ProductFilter{SortBy: "color"})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}
