package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
)

// ---------------------------------------------------------------------------
// Dishes
// ---------------------------------------------------------------------------

// SaveDish inserts or updates a dish. A dish without an id, or with an id
// the catalog does not know, is stored as new under a fresh id.
func (s *Service) SaveDish(ctx context.Context, dish models.Dish) (models.Dish, error) {
	var saved models.Dish
	err := s.mutate(func() (*notify.Change, error) {
		if err := s.normalizeDish(&dish); err != nil {
			return nil, err
		}

		now := s.now()
		dish.LastModified = now
		if i := s.findDish(dish.ID); dish.ID != "" && i >= 0 {
			dish.CreatedDate = s.dishes[i].CreatedDate
			s.dishes[i] = dish
		} else {
			dish.ID = s.newID()
			dish.CreatedDate = now
			s.dishes = append(s.dishes, dish)
		}
		s.persistDishes(ctx)

		s.logger.WithFields(logrus.Fields{
			"dish_id": dish.ID,
			"name":    dish.Name,
		}).Info("Dish saved")

		saved = cloneDish(dish)
		return &notify.Change{Kind: notify.DishSaved, DishID: dish.ID}, nil
	})
	return saved, err
}

func (s *Service) normalizeDish(d *models.Dish) error {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.KosherType = strings.TrimSpace(d.KosherType)

	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDish)
	}
	if d.EstimatedPrice < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidDish)
	}
	if d.ServingSize < 0 {
		return fmt.Errorf("%w: serving size must be positive", ErrInvalidDish)
	}
	if d.ServingSize == 0 {
		d.ServingSize = max(s.settings.Dishes.DefaultServingSize, 1)
	}
	if d.Category == "" {
		d.Category = s.settings.Dishes.DefaultCategory
	}
	if d.KosherType == "" {
		d.KosherType = s.settings.Dishes.DefaultKosherType
	}

	ingredients := make([]models.Ingredient, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		ing.ProductName = strings.TrimSpace(ing.ProductName)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.ProductName == "" {
			return fmt.Errorf("%w: ingredient product name is required", ErrInvalidDish)
		}
		if ing.Quantity <= 0 {
			return fmt.Errorf("%w: quantity of %q must be positive", ErrInvalidDish, ing.ProductName)
		}
		ingredients = append(ingredients, ing)
	}
	d.Ingredients = ingredients

	equipment := make([]models.Equipment, 0, len(d.Equipment))
	for _, eq := range d.Equipment {
		eq.Name = strings.TrimSpace(eq.Name)
		if eq.Name != "" {
			equipment = append(equipment, eq)
		}
	}
	d.Equipment = equipment
	return nil
}

// DeleteDish removes a dish from the catalog and from every cart
func (s *Service) DeleteDish(ctx context.Context, id string) error {
	return s.mutate(func() (*notify.Change, error) {
		i := s.findDish(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrDishNotFound, id)
		}

		s.dishes = append(s.dishes[:i:i], s.dishes[i+1:]...)
		s.persistDishes(ctx)

		if removed := s.dropCartItems(func(item models.CartItem) bool { return item.DishID == id }); removed > 0 {
			s.persistCart(ctx)
			s.logger.WithFields(logrus.Fields{
				"dish_id":    id,
				"cart_items": removed,
			}).Info("Removed deleted dish from carts")
		}

		s.logger.WithField("dish_id", id).Info("Dish deleted")
		return &notify.Change{Kind: notify.DishDeleted, DishID: id}, nil
	})
}

// Dish returns the dish with the given id
func (s *Service) Dish(id string) (models.Dish, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findDish(id)
	if i < 0 {
		return models.Dish{}, fmt.Errorf("%w: %s", ErrDishNotFound, id)
	}
	return cloneDish(s.dishes[i]), nil
}

// Dishes returns the whole catalog in stored order
func (s *Service) Dishes() []models.Dish {
	return s.SearchDishes(models.DishFilter{})
}

// SearchDishes returns the dishes matching every set field of the filter
func (s *Service) SearchDishes(f models.DishFilter) []models.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Dish{}
	for i := range s.dishes {
		d := &s.dishes[i]
		if f.ActiveOnly && !d.IsActive {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		if f.KosherType != "" && d.KosherType != f.KosherType {
			continue
		}
		if !d.CompatibleWith(f.CompatibleWith) {
			continue
		}
		if !d.Matches(f.Query) {
			continue
		}
		out = append(out, cloneDish(*d))
	}
	return out
}

// DishCompatible reports whether the dish suits the event's food type
func DishCompatible(dish models.Dish, event models.Event) bool {
	return dish.CompatibleWith(event.FoodType)
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// SaveProduct inserts or updates a product, following the same id rules as
// SaveDish.
func (s *Service) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	err := s.mutate(func() (*notify.Change, error) {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Brand = strings.TrimSpace(p.Brand)
		p.Category = strings.TrimSpace(p.Category)
		p.Supplier = strings.TrimSpace(p.Supplier)

		if p.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
		}
		if p.EstimatedPrice < 0 || p.PackageQuantity < 0 {
			return nil, fmt.Errorf("%w: price and package quantity must not be negative", ErrInvalidProduct)
		}
		if p.InventoryStatus == "" {
			p.InventoryStatus = models.InventoryInStock
		}
		if p.Category == "" {
			p.Category = s.settings.Products.DefaultCategory
		}

		if i := s.findProduct(p.ID); p.ID != "" && i >= 0 {
			s.products[i] = p
		} else {
			p.ID = s.newID()
			s.products = append(s.products, p)
		}
		s.persistProducts(ctx)

		s.logger.WithFields(logrus.Fields{
			"product_id": p.ID,
			"name":       p.Name,
		}).Info("Product saved")
		return &notify.Change{Kind: notify.ProductSaved, ProductID: p.ID}, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product. Ingredients naming it simply lose their
// price.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.mutate(func() (*notify.Change, error) {
		i := s.findProduct(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		s.products = append(s.products[:i:i], s.products[i+1:]...)
		s.persistProducts(ctx)

		s.logger.WithField("product_id", id).Info("Product deleted")
		return &notify.Change{Kind: notify.ProductDeleted, ProductID: id}, nil
	})
}

// Product returns the product with the given id
func (s *Service) Product(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findProduct(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return s.products[i], nil
}

// ProductByName returns the first product whose name matches exactly
func (s *Service) ProductByName(name string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, name)
}

// Products returns every product in stored order
func (s *Service) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Product{}, s.products...)
}

// SearchProducts returns the products matching every set field of the
// filter. Without a sort field the most recently added come first; text
// fields sort case-insensitively and ties keep stored order.
func (s *Service) SearchProducts(f models.ProductFilter) ([]models.Product, error) {
	if !f.SortBy.Valid() {
		return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidProduct, f.SortBy)
	}

	s.mu.Lock()
	out := []models.Product{}
	for i := range s.products {
		p := &s.products[i]
		if f.InventoryStatus != "" && p.InventoryStatus != f.InventoryStatus {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if !p.Matches(f.Query) {
			continue
		}
		out = append(out, *p)
	}
	s.mu.Unlock()

	if f.SortBy == models.ProductSortNewest {
		slices.Reverse(out)
		return out, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareProducts(out[i], out[j], f.SortBy)
		if f.Descending {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func compareProducts(a, b models.Product, by models.ProductSort) int {
	text := func(x, y string) int {
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	}

	switch by {
	case models.ProductSortName:
		return text(a.Name, b.Name)
	case models.ProductSortBrand:
		return text(a.Brand, b.Brand)
	case models.ProductSortCategory:
		return text(a.Category, b.Category)
	case models.ProductSortSupplier:
		return text(a.Supplier, b.Supplier)
	case models.ProductSortStatus:
		return text(string(a.InventoryStatus), string(b.InventoryStatus))
	case models.ProductSortPrice:
		return cmp.Compare(a.EstimatedPrice, b.EstimatedPrice)
	}
	return 0
}
