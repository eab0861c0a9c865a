package service

import (
	"slices"

	"github.com/Kerhoff/planmyevents/internal/models"
)

// GenerateShoppingList expands the event's cart into the ingredient demand
// per product name. Recipe quantities are taken as is: a cart item stands
// for one preparation of the dish, whatever its people count. Items appear
// in the order their product was first seen. Dishes missing from the catalog
// are skipped and unknown products are priced at zero.
func (s *Service) GenerateShoppingList(eventID string) []models.ShoppingListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.ShoppingListGenerated()

	list := []models.ShoppingListItem{}
	index := make(map[string]int)

	for _, item := range s.cart {
		if item.EventID != eventID {
			continue
		}
		di := s.findDish(item.DishID)
		if di < 0 {
			continue
		}
		dish := s.dishes[di]

		for _, ing := range dish.Ingredients {
			if i, ok := index[ing.ProductName]; ok {
				entry := &list[i]
				entry.TotalQuantity += ing.Quantity
				if !slices.Contains(entry.Dishes, dish.Name) {
					entry.Dishes = append(entry.Dishes, dish.Name)
				}
				continue
			}

			index[ing.ProductName] = len(list)
			list = append(list, models.ShoppingListItem{
				ProductName:    ing.ProductName,
				TotalQuantity:  ing.Quantity,
				Unit:           ing.Unit,
				EstimatedPrice: s.productPriceLocked(ing.ProductName),
				Dishes:         []string{dish.Name},
			})
		}
	}
	return list
}

func (s *Service) productPriceLocked(name string) float64 {
	for _, p := range s.products {
		if p.Name == name {
			return p.EstimatedPrice
		}
	}
	return 0
}
