package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
)

// AddDishToCart adds a dish to the current event's cart. A dish is listed at
// most once per event, so adding it again leaves the existing item as is.
// A non-positive peopleCount is stored as 1.
func (s *Service) AddDishToCart(ctx context.Context, dishID, dishName string, peopleCount int) error {
	return s.mutate(func() (*notify.Change, error) {
		return s.addDishLocked(ctx, dishID, dishName, peopleCount)
	})
}

// AddDishToCurrentEvent adds a catalog dish to the current event's cart,
// taking the name from the catalog and the people count from the dish's
// serving size.
func (s *Service) AddDishToCurrentEvent(ctx context.Context, dishID string) error {
	return s.mutate(func() (*notify.Change, error) {
		if s.currentEventID == "" {
			return nil, ErrNoCurrentEvent
		}
		if strings.TrimSpace(dishID) == "" {
			return nil, fmt.Errorf("%w: dish id is required", ErrInvalidDish)
		}
		i := s.findDish(dishID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrDishNotFound, dishID)
		}
		dish := s.dishes[i]
		return s.addDishLocked(ctx, dish.ID, dish.Name, dish.ServingSize)
	})
}

func (s *Service) addDishLocked(ctx context.Context, dishID, dishName string, peopleCount int) (*notify.Change, error) {
	if s.currentEventID == "" {
		return nil, ErrNoCurrentEvent
	}
	dishID = strings.TrimSpace(dishID)
	dishName = strings.TrimSpace(dishName)
	if dishID == "" || dishName == "" {
		return nil, fmt.Errorf("%w: dish id and name are required", ErrInvalidDish)
	}

	eventID := s.currentEventID
	if s.hasCartItem(eventID, dishID) {
		return nil, nil
	}
	if peopleCount <= 0 {
		peopleCount = 1
	}

	s.cart = append(s.cart, models.CartItem{
		DishID:      dishID,
		DishName:    dishName,
		PeopleCount: peopleCount,
		EventID:     eventID,
	})
	s.persistCart(ctx)
	s.metrics.CartMutation("add")

	s.logger.WithFields(logrus.Fields{
		"event_id": eventID,
		"dish_id":  dishID,
		"people":   peopleCount,
	}).Info("Dish added to cart")
	return &notify.Change{Kind: notify.CartItemAdded, EventID: eventID, DishID: dishID}, nil
}

// RemoveDishFromCart removes a dish from the given event's cart. Removing a
// dish that is not there does nothing.
func (s *Service) RemoveDishFromCart(ctx context.Context, eventID, dishID string) error {
	return s.mutate(func() (*notify.Change, error) {
		if eventID == "" {
			return nil, ErrEventIDRequired
		}
		removed := s.dropCartItems(func(item models.CartItem) bool {
			return item.EventID == eventID && item.DishID == dishID
		})
		if removed == 0 {
			return nil, nil
		}
		s.persistCart(ctx)
		s.metrics.CartMutation("remove")

		s.logger.WithFields(logrus.Fields{
			"event_id": eventID,
			"dish_id":  dishID,
		}).Info("Dish removed from cart")
		return &notify.Change{Kind: notify.CartItemRemoved, EventID: eventID, DishID: dishID}, nil
	})
}

// ClearCart empties the given event's cart
func (s *Service) ClearCart(ctx context.Context, eventID string) error {
	return s.mutate(func() (*notify.Change, error) {
		if eventID == "" {
			return nil, ErrEventIDRequired
		}
		removed := s.dropCartItems(func(item models.CartItem) bool { return item.EventID == eventID })
		if removed == 0 {
			return nil, nil
		}
		s.persistCart(ctx)
		s.metrics.CartMutation("clear")

		s.logger.WithFields(logrus.Fields{
			"event_id": eventID,
			"removed":  removed,
		}).Info("Cart cleared")
		return &notify.Change{Kind: notify.CartCleared, EventID: eventID}, nil
	})
}

// dropCartItems removes the matching items and returns how many went. The
// backing array is never shared with earlier snapshots.
func (s *Service) dropCartItems(match func(models.CartItem) bool) int {
	kept := make([]models.CartItem, 0, len(s.cart))
	for _, item := range s.cart {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	removed := len(s.cart) - len(kept)
	s.cart = kept
	return removed
}

// normalizeCart drops items without an event, dish id or dish name and
// repeats of an (event, dish) pair, keeping the first. A non-positive people
// count becomes 1. It returns the cleaned cart and how many items went.
func normalizeCart(items []models.CartItem) ([]models.CartItem, int) {
	type cartKey struct{ eventID, dishID string }

	seen := make(map[cartKey]bool, len(items))
	kept := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.EventID == "" || strings.TrimSpace(item.DishID) == "" || strings.TrimSpace(item.DishName) == "" {
			continue
		}
		k := cartKey{item.EventID, item.DishID}
		if seen[k] {
			continue
		}
		seen[k] = true
		if item.PeopleCount <= 0 {
			item.PeopleCount = 1
		}
		kept = append(kept, item)
	}
	return kept, len(items) - len(kept)
}

func (s *Service) hasCartItem(eventID, dishID string) bool {
	for _, item := range s.cart {
		if item.EventID == eventID && item.DishID == dishID {
			return true
		}
	}
	return false
}

// CartForEvent returns the event's cart items in the order they were added
func (s *Service) CartForEvent(eventID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cartForEventLocked(eventID)
}

func (s *Service) cartForEventLocked(eventID string) []models.CartItem {
	items := []models.CartItem{}
	for _, item := range s.cart {
		if item.EventID == eventID {
			items = append(items, item)
		}
	}
	return items
}

// CurrentCart returns the current event's cart, empty when nothing is selected
func (s *Service) CurrentCart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentEventID == "" {
		return []models.CartItem{}
	}
	return s.cartForEventLocked(s.currentEventID)
}

// IsDishInEvent reports whether the dish is in the event's cart. An empty
// eventID means the current event.
func (s *Service) IsDishInEvent(dishID, eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eventID == "" {
		eventID = s.currentEventID
	}
	if eventID == "" {
		return false
	}
	return s.hasCartItem(eventID, dishID)
}

// EventTotal sums the catalog prices of the dishes in the event's cart.
// Dishes that no longer exist count as zero.
func (s *Service) EventTotal(eventID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eventTotalLocked(eventID)
}

func (s *Service) eventTotalLocked(eventID string) float64 {
	var total float64
	for _, item := range s.cart {
		if item.EventID != eventID {
			continue
		}
		if i := s.findDish(item.DishID); i >= 0 {
			total += s.dishes[i].EstimatedPrice
		}
	}
	return total
}

// TotalPeopleCount sums the people counts of the event's cart items
func (s *Service) TotalPeopleCount(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, item := range s.cart {
		if item.EventID == eventID {
			total += item.PeopleCount
		}
	}
	return total
}

// GrandTotal sums EventTotal over every event
func (s *Service) GrandTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.grandTotalLocked()
}

func (s *Service) grandTotalLocked() float64 {
	var total float64
	for _, e := range s.events {
		total += s.eventTotalLocked(e.ID)
	}
	return total
}
