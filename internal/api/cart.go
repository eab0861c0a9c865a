package api

import (
	"net/http"
	"strings"

	"github.com/Kerhoff/planmyevents/internal/models"
)

type cartResponse struct {
	EventID     string            `json:"eventId"`
	Items       []models.CartItem `json:"items"`
	Total       float64           `json:"total"`
	TotalPeople int               `json:"totalPeople"`
}

type addToCartRequest struct {
	DishID      string `json:"dishId"`
	DishName    string `json:"dishName"`
	PeopleCount int    `json:"peopleCount"`
}

type shoppingListResponse struct {
	EventID string                    `json:"eventId"`
	Items   []models.ShoppingListItem `json:"items"`
	Total   float64                   `json:"total"`
}

func (s *Server) cartResponse(eventID string) cartResponse {
	return cartResponse{
		EventID:     eventID,
		Items:       s.svc.CartForEvent(eventID),
		Total:       s.svc.EventTotal(eventID),
		TotalPeople: s.svc.TotalPeopleCount(eventID),
	}
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Event(id); err != nil {
		s.respondServiceError(w, err, "get cart")
		return
	}
	s.respondJSON(w, http.StatusOK, s.cartResponse(id))
}

// handleAddToCart adds a dish to the current event. Without a dish name the
// dish is looked up in the catalog.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	var err error
	if strings.TrimSpace(req.DishName) == "" {
		err = s.svc.AddDishToCurrentEvent(r.Context(), req.DishID)
	} else {
		err = s.svc.AddDishToCart(r.Context(), req.DishID, req.DishName, req.PeopleCount)
	}
	if err != nil {
		s.respondServiceError(w, err, "add dish to cart")
		return
	}

	s.respondJSON(w, http.StatusCreated, s.cartResponse(s.svc.CurrentEventID()))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	err := s.svc.RemoveDishFromCart(r.Context(), r.PathValue("id"), r.PathValue("dishId"))
	if err != nil {
		s.respondServiceError(w, err, "remove dish from cart")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearCart(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "clear cart")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Event(id); err != nil {
		s.respondServiceError(w, err, "generate shopping list")
		return
	}

	items := s.svc.GenerateShoppingList(id)
	s.respondJSON(w, http.StatusOK, shoppingListResponse{
		EventID: id,
		Items:   items,
		Total:   models.ShoppingListTotal(items),
	})
}
