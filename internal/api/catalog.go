package api

import (
	"net/http"
	"strconv"

	"github.com/Kerhoff/planmyevents/internal/models"
)

// ---------------------------------------------------------------------------
// Dishes
// ---------------------------------------------------------------------------

// handleGetDishes supports the filters q, category, kosherType, active and
// event. event restricts the list to dishes compatible with that event's
// food type.
func (s *Server) handleGetDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.DishFilter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		KosherType: q.Get("kosherType"),
	}

	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "active must be a boolean")
			return
		}
		filter.ActiveOnly = active
	}

	if eventID := q.Get("event"); eventID != "" {
		event, err := s.svc.Event(eventID)
		if err != nil {
			s.respondServiceError(w, err, "get dishes")
			return
		}
		filter.CompatibleWith = event.FoodType
	}

	s.respondJSON(w, http.StatusOK, s.svc.SearchDishes(filter))
}

func (s *Server) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	var req models.Dish
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = ""
	saved, err := s.svc.SaveDish(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err, "create dish")
		return
	}
	s.respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetDish(w http.ResponseWriter, r *http.Request) {
	dish, err := s.svc.Dish(r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "get dish")
		return
	}
	s.respondJSON(w, http.StatusOK, dish)
}

func (s *Server) handleUpdateDish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Dish(id); err != nil {
		s.respondServiceError(w, err, "update dish")
		return
	}

	var req models.Dish
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = id
	saved, err := s.svc.SaveDish(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err, "update dish")
		return
	}
	s.respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteDish(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteDish(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete dish")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// handleGetProducts supports the filters q (name, brand or supplier),
// status and category, and ordering with sort and order=asc|desc. Without
// sort the newest products come first.
func (s *Server) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProductFilter{
		Query:           q.Get("q"),
		InventoryStatus: models.InventoryStatus(q.Get("status")),
		Category:        q.Get("category"),
		SortBy:          models.ProductSort(q.Get("sort")),
	}

	switch q.Get("order") {
	case "", "asc":
	case "desc":
		filter.Descending = true
	default:
		s.respondError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	products, err := s.svc.SearchProducts(filter)
	if err != nil {
		s.respondServiceError(w, err, "get products")
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = ""
	saved, err := s.svc.SaveProduct(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err, "create product")
		return
	}
	s.respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.svc.Product(r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "get product")
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.svc.Product(id); err != nil {
		s.respondServiceError(w, err, "update product")
		return
	}

	var req models.Product
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = id
	saved, err := s.svc.SaveProduct(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err, "update product")
		return
	}
	s.respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete product")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
