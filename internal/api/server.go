package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Kerhoff/planmyevents/internal/metrics"
	"github.com/Kerhoff/planmyevents/internal/service"
)

// Options tunes the middleware around the API
type Options struct {
	CORSOrigins []string
	// RateLimit is the steady number of requests per second allowed per
	// client address. Zero disables limiting.
	RateLimit float64
	RateBurst int
	Metrics   *metrics.Metrics
}

// Server provides the HTTP API of the planner.
type Server struct {
	svc     *service.Service
	logger  *logrus.Logger
	mux     *http.ServeMux
	opts    Options
	limiter *clientLimiter
	streams *streamHub
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, opts Options) *Server {
	s := &Server{
		svc:     svc,
		logger:  logger,
		mux:     http.NewServeMux(),
		opts:    opts,
		streams: newStreamHub(),
	}
	if opts.RateLimit > 0 {
		s.limiter = newClientLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	var h http.Handler = s.mux
	h = s.rateLimit(h)
	h = s.instrument(h)
	return c.Handler(h)
}

// Close disconnects every change stream client
func (s *Server) Close() {
	s.streams.close()
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Events
	s.mux.HandleFunc("GET /api/events", s.handleGetEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("PUT /api/events/{id}/current", s.handleSelectEvent)
	s.mux.HandleFunc("GET /api/current-event", s.handleGetCurrentEvent)
	s.mux.HandleFunc("DELETE /api/current-event", s.handleClearCurrentEvent)

	// API – Cart
	s.mux.HandleFunc("GET /api/events/{id}/cart", s.handleGetCart)
	s.mux.HandleFunc("POST /api/cart", s.handleAddToCart)
	s.mux.HandleFunc("DELETE /api/events/{id}/cart/{dishId}", s.handleRemoveFromCart)
	s.mux.HandleFunc("DELETE /api/events/{id}/cart", s.handleClearCart)
	s.mux.HandleFunc("GET /api/events/{id}/shopping-list", s.handleShoppingList)

	// API – Dishes
	s.mux.HandleFunc("GET /api/dishes", s.handleGetDishes)
	s.mux.HandleFunc("POST /api/dishes", s.handleCreateDish)
	s.mux.HandleFunc("GET /api/dishes/{id}", s.handleGetDish)
	s.mux.HandleFunc("PUT /api/dishes/{id}", s.handleUpdateDish)
	s.mux.HandleFunc("DELETE /api/dishes/{id}", s.handleDeleteDish)

	// API – Products
	s.mux.HandleFunc("GET /api/products", s.handleGetProducts)
	s.mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	s.mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	s.mux.HandleFunc("PUT /api/products/{id}", s.handleUpdateProduct)
	s.mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)

	// API – Lookup lists and dashboard widgets
	s.mux.HandleFunc("GET /api/lookup", s.handleGetLookup)
	s.mux.HandleFunc("POST /api/lookup/reset", s.handleResetLookup)
	s.mux.HandleFunc("GET /api/lookup/{list}", s.handleGetLookupList)
	s.mux.HandleFunc("POST /api/lookup/{list}", s.handleAddLookupItem)
	s.mux.HandleFunc("PUT /api/lookup/{list}/{index}", s.handleUpdateLookupItem)
	s.mux.HandleFunc("DELETE /api/lookup/{list}/{index}", s.handleRemoveLookupItem)
	s.mux.HandleFunc("POST /api/lookup/{list}/reset", s.handleResetLookupList)
	s.mux.HandleFunc("PUT /api/widgets/{group}/{id}", s.handleUpsertWidget)
	s.mux.HandleFunc("PUT /api/widgets/{group}/{id}/enabled", s.handleToggleWidget)
	s.mux.HandleFunc("DELETE /api/widgets/{group}/{id}", s.handleRemoveWidget)
	s.mux.HandleFunc("POST /api/widgets/{group}/reset", s.handleResetWidgets)

	// API – Settings and maintenance
	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleSaveSettings)
	s.mux.HandleFunc("DELETE /api/settings", s.handleResetSettings)
	s.mux.HandleFunc("GET /api/settings/export", s.handleExportSettings)
	s.mux.HandleFunc("POST /api/settings/import", s.handleImportSettings)
	s.mux.HandleFunc("DELETE /api/data", s.handleClearData)
	s.mux.HandleFunc("GET /api/backup", s.handleBackup)
	s.mux.HandleFunc("POST /api/restore", s.handleRestore)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)

	// Change stream & health
	s.mux.HandleFunc("GET /api/ws", s.handleStream)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to a status code. Unexpected
// errors are logged with action and hidden from the client.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrDishNotFound),
		errors.Is(err, service.ErrProductNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoCurrentEvent):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDish),
		errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, service.ErrEventIDRequired),
		errors.Is(err, service.ErrUnknownLookup),
		errors.Is(err, service.ErrInvalidLookup):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("failed to " + action)
		s.respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathIndex extracts the {index} path value.
func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	if raw == "" {
		return 0, fmt.Errorf("missing index in path")
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
