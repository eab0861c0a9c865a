package api

import (
	"net/http"

	"github.com/Kerhoff/planmyevents/internal/models"
)

type lookupItemRequest struct {
	Value string `json:"value"`
}

type toggleWidgetRequest struct {
	Enabled bool `json:"enabled"`
}

// ---------------------------------------------------------------------------
// Lookup lists
// ---------------------------------------------------------------------------

func (s *Server) handleGetLookup(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.svc.Lookup())
}

func (s *Server) handleResetLookup(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ResetLookup(r.Context()); err != nil {
		s.respondServiceError(w, err, "reset lookup data")
		return
	}
	s.respondJSON(w, http.StatusOK, s.svc.Lookup())
}

func (s *Server) handleGetLookupList(w http.ResponseWriter, r *http.Request) {
	values, err := s.svc.LookupList(models.LookupList(r.PathValue("list")))
	if err != nil {
		s.respondServiceError(w, err, "get lookup list")
		return
	}
	s.respondJSON(w, http.StatusOK, values)
}

func (s *Server) handleAddLookupItem(w http.ResponseWriter, r *http.Request) {
	var req lookupItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	key := models.LookupList(r.PathValue("list"))
	if err := s.svc.AddLookupItem(r.Context(), key, req.Value); err != nil {
		s.respondServiceError(w, err, "add lookup item")
		return
	}
	s.respondLookupList(w, key)
}

func (s *Server) handleUpdateLookupItem(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid index")
		return
	}

	var req lookupItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	key := models.LookupList(r.PathValue("list"))
	if err := s.svc.UpdateLookupItem(r.Context(), key, index, req.Value); err != nil {
		s.respondServiceError(w, err, "update lookup item")
		return
	}
	s.respondLookupList(w, key)
}

func (s *Server) handleRemoveLookupItem(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid index")
		return
	}

	key := models.LookupList(r.PathValue("list"))
	if err := s.svc.RemoveLookupItem(r.Context(), key, index); err != nil {
		s.respondServiceError(w, err, "remove lookup item")
		return
	}
	s.respondLookupList(w, key)
}

func (s *Server) handleResetLookupList(w http.ResponseWriter, r *http.Request) {
	key := models.LookupList(r.PathValue("list"))
	if err := s.svc.ResetLookupList(r.Context(), key); err != nil {
		s.respondServiceError(w, err, "reset lookup list")
		return
	}
	s.respondLookupList(w, key)
}

func (s *Server) respondLookupList(w http.ResponseWriter, key models.LookupList) {
	values, err := s.svc.LookupList(key)
	if err != nil {
		s.respondServiceError(w, err, "get lookup list")
		return
	}
	s.respondJSON(w, http.StatusOK, values)
}

// ---------------------------------------------------------------------------
// Dashboard widgets
// ---------------------------------------------------------------------------

func (s *Server) handleUpsertWidget(w http.ResponseWriter, r *http.Request) {
	var req models.WidgetConfig
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.ID = r.PathValue("id")
	group := models.WidgetGroup(r.PathValue("group"))
	if err := s.svc.UpsertWidget(r.Context(), group, req); err != nil {
		s.respondServiceError(w, err, "save widget")
		return
	}
	s.respondWidgets(w, group)
}

func (s *Server) handleToggleWidget(w http.ResponseWriter, r *http.Request) {
	var req toggleWidgetRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	group := models.WidgetGroup(r.PathValue("group"))
	if err := s.svc.ToggleWidget(r.Context(), group, r.PathValue("id"), req.Enabled); err != nil {
		s.respondServiceError(w, err, "toggle widget")
		return
	}
	s.respondWidgets(w, group)
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	group := models.WidgetGroup(r.PathValue("group"))
	if err := s.svc.RemoveWidget(r.Context(), group, r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "remove widget")
		return
	}
	s.respondWidgets(w, group)
}

func (s *Server) handleResetWidgets(w http.ResponseWriter, r *http.Request) {
	group := models.WidgetGroup(r.PathValue("group"))
	if err := s.svc.ResetWidgetGroup(r.Context(), group); err != nil {
		s.respondServiceError(w, err, "reset widgets")
		return
	}
	s.respondWidgets(w, group)
}

func (s *Server) respondWidgets(w http.ResponseWriter, group models.WidgetGroup) {
	lookup := s.svc.Lookup()
	s.respondJSON(w, http.StatusOK, lookup.Widgets(group))
}
