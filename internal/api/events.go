package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
)

// eventResponse is an event together with its cart figures
type eventResponse struct {
	models.Event
	Current     bool              `json:"current"`
	Cart        []models.CartItem `json:"cart"`
	Total       float64           `json:"total"`
	TotalPeople int               `json:"totalPeople"`
}

func (s *Server) eventResponse(e models.Event) eventResponse {
	return eventResponse{
		Event:       e,
		Current:     e.ID == s.svc.CurrentEventID(),
		Cart:        s.svc.CartForEvent(e.ID),
		Total:       s.svc.EventTotal(e.ID),
		TotalPeople: s.svc.TotalPeopleCount(e.ID),
	}
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	events := s.svc.EventsSorted()
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, s.eventResponse(e))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventInput
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.svc.CreateEvent(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err, "create event")
		return
	}

	if s.svc.Settings().Events.AutoSelectCurrentEvent {
		if err := s.svc.SetCurrentEvent(r.Context(), id); err != nil {
			s.respondServiceError(w, err, "select event")
			return
		}
	}

	event, err := s.svc.Event(id)
	if err != nil {
		s.respondServiceError(w, err, "get event")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": id,
		"remote":   r.RemoteAddr,
	}).Debug("Event created over HTTP")
	s.respondJSON(w, http.StatusCreated, s.eventResponse(event))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.svc.Event(r.PathValue("id"))
	if err != nil {
		s.respondServiceError(w, err, "get event")
		return
	}
	s.respondJSON(w, http.StatusOK, s.eventResponse(event))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventInput
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	event, err := s.svc.UpdateEvent(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.respondServiceError(w, err, "update event")
		return
	}
	s.respondJSON(w, http.StatusOK, s.eventResponse(event))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err, "delete event")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSelectEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.SetCurrentEvent(r.Context(), id); err != nil {
		s.respondServiceError(w, err, "select event")
		return
	}

	event, err := s.svc.Event(id)
	if err != nil {
		s.respondServiceError(w, err, "get event")
		return
	}
	s.respondJSON(w, http.StatusOK, s.eventResponse(event))
}

func (s *Server) handleGetCurrentEvent(w http.ResponseWriter, r *http.Request) {
	current := s.svc.CurrentEvent()
	if current == nil {
		s.respondError(w, http.StatusNotFound, "no event is selected")
		return
	}
	s.respondJSON(w, http.StatusOK, s.eventResponse(*current))
}

func (s *Server) handleClearCurrentEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SetCurrentEvent(r.Context(), ""); err != nil {
		s.respondServiceError(w, err, "clear current event")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
