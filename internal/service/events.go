package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
)

// CreateEvent registers a new event and returns its id. The event is not
// selected as current; callers that want that call SetCurrentEvent.
func (s *Service) CreateEvent(ctx context.Context, in models.EventInput) (string, error) {
	var id string
	err := s.mutate(func() (*notify.Change, error) {
		if err := s.normalizeEventInput(&in); err != nil {
			return nil, err
		}

		event := models.Event{
			ID:           s.newID(),
			Name:         in.Name,
			Participants: in.Participants,
			EventType:    in.EventType,
			FoodType:     in.FoodType,
			Dishes:       []models.EventDish{},
			Notes:        in.Notes,
			CreatedAt:    s.now(),
			EventDate:    in.EventDate,
		}
		s.events = append(s.events, event)
		s.persistEvents(ctx)

		s.logger.WithFields(logrus.Fields{
			"event_id": event.ID,
			"name":     event.Name,
		}).Info("Event created")

		id = event.ID
		return &notify.Change{Kind: notify.EventCreated, EventID: id}, nil
	})
	return id, err
}

// UpdateEvent replaces the user-editable fields of an event. Id, creation
// time and the legacy dish list are kept.
func (s *Service) UpdateEvent(ctx context.Context, id string, in models.EventInput) (models.Event, error) {
	var updated models.Event
	err := s.mutate(func() (*notify.Change, error) {
		i := s.findEvent(id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		if err := s.normalizeEventInput(&in); err != nil {
			return nil, err
		}

		e := &s.events[i]
		e.Name = in.Name
		e.Participants = in.Participants
		e.EventType = in.EventType
		e.FoodType = in.FoodType
		e.Notes = in.Notes
		e.EventDate = in.EventDate
		s.persistEvents(ctx)

		updated = cloneEvent(*e)
		return &notify.Change{Kind: notify.EventUpdated, EventID: id}, nil
	})
	return updated, err
}

// normalizeEventInput trims the input and fills blanks from the settings
func (s *Service) normalizeEventInput(in *models.EventInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.EventType = strings.TrimSpace(in.EventType)
	in.FoodType = strings.TrimSpace(in.FoodType)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if in.Participants < 0 {
		return fmt.Errorf("%w: participants must be positive", ErrInvalidEvent)
	}
	if in.Participants == 0 {
		in.Participants = s.settings.General.DefaultParticipants
		if in.Participants <= 0 {
			in.Participants = 1
		}
	}
	if in.EventType == "" {
		in.EventType = s.settings.Events.DefaultEventType
	}
	if in.FoodType == "" {
		in.FoodType = s.settings.Events.DefaultFoodType
	}
	return nil
}

// SetCurrentEvent selects the event cart operations act on. An empty id
// clears the selection.
func (s *Service) SetCurrentEvent(ctx context.Context, id string) error {
	return s.mutate(func() (*notify.Change, error) {
		if id != "" && s.findEvent(id) < 0 {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
		}
		if id == s.currentEventID {
			return nil, nil
		}

		s.currentEventID = id
		s.persistCurrentEvent(ctx)

		s.logger.WithField("event_id", id).Info("Current event changed")
		return &notify.Change{Kind: notify.CurrentEventChanged, EventID: id}, nil
	})
}

// CurrentEventID returns the selection pointer as stored, which may dangle
func (s *Service) CurrentEventID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentEventID
}

// CurrentEvent returns the selected event, or nil when nothing is selected
// or the selection points at an event that no longer exists.
func (s *Service) CurrentEvent() *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentEventLocked()
}

func (s *Service) currentEventLocked() *models.Event {
	if s.currentEventID == "" {
		return nil
	}
	i := s.findEvent(s.currentEventID)
	if i < 0 {
		return nil
	}
	e := cloneEvent(s.events[i])
	return &e
}

// DeleteEvent removes an event together with its cart items and clears the
// selection when it pointed at it. Unknown ids are ignored.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.mutate(func() (*notify.Change, error) {
		i := s.findEvent(id)
		if i < 0 {
			return nil, nil
		}

		s.events = append(s.events[:i:i], s.events[i+1:]...)
		s.persistEvents(ctx)

		removed := s.dropCartItems(func(item models.CartItem) bool { return item.EventID == id })
		s.persistCart(ctx)

		if s.currentEventID == id {
			s.currentEventID = ""
			s.persistCurrentEvent(ctx)
		}

		s.logger.WithFields(logrus.Fields{
			"event_id":   id,
			"cart_items": removed,
		}).Info("Event deleted")
		return &notify.Change{Kind: notify.EventDeleted, EventID: id}, nil
	})
}

// Event returns the event with the given id
func (s *Service) Event(id string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findEvent(id)
	if i < 0 {
		return models.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return cloneEvent(s.events[i]), nil
}

// Events returns all events in stored order
func (s *Service) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.eventsLocked()
}

func (s *Service) eventsLocked() []models.Event {
	out := make([]models.Event, len(s.events))
	for i := range s.events {
		out[i] = cloneEvent(s.events[i])
	}
	return out
}

// EventsSorted returns the current event first, then the rest newest first.
// Ties keep their stored order and the stored order itself is not changed.
func (s *Service) EventsSorted() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.currentEventID
	events := s.eventsLocked()
	sort.SliceStable(events, func(i, j int) bool {
		ci, cj := events[i].ID == current, events[j].ID == current
		if ci != cj {
			return ci
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events
}
