package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
	"github.com/Kerhoff/planmyevents/internal/storage"
)

// Settings returns the application preferences
func (s *Service) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// SaveSettings validates and stores new preferences
func (s *Service) SaveSettings(ctx context.Context, settings models.Settings) error {
	return s.mutate(func() (*notify.Change, error) {
		if err := validateSettings(settings); err != nil {
			return nil, err
		}
		s.settings = settings
		s.persistSettings(ctx)
		s.logger.Info("Settings saved")
		return &notify.Change{Kind: notify.SettingsChanged}, nil
	})
}

// ResetSettings restores the factory preferences
func (s *Service) ResetSettings(ctx context.Context) error {
	return s.SaveSettings(ctx, models.DefaultSettings())
}

// ExportSettings writes the preferences as indented JSON
func (s *Service) ExportSettings(w io.Writer) error {
	settings := s.Settings()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}
	return nil
}

// ImportSettings reads a JSON document and lays it over the current
// preferences. Only the settings key is written; on malformed or invalid
// input nothing changes.
func (s *Service) ImportSettings(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	return s.mutate(func() (*notify.Change, error) {
		merged := s.settings
		if err := json.Unmarshal(data, &merged); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
		if err := validateSettings(merged); err != nil {
			return nil, err
		}
		s.settings = merged
		s.persistSettings(ctx)
		s.logger.Info("Settings imported")
		return &notify.Change{Kind: notify.SettingsChanged}, nil
	})
}

func validateSettings(st models.Settings) error {
	switch {
	case st.General.AppName == "":
		return fmt.Errorf("%w: app name is required", ErrInvalidSettings)
	case st.General.DefaultParticipants <= 0:
		return fmt.Errorf("%w: default participants must be positive", ErrInvalidSettings)
	case st.Dishes.DefaultServingSize <= 0:
		return fmt.Errorf("%w: default serving size must be positive", ErrInvalidSettings)
	case st.Events.MaxEventsHistory < 0:
		return fmt.Errorf("%w: events history must not be negative", ErrInvalidSettings)
	case st.Products.LowStockThreshold < 0:
		return fmt.Errorf("%w: low stock threshold must not be negative", ErrInvalidSettings)
	case st.Advanced.BackupInterval <= 0:
		return fmt.Errorf("%w: backup interval must be positive", ErrInvalidSettings)
	}
	return nil
}

// ClearAllData deletes every stored key except the settings and reloads,
// which brings the demo catalog back.
func (s *Service) ClearAllData(ctx context.Context) error {
	return s.mutate(func() (*notify.Change, error) {
		s.store.ClearExcept(ctx, storage.KeyAppSettings)
		if err := s.load(ctx); err != nil {
			return nil, err
		}
		s.logger.Warn("All planning data cleared")
		return &notify.Change{Kind: notify.DataCleared}, nil
	})
}

// Stats computes the dashboard figures
func (s *Service) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.Stats{
		Events:           len(s.events),
		Dishes:           len(s.dishes),
		Products:         len(s.products),
		CartItems:        len(s.cart),
		GrandTotal:       s.grandTotalLocked(),
		KosherTypeCounts: make(map[string]int),
	}
	for _, d := range s.dishes {
		if d.IsActive {
			st.ActiveDishes++
		}
		st.KosherTypeCounts[d.KosherType]++
	}
	for _, p := range s.products {
		switch p.InventoryStatus {
		case models.InventoryInStock:
			st.InStockProducts++
		case models.InventoryLowStock:
			st.LowStockProducts++
		case models.InventoryOutOfStock:
			st.OutOfStock++
		}
	}
	for _, item := range s.cart {
		st.TotalPeople += item.PeopleCount
	}
	if current := s.currentEventLocked(); current != nil {
		st.CurrentEventID = current.ID
		st.CurrentEventTotal = s.eventTotalLocked(current.ID)
	}
	return st
}

// Snapshot returns a copy of the complete state
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	dishes := make([]models.Dish, len(s.dishes))
	for i := range s.dishes {
		dishes[i] = cloneDish(s.dishes[i])
	}
	return models.Snapshot{
		Events:         s.eventsLocked(),
		Cart:           append([]models.CartItem{}, s.cart...),
		CurrentEventID: s.currentEventID,
		Dishes:         dishes,
		Products:       append([]models.Product{}, s.products...),
		Lookup:         s.lookup.Clone(),
		Settings:       s.settings,
		TakenAt:        s.now(),
	}
}

// Restore replaces the whole state with a snapshot and persists every key.
// Cart items are cleaned the same way as on load.
func (s *Service) Restore(ctx context.Context, snap models.Snapshot) error {
	return s.mutate(func() (*notify.Change, error) {
		if err := validateSettings(snap.Settings); err != nil {
			return nil, err
		}

		cart, dropped := normalizeCart(snap.Cart)
		if dropped > 0 {
			s.logger.WithField("dropped", dropped).Warn("Snapshot cart had invalid or repeated items")
		}

		s.events = append([]models.Event{}, snap.Events...)
		s.cart = cart
		s.currentEventID = snap.CurrentEventID
		s.dishes = append([]models.Dish{}, snap.Dishes...)
		s.products = append([]models.Product{}, snap.Products...)
		s.lookup = mergeLookup(snap.Lookup)
		s.settings = snap.Settings

		s.persistEvents(ctx)
		s.persistCart(ctx)
		s.persistCurrentEvent(ctx)
		s.persistDishes(ctx)
		s.persistProducts(ctx)
		s.persistLookup(ctx)
		s.persistSettings(ctx)

		s.logger.WithField("taken_at", snap.TakenAt).Info("State restored from snapshot")
		return &notify.Change{Kind: notify.DataCleared}, nil
	})
}
