package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Kerhoff/planmyevents/internal/models"
	"github.com/Kerhoff/planmyevents/internal/notify"
)

// Lookup returns a copy of every reference list
func (s *Service) Lookup() models.LookupData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup.Clone()
}

// LookupList returns one reference list
func (s *Service) LookupList(key models.LookupList) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(models.LookupLists, key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLookup, key)
	}
	return append([]string{}, s.lookup.List(key)...), nil
}

// AddLookupItem appends a value to a list. Blank and duplicate values are
// ignored.
func (s *Service) AddLookupItem(ctx context.Context, key models.LookupList, value string) error {
	return s.updateList(ctx, key, func(current []string) ([]string, error) {
		value = strings.TrimSpace(value)
		if value == "" || slices.Contains(current, value) {
			return nil, nil
		}
		return append(current, value), nil
	})
}

// UpdateLookupItem replaces the value at index. A blank value removes the
// item; a value already present elsewhere in the list is ignored.
func (s *Service) UpdateLookupItem(ctx context.Context, key models.LookupList, index int, value string) error {
	return s.updateList(ctx, key, func(current []string) ([]string, error) {
		if index < 0 || index >= len(current) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidLookup, index)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return slices.Delete(current, index, index+1), nil
		}
		if slices.Contains(current, value) {
			return nil, nil
		}
		current[index] = value
		return current, nil
	})
}

// RemoveLookupItem removes the value at index. Out of range indexes are
// ignored.
func (s *Service) RemoveLookupItem(ctx context.Context, key models.LookupList, index int) error {
	return s.updateList(ctx, key, func(current []string) ([]string, error) {
		if index < 0 || index >= len(current) {
			return nil, nil
		}
		return slices.Delete(current, index, index+1), nil
	})
}

// ResetLookupList restores the built-in values of one list
func (s *Service) ResetLookupList(ctx context.Context, key models.LookupList) error {
	return s.updateList(ctx, key, func([]string) ([]string, error) {
		defaults := models.DefaultLookupData()
		return defaults.List(key), nil
	})
}

// updateList applies fn to a copy of the list. fn returns nil to leave the
// list unchanged.
func (s *Service) updateList(ctx context.Context, key models.LookupList, fn func([]string) ([]string, error)) error {
	return s.mutate(func() (*notify.Change, error) {
		if !slices.Contains(models.LookupLists, key) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLookup, key)
		}
		updated, err := fn(append([]string{}, s.lookup.List(key)...))
		if err != nil || updated == nil {
			return nil, err
		}
		s.lookup.SetList(key, normalizeList(updated, nil))
		s.persistLookup(ctx)
		return &notify.Change{Kind: notify.LookupChanged}, nil
	})
}

// ResetLookup restores every list and widget group to the built-in values
func (s *Service) ResetLookup(ctx context.Context) error {
	return s.mutate(func() (*notify.Change, error) {
		s.lookup = models.DefaultLookupData()
		s.persistLookup(ctx)
		return &notify.Change{Kind: notify.LookupChanged}, nil
	})
}

// ToggleWidget enables or disables a dashboard widget. Unknown ids are
// ignored.
func (s *Service) ToggleWidget(ctx context.Context, group models.WidgetGroup, id string, enabled bool) error {
	return s.updateWidgets(ctx, group, func(widgets []models.WidgetConfig) []models.WidgetConfig {
		i := slices.IndexFunc(widgets, func(w models.WidgetConfig) bool { return w.ID == id })
		if i < 0 || widgets[i].Enabled == enabled {
			return nil
		}
		widgets[i].Enabled = enabled
		return widgets
	})
}

// UpsertWidget adds a widget or updates the one with the same id
func (s *Service) UpsertWidget(ctx context.Context, group models.WidgetGroup, widget models.WidgetConfig) error {
	widget = sanitizeWidget(widget)
	if widget.ID == "" {
		return fmt.Errorf("%w: widget id is required", ErrInvalidLookup)
	}
	return s.updateWidgets(ctx, group, func(widgets []models.WidgetConfig) []models.WidgetConfig {
		i := slices.IndexFunc(widgets, func(w models.WidgetConfig) bool { return w.ID == widget.ID })
		if i < 0 {
			return append(widgets, widget)
		}
		widgets[i] = mergeWidget(widgets[i], widget)
		return widgets
	})
}

// RemoveWidget drops a widget from a group
func (s *Service) RemoveWidget(ctx context.Context, group models.WidgetGroup, id string) error {
	return s.updateWidgets(ctx, group, func(widgets []models.WidgetConfig) []models.WidgetConfig {
		i := slices.IndexFunc(widgets, func(w models.WidgetConfig) bool { return w.ID == id })
		if i < 0 {
			return nil
		}
		return slices.Delete(widgets, i, i+1)
	})
}

// ResetWidgetGroup restores the built-in widgets of a group
func (s *Service) ResetWidgetGroup(ctx context.Context, group models.WidgetGroup) error {
	return s.updateWidgets(ctx, group, func([]models.WidgetConfig) []models.WidgetConfig {
		defaults := models.DefaultLookupData()
		return defaults.Widgets(group)
	})
}

func (s *Service) updateWidgets(ctx context.Context, group models.WidgetGroup, fn func([]models.WidgetConfig) []models.WidgetConfig) error {
	return s.mutate(func() (*notify.Change, error) {
		if group != models.WidgetDashboardSections && group != models.WidgetDashboardMetrics {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLookup, group)
		}
		updated := fn(append([]models.WidgetConfig{}, s.lookup.Widgets(group)...))
		if updated == nil {
			return nil, nil
		}
		s.lookup.SetWidgets(group, updated)
		s.persistLookup(ctx)
		return &notify.Change{Kind: notify.LookupChanged}, nil
	})
}

// mergeLookup lays stored lookup data over the defaults. Lists missing from
// the stored blob fall back to the defaults; stored widgets override the
// built-in ones by id and extra ones are appended.
func mergeLookup(stored models.LookupData) models.LookupData {
	defaults := models.DefaultLookupData()
	out := models.LookupData{}
	for _, key := range models.LookupLists {
		out.SetList(key, normalizeList(stored.List(key), defaults.List(key)))
	}
	out.DashboardSections = mergeWidgets(stored.DashboardSections, defaults.DashboardSections)
	out.DashboardMetrics = mergeWidgets(stored.DashboardMetrics, defaults.DashboardMetrics)
	return out
}

// normalizeList trims values, drops blanks and duplicates. A nil list is
// replaced by fallback first.
func normalizeList(values, fallback []string) []string {
	if values == nil {
		values = fallback
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func mergeWidgets(stored, defaults []models.WidgetConfig) []models.WidgetConfig {
	out := append([]models.WidgetConfig{}, defaults...)
	for _, w := range stored {
		w = sanitizeWidget(w)
		if w.ID == "" {
			continue
		}
		i := slices.IndexFunc(out, func(d models.WidgetConfig) bool { return d.ID == w.ID })
		if i < 0 {
			out = append(out, w)
			continue
		}
		out[i] = mergeWidget(out[i], w)
	}
	return out
}

// mergeWidget overlays w on base, keeping base's optional texts when w has
// none.
func mergeWidget(base, w models.WidgetConfig) models.WidgetConfig {
	if w.Description == "" {
		w.Description = base.Description
	}
	if w.AccentColor == "" {
		w.AccentColor = base.AccentColor
	}
	return w
}

func sanitizeWidget(w models.WidgetConfig) models.WidgetConfig {
	w.ID = strings.TrimSpace(w.ID)
	w.Label = strings.TrimSpace(w.Label)
	if w.Label == "" {
		w.Label = w.ID
	}
	w.Description = strings.TrimSpace(w.Description)
	w.AccentColor = strings.TrimSpace(w.AccentColor)
	return w
}
