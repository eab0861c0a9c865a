package models

// LookupList names one of the editable reference lists
type LookupList string

const (
	LookupDishCategories    LookupList = "dishCategories"
	LookupKosherTypes       LookupList = "kosherTypes"
	LookupMeasurementUnits  LookupList = "measurementUnits"
	LookupProductCategories LookupList = "productCategories"
	LookupInventoryStatuses LookupList = "inventoryStatuses"
	LookupEventTypes        LookupList = "eventTypes"
)

// LookupLists enumerates every list key
var LookupLists = []LookupList{
	LookupDishCategories,
	LookupKosherTypes,
	LookupMeasurementUnits,
	LookupProductCategories,
	LookupInventoryStatuses,
	LookupEventTypes,
}

// WidgetGroup names a dashboard widget collection
type WidgetGroup string

const (
	WidgetDashboardSections WidgetGroup = "dashboardSections"
	WidgetDashboardMetrics  WidgetGroup = "dashboardMetrics"
)

// WidgetConfig is a dashboard widget toggle
type WidgetConfig struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
	AccentColor string `json:"accentColor,omitempty"`
}

// LookupData holds the reference lists used by forms and filters
type LookupData struct {
	DishCategories    []string       `json:"dishCategories"`
	KosherTypes       []string       `json:"kosherTypes"`
	MeasurementUnits  []string       `json:"measurementUnits"`
	ProductCategories []string       `json:"productCategories"`
	InventoryStatuses []string       `json:"inventoryStatuses"`
	EventTypes        []string       `json:"eventTypes"`
	DashboardSections []WidgetConfig `json:"dashboardSections"`
	DashboardMetrics  []WidgetConfig `json:"dashboardMetrics"`
}

// DefaultLookupData returns a fresh copy of the built-in reference lists
func DefaultLookupData() LookupData {
	return LookupData{
		DishCategories:    []string{"main", "starter", "side", "dessert", "drink", "snack"},
		KosherTypes:       []string{KosherDairy, KosherMeat, KosherParve},
		MeasurementUnits:  []string{"g", "l", "unit", "tbsp", "cup", "ml", "kg"},
		ProductCategories: []string{"groceries", "drinks", "snacks", "dairy"},
		InventoryStatuses: []string{string(InventoryInStock), string(InventoryOutOfStock), string(InventoryLowStock)},
		EventTypes:        []string{"shabbat", "sheva-brachot", "brit", "breakfast", "other"},
		DashboardSections: []WidgetConfig{
			{ID: "eventsOverview", Label: "Active events", Enabled: true, Description: "Events and the selected event", AccentColor: "hsl(210, 100%, 56%)"},
			{ID: "dishesSummary", Label: "Active dishes", Enabled: true, Description: "Dish and cart insights", AccentColor: "hsl(24, 95%, 53%)"},
			{ID: "inventoryHealth", Label: "Inventory health", Enabled: true, Description: "Product availability", AccentColor: "hsl(142, 76%, 48%)"},
			{ID: "quickLinks", Label: "Quick links", Enabled: true, Description: "Shortcuts to common actions", AccentColor: "hsl(280, 61%, 56%)"},
		},
		DashboardMetrics: []WidgetConfig{
			{ID: "budgetProjection", Label: "Budget projection", Enabled: true, Description: "Estimated menu cost per event", AccentColor: "hsl(45, 100%, 51%)"},
			{ID: "guestExperience", Label: "Guest experience", Enabled: false, Description: "Satisfaction and menu trends", AccentColor: "hsl(340, 80%, 60%)"},
			{ID: "prepTimeline", Label: "Prep timeline", Enabled: true, Description: "Preparation and serving schedule", AccentColor: "hsl(200, 90%, 45%)"},
		},
	}
}

// List returns the list stored under key, or nil for an unknown key
func (l *LookupData) List(key LookupList) []string {
	switch key {
	case LookupDishCategories:
		return l.DishCategories
	case LookupKosherTypes:
		return l.KosherTypes
	case LookupMeasurementUnits:
		return l.MeasurementUnits
	case LookupProductCategories:
		return l.ProductCategories
	case LookupInventoryStatuses:
		return l.InventoryStatuses
	case LookupEventTypes:
		return l.EventTypes
	}
	return nil
}

// SetList replaces the list stored under key. It returns false for an
// unknown key.
func (l *LookupData) SetList(key LookupList, values []string) bool {
	switch key {
	case LookupDishCategories:
		l.DishCategories = values
	case LookupKosherTypes:
		l.KosherTypes = values
	case LookupMeasurementUnits:
		l.MeasurementUnits = values
	case LookupProductCategories:
		l.ProductCategories = values
	case LookupInventoryStatuses:
		l.InventoryStatuses = values
	case LookupEventTypes:
		l.EventTypes = values
	default:
		return false
	}
	return true
}

// Widgets returns the widget collection for group
func (l *LookupData) Widgets(group WidgetGroup) []WidgetConfig {
	switch group {
	case WidgetDashboardSections:
		return l.DashboardSections
	case WidgetDashboardMetrics:
		return l.DashboardMetrics
	}
	return nil
}

// SetWidgets replaces the widget collection for group
func (l *LookupData) SetWidgets(group WidgetGroup, widgets []WidgetConfig) bool {
	switch group {
	case WidgetDashboardSections:
		l.DashboardSections = widgets
	case WidgetDashboardMetrics:
		l.DashboardMetrics = widgets
	default:
		return false
	}
	return true
}

// Clone returns a deep copy
func (l LookupData) Clone() LookupData {
	out := l
	for _, key := range LookupLists {
		out.SetList(key, append([]string(nil), l.List(key)...))
	}
	out.DashboardSections = append([]WidgetConfig(nil), l.DashboardSections...)
	out.DashboardMetrics = append([]WidgetConfig(nil), l.DashboardMetrics...)
	return out
}
