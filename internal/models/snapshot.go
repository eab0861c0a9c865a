package models

import "time"

// Snapshot is the complete persisted state, used for backups
type Snapshot struct {
	Events         []Event    `json:"events"`
	Cart           []CartItem `json:"cart"`
	CurrentEventID string     `json:"currentEventId,omitempty"`
	Dishes         []Dish     `json:"dishes"`
	Products       []Product  `json:"products"`
	Lookup         LookupData `json:"lookupData"`
	Settings       Settings   `json:"appSettings"`
	TakenAt        time.Time  `json:"takenAt"`
}

// Stats holds the dashboard figures
type Stats struct {
	Events            int            `json:"events"`
	Dishes            int            `json:"dishes"`
	ActiveDishes      int            `json:"activeDishes"`
	Products          int            `json:"products"`
	InStockProducts   int            `json:"inStockProducts"`
	LowStockProducts  int            `json:"lowStockProducts"`
	OutOfStock        int            `json:"outOfStockProducts"`
	CartItems         int            `json:"cartItems"`
	TotalPeople       int            `json:"totalPeople"`
	GrandTotal        float64        `json:"grandTotal"`
	KosherTypeCounts  map[string]int `json:"kosherTypeCounts"`
	CurrentEventID    string         `json:"currentEventId,omitempty"`
	CurrentEventTotal float64        `json:"currentEventTotal"`
}
