package models

import "time"

// EventDish is the legacy embedded dish reference. The cart replaced it; it
// is only kept so older stored events still decode.
type EventDish struct {
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

// Event represents a planned occasion owning a cart of dishes
type Event struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Participants int         `json:"participants"`
	EventType    string      `json:"eventType"`
	FoodType     string      `json:"foodType"`
	Dishes       []EventDish `json:"dishes"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	EventDate    *time.Time  `json:"eventDate,omitempty"`
}

// EventInput holds the user-supplied fields of an event
type EventInput struct {
	Name         string     `json:"name"`
	Participants int        `json:"participants"`
	EventType    string     `json:"eventType"`
	FoodType     string     `json:"foodType"`
	Notes        string     `json:"notes,omitempty"`
	EventDate    *time.Time `json:"eventDate,omitempty"`
}

// IsUpcoming returns true if the event has a date that hasn't passed yet
func (e *Event) IsUpcoming() bool {
	return e.EventDate != nil && time.Now().Before(*e.EventDate)
}
