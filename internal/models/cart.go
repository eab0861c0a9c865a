package models

// CartItem is a dish committed to an event's menu. A dish appears at most
// once per event; PeopleCount is fixed when the item is added.
type CartItem struct {
	DishID      string `json:"dishId"`
	DishName    string `json:"dishName"`
	PeopleCount int    `json:"peopleCount"`
	EventID     string `json:"eventId"`
}
