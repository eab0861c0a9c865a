package models

// ShoppingListItem is the aggregated demand for one product across the
// dishes of an event. It is derived on demand and never stored.
type ShoppingListItem struct {
	ProductName    string   `json:"productName"`
	TotalQuantity  float64  `json:"totalQuantity"`
	Unit           string   `json:"unit"`
	EstimatedPrice float64  `json:"estimatedPrice"`
	Dishes         []string `json:"dishes"`
}

// Cost returns the estimated price of the item
func (i *ShoppingListItem) Cost() float64 {
	return i.EstimatedPrice * i.TotalQuantity
}

// ShoppingListTotal sums price times quantity over the list. Units and
// package sizes are not normalized, so this is only an estimate.
func ShoppingListTotal(list []ShoppingListItem) float64 {
	var total float64
	for i := range list {
		total += list[i].Cost()
	}
	return total
}
