package models

import (
	"strings"
	"time"
)

// Default kosher classifications. Events use FoodTypeAll to accept any dish.
const (
	KosherDairy = "dairy"
	KosherMeat  = "meat"
	KosherParve = "parve"

	FoodTypeAll = "all"
)

// Ingredient is a single recipe line of a dish
type Ingredient struct {
	ProductName string  `json:"productName" yaml:"productName"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	Unit        string  `json:"unit" yaml:"unit"`
}

// Equipment is a tool needed to prepare a dish
type Equipment struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
}

// Dish represents a recipe in the catalog
type Dish struct {
	ID             string       `json:"id" yaml:"id"`
	Name           string       `json:"name" yaml:"name"`
	Description    string       `json:"description,omitempty" yaml:"description"`
	EstimatedPrice float64      `json:"estimatedPrice" yaml:"estimatedPrice"`
	Category       string       `json:"category" yaml:"category"`
	KosherType     string       `json:"kosherType" yaml:"kosherType"`
	ServingSize    int          `json:"servingSize" yaml:"servingSize"`
	Ingredients    []Ingredient `json:"ingredients" yaml:"ingredients"`
	Equipment      []Equipment  `json:"equipment" yaml:"equipment"`
	ImageURL       string       `json:"imageUrl,omitempty" yaml:"imageUrl"`
	IsActive       bool         `json:"isActive" yaml:"isActive"`
	CreatedDate    time.Time    `json:"createdDate" yaml:"-"`
	LastModified   time.Time    `json:"lastModified" yaml:"-"`
}

// CompatibleWith reports whether the dish may be served at an event with the
// given food type. Parve dishes go with everything.
func (d *Dish) CompatibleWith(foodType string) bool {
	if foodType == "" || foodType == FoodTypeAll {
		return true
	}
	return d.KosherType == foodType || d.KosherType == KosherParve
}

// Matches reports whether the query appears in the dish name or description,
// ignoring case.
func (d *Dish) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), query) ||
		strings.Contains(strings.ToLower(d.Description), query)
}

// DishFilter narrows the dish catalog
type DishFilter struct {
	Query      string
	Category   string
	KosherType string
	ActiveOnly bool
	// CompatibleWith is an event food type; empty disables the check.
	CompatibleWith string
}
