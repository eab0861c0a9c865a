package models

import "strings"

// InventoryStatus describes product availability
type InventoryStatus string

const (
	InventoryInStock    InventoryStatus = "in-stock"
	InventoryLowStock   InventoryStatus = "low-stock"
	InventoryOutOfStock InventoryStatus = "out-of-stock"
)

// Product represents an inventory entry used to price ingredients
type Product struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	InventoryStatus InventoryStatus `json:"inventoryStatus" yaml:"inventoryStatus"`
	Brand           string          `json:"brand" yaml:"brand"`
	PackageQuantity float64         `json:"packageQuantity" yaml:"packageQuantity"`
	EstimatedPrice  float64         `json:"estimatedPrice" yaml:"estimatedPrice"`
	Category        string          `json:"category" yaml:"category"`
	Supplier        string          `json:"supplier" yaml:"supplier"`
}

// InStock returns true if the product is available
func (p *Product) InStock() bool {
	return p.InventoryStatus == InventoryInStock
}

// Matches reports whether query appears in the name, brand or supplier,
// ignoring case. An empty query matches everything.
func (p *Product) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) ||
		strings.Contains(strings.ToLower(p.Supplier), query)
}

// ProductSort names the field a product listing is ordered by
type ProductSort string

const (
	// ProductSortNewest lists the most recently added products first
	ProductSortNewest   ProductSort = ""
	ProductSortName     ProductSort = "name"
	ProductSortBrand    ProductSort = "brand"
	ProductSortCategory ProductSort = "category"
	ProductSortSupplier ProductSort = "supplier"
	ProductSortPrice    ProductSort = "estimatedPrice"
	ProductSortStatus   ProductSort = "inventoryStatus"
)

// Valid reports whether s is a known sort field
func (s ProductSort) Valid() bool {
	switch s {
	case ProductSortNewest, ProductSortName, ProductSortBrand, ProductSortCategory,
		ProductSortSupplier, ProductSortPrice, ProductSortStatus:
		return true
	}
	return false
}

// ProductFilter narrows and orders the product catalog
type ProductFilter struct {
	Query           string
	InventoryStatus InventoryStatus
	Category        string
	SortBy          ProductSort
	// Descending reverses SortBy; it has no effect on the newest-first order.
	Descending bool
}
