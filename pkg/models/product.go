// Package models defines the catalog, prompt and workflow types shared across scribe.
package models

// Product is an entry of the store catalog. Catalog data is loaded once and never mutated.
type Product struct {
	ID          string  `json:"id"          validate:"required"`
	Name        string  `json:"name"        validate:"required"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	SalesCount  int     `json:"sales_count" validate:"gte=0"`
	Description string  `json:"description"`
}
