// Package catalog provides the store reference data the support chatbot answers from.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dukex/scribe/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrDuplicateID    = errors.New("duplicate identifier")
)

// Catalog is immutable once loaded.
type Catalog struct {
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
}

// Sample returns the built-in demo catalog.
func Sample() *Catalog {
	return &Catalog{
		Products: sampleProducts(),
		Orders:   sampleOrders(),
	}
}

// Load reads a JSON catalog file, validating it against the catalog schema.
// An empty path yields the sample catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Sample(), nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	return Parse(body)
}

// Parse validates and decodes a JSON catalog document.
func Parse(body []byte) (*Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(Schema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(messages, "; "))
	}

	var catalog Catalog

	if err := decodeJSON(body, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := catalog.checkUnique(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (c *Catalog) checkUnique() error {
	products := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		if _, ok := products[p.ID]; ok {
			return fmt.Errorf("%w: product %s", ErrDuplicateID, p.ID)
		}

		products[p.ID] = struct{}{}
	}

	orders := make(map[string]struct{}, len(c.Orders))
	for _, o := range c.Orders {
		if _, ok := orders[o.ID]; ok {
			return fmt.Errorf("%w: order %s", ErrDuplicateID, o.ID)
		}

		orders[o.ID] = struct{}{}
	}

	return nil
}

// Warnings reports data-quality problems that do not prevent the catalog from loading,
// such as an order total that differs from the sum of its line items.
func (c *Catalog) Warnings() []string {
	var warnings []string

	for _, o := range c.Orders {
		if math.Abs(o.ItemsTotal()-o.Total) > 0.005 {
			warnings = append(warnings, fmt.Sprintf("order %s: total %.2f does not match line items %.2f", o.ID, o.Total, o.ItemsTotal()))
		}
	}

	return warnings
}

// Order returns the order with the given ID.
func (c *Catalog) Order(id string) (models.Order, bool) {
	for _, o := range c.Orders {
		if o.ID == id {
			return o, true
		}
	}

	return models.Order{}, false
}
