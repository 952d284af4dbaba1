// Package domain contains the item catalog models consumed by the
// simulation and aggregation stages.
package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

const (
	CategoryElectronics = "Electronics"
	CategoryFood        = "Food"
)

// Categories an item may belong to. Electronics and Food carry dedicated
// demand profiles; the rest share the sinusoidal fallback.
var Categories = []string{
	CategoryElectronics,
	CategoryFood,
	"Clothing",
	"Home",
	"Beauty",
	"Sports",
	"Books",
	"Toys",
	"Garden",
	"Auto",
}

// Suppliers and storage conditions drawn at catalog generation time.
var (
	Suppliers         = []string{"Supplier A", "Supplier B", "Supplier C", "Supplier D", "Supplier E"}
	StorageConditions = []string{"Normal", "Refrigerated", "Frozen", "Cool", "Warm"}
)

var (
	ErrDuplicateItem = errors.New("duplicate_item")
	ErrUnknownItem   = errors.New("unknown_item")
)

// Item is one catalog entry. Immutable once generated for a simulation run.
type Item struct {
	ID               string  `json:"item_id"`
	Name             string  `json:"item_name"`
	Category         string  `json:"category"`
	Supplier         string  `json:"supplier"`
	PurchasePrice    float64 `json:"purchase_price"`
	SalePrice        float64 `json:"sale_price"`
	Unit             string  `json:"units"`
	StorageCondition string  `json:"storage_condition"`
	ShelfLifeDays    int     `json:"shelf_life_days"`
}

// Catalog is a read-only, ordered collection of items with ID lookup.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// NewCatalog builds a catalog from an ordered item list, rejecting
// duplicate identifiers.
func NewCatalog(items []Item) (*Catalog, error) {
	byID := make(map[string]int, len(items))
	for i, item := range items {
		if _, ok := byID[item.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		byID[item.ID] = i
	}
	return &Catalog{items: items, byID: byID}, nil
}

// Items returns the catalog content in generation order. Callers must not
// mutate the returned slice.
func (c *Catalog) Items() []Item {
	return c.items
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// ByID looks an item up by its identifier.
func (c *Catalog) ByID(id string) (Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return c.items[i], nil
}

// Generator produces a randomized catalog from a seeded source.
type Generator interface {
	Generate(rng *rand.Rand, n int) (*Catalog, error)
}
