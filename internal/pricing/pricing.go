package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store is a grocery store in the price catalog.
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// PriceEntry is one ingredient's price at one store, per canonical unit.
type PriceEntry struct {
	Ingredient   string  `json:"ingredient"`
	StoreID      string  `json:"store_id"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	Section      string  `json:"section"`
}

// Catalog holds stores and price entries. It is loaded once and read-only
// afterwards, so it can be shared across concurrent requests without locking.
// All ingredient lookups are case-insensitive exact matches; catalog order
// decides ties.
type Catalog struct {
	Stores []Store      `json:"stores"`
	Prices []PriceEntry `json:"prices"`
}

// Load reads a price catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price catalog %s: %w", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse price catalog %s: %w", path, err)
	}

	for _, p := range c.Prices {
		if _, ok := c.StoreByID(p.StoreID); !ok {
			return nil, fmt.Errorf("price catalog %s: entry for %q references unknown store %q",
				path, p.Ingredient, p.StoreID)
		}
		if p.PricePerUnit < 0 {
			return nil, fmt.Errorf("price catalog %s: negative price for %q at %q",
				path, p.Ingredient, p.StoreID)
		}
	}
	return &c, nil
}

// StoreByID returns the store with the given ID.
func (c *Catalog) StoreByID(id string) (*Store, bool) {
	for i := range c.Stores {
		if c.Stores[i].ID == id {
			return &c.Stores[i], true
		}
	}
	return nil, false
}

// StoreName returns a display name for a store ID.
func (c *Catalog) StoreName(id string) string {
	if s, ok := c.StoreByID(id); ok {
		return s.Name
	}
	return "Unknown Store"
}

// PriceAt returns the price entry for an ingredient at a specific store.
func (c *Catalog) PriceAt(ingredient, storeID string) (*PriceEntry, bool) {
	for i := range c.Prices {
		p := &c.Prices[i]
		if p.StoreID == storeID && strings.EqualFold(p.Ingredient, ingredient) {
			return p, true
		}
	}
	return nil, false
}

// AllPrices returns every price entry for an ingredient, in catalog order.
func (c *Catalog) AllPrices(ingredient string) []PriceEntry {
	var out []PriceEntry
	for _, p := range c.Prices {
		if strings.EqualFold(p.Ingredient, ingredient) {
			out = append(out, p)
		}
	}
	return out
}

// CheapestAnywhere returns the lowest-priced entry for an ingredient across
// the whole catalog. Ties go to the first entry in catalog order.
func (c *Catalog) CheapestAnywhere(ingredient string) (*PriceEntry, bool) {
	var best *PriceEntry
	for i := range c.Prices {
		p := &c.Prices[i]
		if !strings.EqualFold(p.Ingredient, ingredient) {
			continue
		}
		if best == nil || p.PricePerUnit < best.PricePerUnit {
			best = p
		}
	}
	return best, best != nil
}
