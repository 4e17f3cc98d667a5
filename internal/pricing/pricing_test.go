package pricing

import (
	"os"
	"path/filepath"
	"testing"
)

func testCatalog() *Catalog {
	return &Catalog{
		Stores: []Store{
			{ID: "store_1", Name: "FreshMart", Location: "Downtown"},
			{ID: "store_2", Name: "ValueGrocer", Location: "Uptown"},
		},
		Prices: []PriceEntry{
			{Ingredient: "Chicken Breast", StoreID: "store_1", Unit: "g", PricePerUnit: 0.11, Section: "meat"},
			{Ingredient: "Chicken Breast", StoreID: "store_2", Unit: "g", PricePerUnit: 0.13, Section: "meat"},
			{Ingredient: "Rice", StoreID: "store_1", Unit: "g", PricePerUnit: 0.02, Section: "pantry"},
			{Ingredient: "Rice", StoreID: "store_2", Unit: "g", PricePerUnit: 0.02, Section: "pantry"},
		},
	}
}

func TestPriceAtCaseInsensitive(t *testing.T) {
	c := testCatalog()

	p, ok := c.PriceAt("chicken breast", "store_2")
	if !ok {
		t.Fatal("Expected a price for 'chicken breast' at store_2")
	}
	if p.PricePerUnit != 0.13 {
		t.Errorf("Expected price 0.13, got %v", p.PricePerUnit)
	}

	if _, ok := c.PriceAt("salmon", "store_1"); ok {
		t.Error("Did not expect a price for 'salmon'")
	}
}

func TestCheapestAnywhereTieBreaksByCatalogOrder(t *testing.T) {
	c := testCatalog()

	p, ok := c.CheapestAnywhere("RICE")
	if !ok {
		t.Fatal("Expected a cheapest entry for rice")
	}
	// store_1 and store_2 tie at 0.02; the first catalog entry wins.
	if p.StoreID != "store_1" {
		t.Errorf("Expected tie to resolve to store_1, got %s", p.StoreID)
	}
}

func TestStoreName(t *testing.T) {
	c := testCatalog()
	if got := c.StoreName("store_1"); got != "FreshMart" {
		t.Errorf("Expected 'FreshMart', got %q", got)
	}
	if got := c.StoreName("nope"); got != "Unknown Store" {
		t.Errorf("Expected 'Unknown Store' fallback, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	const catalog = `{
	  "stores": [{"id": "store_1", "name": "FreshMart", "location": "Downtown"}],
	  "prices": [
	    {"ingredient": "Broccoli", "store_id": "store_1", "unit": "g",
	     "price_per_unit": 0.012, "section": "produce"}
	  ]
	}`

	path := filepath.Join(t.TempDir(), "prices.json")
	if err := os.WriteFile(path, []byte(catalog), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Stores) != 1 || len(c.Prices) != 1 {
		t.Fatalf("Unexpected catalog contents: %+v", c)
	}

	t.Run("UnknownStoreReference", func(t *testing.T) {
		const bad = `{
		  "stores": [],
		  "prices": [{"ingredient": "Rice", "store_id": "ghost", "unit": "g", "price_per_unit": 0.02, "section": "pantry"}]
		}`
		badPath := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(badPath, []byte(bad), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		if _, err := Load(badPath); err == nil {
			t.Error("Expected an error for an unknown store reference, got nil")
		}
	})
}
