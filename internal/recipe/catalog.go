package recipe

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCatalog reads a recipe catalog from a JSON file. Every entry is
// structurally validated and its derived totals are recomputed or checked
// against the ingredient list. The returned slice is treated as immutable
// for the lifetime of the process.
func LoadCatalog(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe catalog %s: %w", path, err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipe catalog %s: %w", path, err)
	}

	for i := range recipes {
		if err := recipes[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid recipe catalog entry: %w", err)
		}
		if err := recipes[i].EnsureTotals(); err != nil {
			return nil, fmt.Errorf("inconsistent recipe catalog entry: %w", err)
		}
	}
	return recipes, nil
}
