package recipe

import (
	"fmt"
	"math"
)

// Ingredient is a single recipe line: an amount of something, priced and
// tracked nutritionally per unit.
type Ingredient struct {
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Unit            string  `json:"unit"`
	CostPerUnit     float64 `json:"cost_per_unit"`
	CaloriesPerUnit float64 `json:"calories_per_unit"`
	ProteinPerUnit  float64 `json:"protein_per_unit"`
	CarbsPerUnit    float64 `json:"carbs_per_unit"`
	FatPerUnit      float64 `json:"fat_per_unit"`
}

// Recipe is an immutable catalog entry. The total_* fields are derived from
// the ingredient list and must stay consistent with it; EnsureTotals enforces
// that on load.
type Recipe struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	Ingredients         []Ingredient `json:"ingredients"`
	Steps               []string     `json:"steps"`
	CookingTimeMin      int          `json:"cooking_time_min"`
	DifficultyLevel     string       `json:"difficulty_level"`
	CuisineType         string       `json:"cuisine_type"`
	DietaryRestrictions []string     `json:"dietary_restrictions"`
	Allergens           []string     `json:"allergens"`

	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatG     float64 `json:"total_fat_g"`
	TotalCost     float64 `json:"total_cost"`
}

// Totals holds the derived sums over a recipe's ingredient list.
type Totals struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	Cost     float64
}

// ComputeTotals sums cost and nutrition over the ingredient list.
func (r *Recipe) ComputeTotals() Totals {
	var t Totals
	for _, ing := range r.Ingredients {
		t.Calories += ing.Amount * ing.CaloriesPerUnit
		t.ProteinG += ing.Amount * ing.ProteinPerUnit
		t.CarbsG += ing.Amount * ing.CarbsPerUnit
		t.FatG += ing.Amount * ing.FatPerUnit
		t.Cost += ing.Amount * ing.CostPerUnit
	}
	return t
}

// totalsTolerance absorbs rounding in hand-maintained catalog files.
const totalsTolerance = 0.5

// EnsureTotals recomputes the derived totals when they are unset, and
// validates them against the ingredient list otherwise.
func (r *Recipe) EnsureTotals() error {
	computed := r.ComputeTotals()

	if r.TotalCalories == 0 && r.TotalProteinG == 0 && r.TotalCarbsG == 0 &&
		r.TotalFatG == 0 && r.TotalCost == 0 {
		r.TotalCalories = computed.Calories
		r.TotalProteinG = computed.ProteinG
		r.TotalCarbsG = computed.CarbsG
		r.TotalFatG = computed.FatG
		r.TotalCost = computed.Cost
		return nil
	}

	checks := []struct {
		field    string
		declared float64
		computed float64
	}{
		{"total_calories", r.TotalCalories, computed.Calories},
		{"total_protein_g", r.TotalProteinG, computed.ProteinG},
		{"total_carbs_g", r.TotalCarbsG, computed.CarbsG},
		{"total_fat_g", r.TotalFatG, computed.FatG},
		{"total_cost", r.TotalCost, computed.Cost},
	}
	for _, c := range checks {
		if math.Abs(c.declared-c.computed) > totalsTolerance {
			return fmt.Errorf("recipe %q: %s is %.2f but ingredients sum to %.2f",
				r.Name, c.field, c.declared, c.computed)
		}
	}
	return nil
}

// Validate checks structural invariants for a recipe entering the catalog.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe %q: missing id", r.Name)
	}
	if r.Name == "" {
		return fmt.Errorf("recipe %s: missing name", r.ID)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe %q: no ingredients", r.Name)
	}
	if r.CookingTimeMin <= 0 {
		return fmt.Errorf("recipe %q: cooking_time_min must be positive", r.Name)
	}
	for _, ing := range r.Ingredients {
		if ing.Name == "" {
			return fmt.Errorf("recipe %q: ingredient with empty name", r.Name)
		}
		if ing.Amount <= 0 {
			return fmt.Errorf("recipe %q: ingredient %q has non-positive amount", r.Name, ing.Name)
		}
	}
	return nil
}
