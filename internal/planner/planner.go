package planner

import (
	"fmt"
	"time"

	"optimeal/internal/grocery"
	"optimeal/internal/pricing"
	"optimeal/internal/recipe"
	"optimeal/internal/scheduler"
	"optimeal/internal/selector"
	"optimeal/internal/units"
)

// Preferences are the caller's constraints for one planning request,
// validated for type and range at the boundary before reaching the planner.
type Preferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`

	// Daily nutrition targets; zero means no constraint for that macro.
	TargetProteinG  float64 `json:"target_protein_g,omitempty"`
	TargetCarbsG    float64 `json:"target_carbs_g,omitempty"`
	TargetFatG      float64 `json:"target_fat_g,omitempty"`
	TargetCalories  float64 `json:"target_calories,omitempty"`

	PreferredCuisines []string `json:"preferred_cuisines,omitempty"`
	MaxCookingTimeMin int      `json:"max_cooking_time_min,omitempty"`
	WeeklyBudget      float64  `json:"weekly_budget"`
	MaxRepeatsPerWeek int      `json:"max_repeats_per_week,omitempty"`
}

// withDefaults fills the optional fields the way the original product did.
func (p Preferences) withDefaults() Preferences {
	if p.MaxCookingTimeMin == 0 {
		p.MaxCookingTimeMin = 60
	}
	if p.MaxRepeatsPerWeek == 0 {
		p.MaxRepeatsPerWeek = 2
	}
	return p
}

// NutritionSummary totals the week's macros over the selection.
type NutritionSummary struct {
	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatG     float64 `json:"total_fat_g"`
}

// SelectionEntry is one selected recipe with its serving count, for display.
type SelectionEntry struct {
	RecipeID   string `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`
	Servings   int    `json:"servings"`
}

// MealPlan is the complete result of one planning run: the weekly schedule,
// the optimized grocery plan, and the nutrition summary. It is built fresh
// per request and never mutated afterwards.
type MealPlan struct {
	WeekStart        time.Time                `json:"week_start"`
	Days             [7]scheduler.DaySchedule `json:"days"`
	Selection        []SelectionEntry         `json:"selection"`
	Nutrition        NutritionSummary         `json:"nutritional_summary"`
	Grocery          *grocery.Plan            `json:"grocery_plan"`
	TotalCost        float64                  `json:"total_cost"`
	RelaxedNutrition bool                     `json:"relaxed_nutrition,omitempty"`
}

// Planner runs the full pipeline: eligibility filter, serving selection,
// weekly scheduling and grocery optimization. The recipe table and price
// catalog are loaded once and shared read-only across requests.
type Planner struct {
	recipes []recipe.Recipe
	catalog *pricing.Catalog
	units   *units.Service
	now     func() time.Time
}

// NewPlanner creates a Planner over an immutable recipe table and price
// catalog.
func NewPlanner(recipes []recipe.Recipe, catalog *pricing.Catalog, svc *units.Service) *Planner {
	return &Planner{
		recipes: recipes,
		catalog: catalog,
		units:   svc,
		now:     time.Now,
	}
}

// GeneratePlan produces a meal plan for one request. Selection failures
// (no candidates, infeasible constraints) abort the whole pipeline; pricing
// gaps downstream only degrade the grocery plan with warnings.
func (p *Planner) GeneratePlan(prefs Preferences, singleStoreMode bool) (*MealPlan, error) {
	prefs = prefs.withDefaults()

	eligible := recipe.Filter(p.recipes, recipe.FilterOptions{
		DietaryRestrictions: prefs.DietaryRestrictions,
		Allergens:           prefs.Allergies,
		MaxCookingTimeMin:   prefs.MaxCookingTimeMin,
		Cuisines:            prefs.PreferredCuisines,
	})
	if len(eligible) == 0 {
		return nil, fmt.Errorf("after dietary/allergen/time/cuisine filtering: %w", selector.ErrNoEligibleCandidates)
	}

	result, err := selector.Select(eligible, selector.Constraints{
		WeeklyBudget:      prefs.WeeklyBudget,
		MaxRepeatsPerWeek: prefs.MaxRepeatsPerWeek,
		MaxCookingTimeMin: prefs.MaxCookingTimeMin,
		DailyTargets: selector.MacroTargets{
			Calories: prefs.TargetCalories,
			ProteinG: prefs.TargetProteinG,
			CarbsG:   prefs.TargetCarbsG,
			FatG:     prefs.TargetFatG,
		},
	})
	if err != nil {
		return nil, err
	}

	assignment := scheduler.Schedule(result.Picks, p.now())
	basket := grocery.BuildBasket(result.Picks, p.units)
	groceryPlan := grocery.Optimize(basket, p.catalog, singleStoreMode)

	plan := &MealPlan{
		WeekStart:        assignment.WeekStart,
		Days:             assignment.Days,
		Grocery:          groceryPlan,
		TotalCost:        groceryPlan.TotalCost,
		RelaxedNutrition: result.Relaxed,
	}
	for _, pick := range result.Picks {
		plan.Selection = append(plan.Selection, SelectionEntry{
			RecipeID:   pick.Recipe.ID,
			RecipeName: pick.Recipe.Name,
			Servings:   pick.Servings,
		})
		servings := float64(pick.Servings)
		plan.Nutrition.TotalCalories += pick.Recipe.TotalCalories * servings
		plan.Nutrition.TotalProteinG += pick.Recipe.TotalProteinG * servings
		plan.Nutrition.TotalCarbsG += pick.Recipe.TotalCarbsG * servings
		plan.Nutrition.TotalFatG += pick.Recipe.TotalFatG * servings
	}

	return plan, nil
}

// Recipes exposes the immutable recipe table for read-only listing.
func (p *Planner) Recipes() []recipe.Recipe {
	return p.recipes
}
