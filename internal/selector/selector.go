package selector

import (
	"errors"
	"fmt"
	"math"

	"optimeal/internal/recipe"
)

// Selection outcomes the caller must distinguish. An empty selection is
// never returned as success: infeasibility is always an explicit error.
var (
	ErrNoEligibleCandidates = errors.New("no eligible candidate recipes")
	ErrInfeasible           = errors.New("no feasible meal plan under the given constraints")
)

const (
	// MaxServingsPerRecipe caps any single recipe's weekly servings.
	MaxServingsPerRecipe = 10
	// MinWeeklyServings guarantees enough units to fill 7 days x 3 meals.
	MinWeeklyServings = 21

	// nutritionBand is the allowed relative deviation around each weekly
	// nutrition target; relaxedNutritionBand is the widened band tried once
	// before reporting infeasibility.
	nutritionBand        = 0.20
	relaxedNutritionBand = 0.30

	// solverNodeLimit bounds the branch-and-bound search. Running past it
	// without a solution is treated like infeasibility and takes the
	// relaxation path.
	solverNodeLimit = 2_000_000
)

// MacroTargets are daily nutrition targets. A zero value imposes no
// constraint for that macro.
type MacroTargets struct {
	Calories float64 `json:"target_calories"`
	ProteinG float64 `json:"target_protein_g"`
	CarbsG   float64 `json:"target_carbs_g"`
	FatG     float64 `json:"target_fat_g"`
}

// Constraints bound the weekly selection. The recipe pool handed to Select
// must already be filtered for hard eligibility (dietary tags, allergens,
// cuisine, per-meal cooking time).
type Constraints struct {
	WeeklyBudget      float64
	MaxRepeatsPerWeek int
	MaxCookingTimeMin int
	DailyTargets      MacroTargets
}

// Pick is one selected recipe with its serving count (always > 0).
type Pick struct {
	Recipe   recipe.Recipe
	Servings int
}

// Result is a feasible weekly selection. Relaxed reports whether the
// widened nutrition band was needed to find it.
type Result struct {
	Picks   []Pick
	Relaxed bool
}

// TotalCost sums cost over the selection.
func (r *Result) TotalCost() float64 {
	var total float64
	for _, p := range r.Picks {
		total += p.Recipe.TotalCost * float64(p.Servings)
	}
	return total
}

// TotalServings sums servings over the selection.
func (r *Result) TotalServings() int {
	var total int
	for _, p := range r.Picks {
		total += p.Servings
	}
	return total
}

// Select solves the weekly integer program: choose servings per recipe
// minimizing total cost, subject to the nutrition band, budget, variety,
// minimum-volume and aggregate cooking-time constraints. If the strict
// nutrition band is infeasible the band is widened once before giving up
// with ErrInfeasible.
func Select(recipes []recipe.Recipe, c Constraints) (*Result, error) {
	if len(recipes) == 0 {
		return nil, ErrNoEligibleCandidates
	}
	if c.WeeklyBudget <= 0 {
		return nil, fmt.Errorf("weekly budget must be positive, got %.2f", c.WeeklyBudget)
	}

	res := solve(buildModel(recipes, c, nutritionBand), solverNodeLimit)
	if res.found {
		return &Result{Picks: picksFrom(recipes, res.values)}, nil
	}

	res = solve(buildModel(recipes, c, relaxedNutritionBand), solverNodeLimit)
	if res.found {
		return &Result{Picks: picksFrom(recipes, res.values), Relaxed: true}, nil
	}

	return nil, ErrInfeasible
}

func buildModel(recipes []recipe.Recipe, c Constraints, band float64) model {
	n := len(recipes)

	perRecipeCap := MaxServingsPerRecipe
	if c.MaxRepeatsPerWeek > 0 && c.MaxRepeatsPerWeek < perRecipeCap {
		perRecipeCap = c.MaxRepeatsPerWeek
	}

	m := model{vars: make([]variable, n)}
	for i, r := range recipes {
		m.vars[i] = variable{cost: r.TotalCost, cap: perRecipeCap}
	}

	coeffs := func(f func(recipe.Recipe) float64) []float64 {
		out := make([]float64, n)
		for i, r := range recipes {
			out[i] = f(r)
		}
		return out
	}

	// Nutrition bands around the weekly targets (daily x 7).
	macros := []struct {
		daily float64
		value func(recipe.Recipe) float64
	}{
		{c.DailyTargets.ProteinG, func(r recipe.Recipe) float64 { return r.TotalProteinG }},
		{c.DailyTargets.CarbsG, func(r recipe.Recipe) float64 { return r.TotalCarbsG }},
		{c.DailyTargets.FatG, func(r recipe.Recipe) float64 { return r.TotalFatG }},
		{c.DailyTargets.Calories, func(r recipe.Recipe) float64 { return r.TotalCalories }},
	}
	for _, macro := range macros {
		if macro.daily <= 0 {
			continue
		}
		weekly := macro.daily * 7
		m.cons = append(m.cons, constraint{
			coeffs: coeffs(macro.value),
			lower:  weekly * (1 - band),
			upper:  weekly * (1 + band),
		})
	}

	// Budget.
	m.cons = append(m.cons, constraint{
		coeffs: coeffs(func(r recipe.Recipe) float64 { return r.TotalCost }),
		lower:  math.Inf(-1),
		upper:  c.WeeklyBudget,
	})

	// Minimum weekly volume.
	m.cons = append(m.cons, constraint{
		coeffs: coeffs(func(recipe.Recipe) float64 { return 1 }),
		lower:  MinWeeklyServings,
		upper:  math.Inf(1),
	})

	// Aggregate cooking-time budget over the week.
	if c.MaxCookingTimeMin > 0 {
		m.cons = append(m.cons, constraint{
			coeffs: coeffs(func(r recipe.Recipe) float64 { return float64(r.CookingTimeMin) }),
			lower:  math.Inf(-1),
			upper:  float64(MinWeeklyServings * c.MaxCookingTimeMin),
		})
	}

	return m
}

func picksFrom(recipes []recipe.Recipe, values []int) []Pick {
	var picks []Pick
	for i, servings := range values {
		if servings > 0 {
			picks = append(picks, Pick{Recipe: recipes[i], Servings: servings})
		}
	}
	return picks
}
