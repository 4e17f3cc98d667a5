package selector

import (
	"errors"
	"math"
	"testing"

	"optimeal/internal/recipe"
)

func poolRecipe(id, name string, cost float64, timeMin int, cal, prot, carbs, fat float64) recipe.Recipe {
	return recipe.Recipe{
		ID:             id,
		Name:           name,
		CookingTimeMin: timeMin,
		TotalCost:      cost,
		TotalCalories:  cal,
		TotalProteinG:  prot,
		TotalCarbsG:    carbs,
		TotalFatG:      fat,
	}
}

func defaultPool() []recipe.Recipe {
	return []recipe.Recipe{
		poolRecipe("1", "Oatmeal", 2.0, 10, 300, 10, 50, 5),
		poolRecipe("2", "Chicken and Rice", 5.0, 30, 600, 40, 60, 15),
		poolRecipe("3", "Garden Salad", 3.0, 15, 250, 8, 20, 12),
	}
}

func TestSelectMinimizesCost(t *testing.T) {
	res, err := Select(defaultPool(), Constraints{
		WeeklyBudget:      100,
		MaxRepeatsPerWeek: 10,
		MaxCookingTimeMin: 60,
	})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Cheapest way to reach 21 servings under a cap of 10 each:
	// 10 x Oatmeal (2.0) + 10 x Salad (3.0) + 1 x Chicken and Rice (5.0) = 55.
	if got := res.TotalServings(); got != MinWeeklyServings {
		t.Errorf("Expected exactly %d servings at minimum cost, got %d", MinWeeklyServings, got)
	}
	if got := res.TotalCost(); math.Abs(got-55.0) > 1e-9 {
		t.Errorf("Expected optimal cost 55.0, got %v", got)
	}
	if res.Relaxed {
		t.Error("Did not expect the relaxation pass to fire")
	}
	for _, p := range res.Picks {
		if p.Servings <= 0 {
			t.Errorf("Pick %s carries non-positive servings %d", p.Recipe.Name, p.Servings)
		}
		if p.Servings > MaxServingsPerRecipe {
			t.Errorf("Pick %s exceeds the per-recipe cap: %d", p.Recipe.Name, p.Servings)
		}
	}
}

func TestSelectHonorsHardConstraints(t *testing.T) {
	c := Constraints{
		WeeklyBudget:      80,
		MaxRepeatsPerWeek: 8,
		MaxCookingTimeMin: 45,
		DailyTargets:      MacroTargets{ProteinG: 50},
	}
	res, err := Select(defaultPool(), c)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if got := res.TotalCost(); got > c.WeeklyBudget+1e-9 {
		t.Errorf("Total cost %v exceeds budget %v", got, c.WeeklyBudget)
	}
	if got := res.TotalServings(); got < MinWeeklyServings {
		t.Errorf("Total servings %d below minimum %d", got, MinWeeklyServings)
	}

	var protein, timeMin float64
	for _, p := range res.Picks {
		if p.Servings > c.MaxRepeatsPerWeek {
			t.Errorf("Recipe %s repeats %d times, max is %d", p.Recipe.Name, p.Servings, c.MaxRepeatsPerWeek)
		}
		protein += p.Recipe.TotalProteinG * float64(p.Servings)
		timeMin += float64(p.Recipe.CookingTimeMin * p.Servings)
	}

	weekly := c.DailyTargets.ProteinG * 7
	band := 0.2
	if res.Relaxed {
		band = 0.3
	}
	if protein < weekly*(1-band)-1e-9 || protein > weekly*(1+band)+1e-9 {
		t.Errorf("Weekly protein %v outside band around %v", protein, weekly)
	}
	if limit := float64(MinWeeklyServings * c.MaxCookingTimeMin); timeMin > limit+1e-9 {
		t.Errorf("Aggregate cooking time %v exceeds %v", timeMin, limit)
	}
}

func TestSelectInfeasibleBudget(t *testing.T) {
	// Cheapest possible 21-serving combination costs 55; a budget of 20 can
	// never work and must surface as an explicit infeasibility.
	_, err := Select(defaultPool(), Constraints{
		WeeklyBudget:      20,
		MaxRepeatsPerWeek: 10,
	})
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("Expected ErrInfeasible, got %v", err)
	}
}

func TestSelectEmptyPool(t *testing.T) {
	_, err := Select(nil, Constraints{WeeklyBudget: 100})
	if !errors.Is(err, ErrNoEligibleCandidates) {
		t.Fatalf("Expected ErrNoEligibleCandidates, got %v", err)
	}
}

func TestSelectRelaxationPass(t *testing.T) {
	// Max reachable weekly protein is 10 servings x 10g = 100g. A weekly
	// target of 135g has a strict band floor of 108g (infeasible) but a
	// relaxed floor of 94.5g, so only the +-30% pass can succeed.
	pool := []recipe.Recipe{
		poolRecipe("1", "Protein Bowl", 4.0, 20, 400, 10, 30, 10),
		poolRecipe("2", "Plain Pasta", 1.5, 15, 350, 0, 70, 3),
		poolRecipe("3", "Fruit Plate", 2.0, 5, 150, 0, 35, 1),
	}
	c := Constraints{
		WeeklyBudget:      200,
		MaxRepeatsPerWeek: 10,
		DailyTargets:      MacroTargets{ProteinG: 135.0 / 7},
	}

	res, err := Select(pool, c)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !res.Relaxed {
		t.Fatal("Expected the relaxation pass to fire")
	}

	var protein float64
	for _, p := range res.Picks {
		protein += p.Recipe.TotalProteinG * float64(p.Servings)
	}
	if protein < 135*0.7-1e-9 || protein > 135*1.3+1e-9 {
		t.Errorf("Weekly protein %v outside the relaxed band [%v, %v]", protein, 135*0.7, 135*1.3)
	}
}

func TestSelectRelaxationStillInfeasible(t *testing.T) {
	// Even the relaxed floor (94.5g) is unreachable when the only recipe
	// carries 5g protein per serving and caps at 10 servings.
	pool := []recipe.Recipe{
		poolRecipe("1", "Low Protein", 1.0, 10, 200, 5, 30, 5),
		poolRecipe("2", "No Protein", 1.0, 10, 200, 0, 40, 2),
		poolRecipe("3", "Also None", 1.0, 10, 150, 0, 30, 1),
	}
	_, err := Select(pool, Constraints{
		WeeklyBudget:      200,
		MaxRepeatsPerWeek: 10,
		DailyTargets:      MacroTargets{ProteinG: 135.0 / 7},
	})
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("Expected ErrInfeasible after relaxation, got %v", err)
	}
}
