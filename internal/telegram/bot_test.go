package telegram

import (
	"strings"
	"testing"
	"time"

	"optimeal/internal/grocery"
	"optimeal/internal/planner"
	"optimeal/internal/pricing"
	"optimeal/internal/recipe"
	"optimeal/internal/scheduler"
)

func TestPreferencesFromMessage(t *testing.T) {
	cases := []struct {
		text       string
		wantBudget float64
		wantDiet   string
	}{
		{"plan for 120", 120, ""},
		{"€80 this week please", 80, ""},
		{"vegetarian plan for 95.50", 95.50, "vegetarian"},
		{"just plan something", defaultWeeklyBudget, ""},
	}

	for _, c := range cases {
		prefs := preferencesFromMessage(c.text)
		if prefs.WeeklyBudget != c.wantBudget {
			t.Errorf("%q: expected budget %v, got %v", c.text, c.wantBudget, prefs.WeeklyBudget)
		}
		if c.wantDiet != "" {
			found := false
			for _, d := range prefs.DietaryRestrictions {
				if d == c.wantDiet {
					found = true
				}
			}
			if !found {
				t.Errorf("%q: expected dietary restriction %q, got %v", c.text, c.wantDiet, prefs.DietaryRestrictions)
			}
		}
	}
}

func TestFormatPlanMarkdownParts(t *testing.T) {
	tacos := &recipe.Recipe{ID: "tacos", Name: "Tacos"}
	plan := &planner.MealPlan{
		WeekStart: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		Grocery: &grocery.Plan{
			SingleStoreMode: true,
			SelectedStore:   &pricing.Store{ID: "store_1", Name: "FreshMart"},
			TotalCost:       42.5,
			ItemsByStore: map[string][]grocery.LineItem{
				"store_1": {
					{Name: "cheese", Quantity: 200, Unit: "g", TotalPrice: 4.0},
					{Name: "lettuce", Quantity: 100, Unit: "g", TotalPrice: 0.5},
				},
			},
			Warnings: []grocery.Warning{{Code: grocery.WarnUnpricedIngredient, Ingredient: "salsa", Message: "salsa has no price entry"}},
		},
	}
	plan.Days[0] = scheduler.DaySchedule{Day: "Monday"}
	plan.Days[0].Meals[0] = scheduler.Meal{Type: scheduler.Breakfast, Recipe: tacos}

	planOutput, groceryOutput := formatPlanMarkdownParts(plan)

	if !strings.Contains(planOutput, "📅 *Weekly Meal Plan*") {
		t.Error("Missing plan header")
	}
	if !strings.Contains(planOutput, "*Monday*") {
		t.Error("Missing Monday section")
	}
	if !strings.Contains(planOutput, "Tacos") {
		t.Error("Missing scheduled recipe")
	}
	if !strings.Contains(planOutput, "Week of 2026-08-31") {
		t.Error("Missing week start line")
	}

	if !strings.Contains(groceryOutput, "🛒 *Shopping List*") {
		t.Error("Missing shopping list header")
	}
	if !strings.Contains(groceryOutput, "FreshMart") {
		t.Error("Missing selected store")
	}
	if !strings.Contains(groceryOutput, "cheese") {
		t.Error("Missing shopping item")
	}
	if !strings.Contains(groceryOutput, "*Total: 42.50*") {
		t.Error("Missing total line")
	}
	if !strings.Contains(groceryOutput, "salsa has no price entry") {
		t.Error("Missing warning line")
	}
}
