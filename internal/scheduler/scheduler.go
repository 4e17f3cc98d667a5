package scheduler

import (
	"strings"
	"time"

	"optimeal/internal/recipe"
	"optimeal/internal/selector"
)

// MealType is one of the three daily meal slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the slots in scheduling order.
var MealTypes = [3]MealType{Breakfast, Lunch, Dinner}

// Weekdays lists the days in scheduling order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Meal is one slot of the weekly assignment. Recipe is nil for an empty slot.
type Meal struct {
	Type   MealType       `json:"meal_type"`
	Recipe *recipe.Recipe `json:"recipe,omitempty"`
}

// DaySchedule holds one day's three meal slots.
type DaySchedule struct {
	Day   string    `json:"day"`
	Date  time.Time `json:"date"`
	Meals [3]Meal   `json:"meals"`
}

// Assignment is the 7x3 table of meal slots for the upcoming week.
type Assignment struct {
	WeekStart time.Time      `json:"week_start"`
	Days      [7]DaySchedule `json:"days"`
}

// FilledSlots counts slots holding a recipe.
func (a *Assignment) FilledSlots() int {
	var n int
	for _, d := range a.Days {
		for _, m := range d.Meals {
			if m.Recipe != nil {
				n++
			}
		}
	}
	return n
}

// reuseWeight scales the ingredient-reuse bonus; it is the only live term in
// the placement score.
const reuseWeight = 10

// Schedule expands a selection into one occurrence per serving and places
// the occurrences into the 21 slots of the upcoming week, slot by slot in
// day-major order. Each slot takes the remaining occurrence with the highest
// ingredient-reuse score; ties go to the earliest occurrence in the pool, so
// the whole procedure is deterministic. When the pool runs out the remaining
// slots stay empty.
func Schedule(picks []selector.Pick, now time.Time) *Assignment {
	weekStart := NextWeekStart(now)

	a := &Assignment{WeekStart: weekStart}
	for i := range a.Days {
		a.Days[i].Day = Weekdays[i]
		a.Days[i].Date = weekStart.AddDate(0, 0, i)
		for j := range a.Days[i].Meals {
			a.Days[i].Meals[j].Type = MealTypes[j]
		}
	}

	var pool []*recipe.Recipe
	for i := range picks {
		for s := 0; s < picks[i].Servings; s++ {
			pool = append(pool, &picks[i].Recipe)
		}
	}

	usage := make(map[string]int)
	for day := 0; day < len(a.Days); day++ {
		for slot := 0; slot < len(a.Days[day].Meals); slot++ {
			if len(pool) == 0 {
				return a
			}

			best := 0
			bestScore := placementScore(pool[0], usage)
			for i := 1; i < len(pool); i++ {
				if score := placementScore(pool[i], usage); score > bestScore {
					best, bestScore = i, score
				}
			}

			chosen := pool[best]
			pool = append(pool[:best], pool[best+1:]...)
			a.Days[day].Meals[slot].Recipe = chosen
			for _, ing := range chosen.Ingredients {
				usage[ingredientKey(ing.Name)]++
			}
		}
	}
	return a
}

// placementScore rates a candidate occurrence for the current slot. The
// reuse bonus counts the candidate's distinct ingredients already placed
// somewhere this week. Variety and macro-alignment terms are extension
// points and currently contribute nothing; the score is never negative.
func placementScore(r *recipe.Recipe, usage map[string]int) int {
	seen := make(map[string]bool, len(r.Ingredients))
	reuse := 0
	for _, ing := range r.Ingredients {
		key := ingredientKey(ing.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if usage[key] > 0 {
			reuse++
		}
	}
	return reuse*reuseWeight - varietyPenalty(r)*5 + macroAlignment(r)*2
}

// varietyPenalty is an extension point; it always returns zero.
func varietyPenalty(*recipe.Recipe) int { return 0 }

// macroAlignment is an extension point; it always returns zero.
func macroAlignment(*recipe.Recipe) int { return 0 }

func ingredientKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NextWeekStart returns the Monday the plan week begins on: the first
// Monday strictly after now, so a plan generated on a Monday starts the
// following week rather than today.
func NextWeekStart(now time.Time) time.Time {
	daysUntil := (8 - int(now.Weekday())) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	start := now.AddDate(0, 0, daysUntil)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}
