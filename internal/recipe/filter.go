package recipe

import "strings"

// FilterOptions are the hard eligibility criteria applied to the catalog
// before any optimization runs.
type FilterOptions struct {
	DietaryRestrictions []string // every tag must be present on the recipe
	Allergens           []string // none may appear on the recipe
	MaxCookingTimeMin   int      // 0 means no limit
	Cuisines            []string // empty means any cuisine
}

// Filter returns the recipes satisfying every hard constraint. Tag matching
// is case-insensitive. Cuisine is a hard filter: if the preferred cuisines
// match nothing the result is empty and the caller reports it as
// no-eligible-candidates rather than silently widening the pool.
func Filter(recipes []Recipe, opts FilterOptions) []Recipe {
	var out []Recipe
	for _, r := range recipes {
		if !hasAllTags(r.DietaryRestrictions, opts.DietaryRestrictions) {
			continue
		}
		if intersects(r.Allergens, opts.Allergens) {
			continue
		}
		if opts.MaxCookingTimeMin > 0 && r.CookingTimeMin > opts.MaxCookingTimeMin {
			continue
		}
		if len(opts.Cuisines) > 0 && !containsFold(opts.Cuisines, r.CuisineType) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		if !containsFold(have, w) {
			return false
		}
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsFold(b, x) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
