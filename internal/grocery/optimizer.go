package grocery

import (
	"fmt"
	"sort"

	"optimeal/internal/pricing"
)

// Fallbacks for basket items the catalog cannot price: a sentinel unit price
// and a section that makes the gap visible on the shopping list.
const (
	DefaultUnitPrice = 0.10
	UnknownSection   = "unknown"

	// defaultStoreID buckets unpriced items in multi-store mode when no real
	// store grouping exists yet.
	defaultStoreID = "default"

	// substitutionSpread is the relative gap between the two cheapest
	// prices above which a substitution suggestion is emitted.
	substitutionSpread = 0.10
)

// WarningCode classifies a recoverable anomaly attached to a plan.
type WarningCode string

const (
	// WarnUnpricedIngredient marks a line item priced with the sentinel
	// default because no catalog entry matched.
	WarnUnpricedIngredient WarningCode = "unpriced_ingredient"
	// WarnNoEligibleStore marks a single-store plan that fell back to the
	// first catalog store because no store stocks every basket item; its
	// total is best-effort, not guaranteed lowest.
	WarnNoEligibleStore WarningCode = "no_eligible_store"
)

// Warning is a structured, assertable anomaly record. Warnings ride on the
// plan itself, never only in logs.
type Warning struct {
	Code       WarningCode `json:"code"`
	Ingredient string      `json:"ingredient,omitempty"`
	Message    string      `json:"message"`
}

// LineItem is one priced basket entry at the chosen store.
type LineItem struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unit_price"`
	TotalPrice    float64 `json:"total_price"`
	Section       string  `json:"section"`
	DefaultPriced bool    `json:"default_priced,omitempty"`
}

// Substitution suggests a named alternative store for an ingredient whose
// cheapest two catalog prices differ by more than the spread threshold.
type Substitution struct {
	Ingredient       string  `json:"ingredient"`
	AlternativeStore string  `json:"alternative_store"`
	OriginalPrice    float64 `json:"original_price"`
	AlternativePrice float64 `json:"alternative_price"`
	SavingsPerUnit   float64 `json:"savings_per_unit"`
	EstimatedSavings float64 `json:"estimated_savings"`
}

// Plan is the grocery optimization result.
type Plan struct {
	SingleStoreMode bool                  `json:"single_store_mode"`
	SelectedStore   *pricing.Store        `json:"selected_store,omitempty"`
	StoresUsed      []string              `json:"stores_used"`
	TotalCost       float64               `json:"total_cost"`
	ItemsByStore    map[string][]LineItem `json:"items_by_store"`
	ItemsBySection  map[string][]LineItem `json:"items_by_section,omitempty"`
	Substitutions   []Substitution        `json:"substitutions"`
	Warnings        []Warning             `json:"warnings,omitempty"`
}

// Optimize produces a store assignment for the basket. In single-store mode
// one store covers the whole list; in multi-store mode each ingredient goes
// to whichever store prices it lowest. Pricing gaps degrade the plan with
// default-priced line items and warnings instead of aborting.
func Optimize(basket Basket, catalog *pricing.Catalog, singleStore bool) *Plan {
	plan := &Plan{
		SingleStoreMode: singleStore,
		ItemsByStore:    make(map[string][]LineItem),
	}

	if singleStore {
		optimizeSingleStore(plan, basket, catalog)
	} else {
		optimizeMultiStore(plan, basket, catalog)
	}

	plan.Substitutions = findSubstitutions(basket, catalog)
	return plan
}

func optimizeSingleStore(plan *Plan, basket Basket, catalog *pricing.Catalog) {
	store, eligible := bestSingleStore(basket, catalog)
	if store == nil {
		return // empty catalog: nothing to price against
	}
	if !eligible {
		plan.Warnings = append(plan.Warnings, Warning{
			Code: WarnNoEligibleStore,
			Message: fmt.Sprintf("no store stocks every item; falling back to %s, total is best-effort, not guaranteed lowest cost",
				store.Name),
		})
	}

	plan.SelectedStore = store
	plan.StoresUsed = []string{store.ID}

	items := make([]LineItem, 0, len(basket))
	for _, b := range basket {
		item, priced := lineItemAt(b, store.ID, catalog)
		if !priced {
			plan.Warnings = append(plan.Warnings, unpricedWarning(b.Name, store.Name))
		}
		items = append(items, item)
		plan.TotalCost += item.TotalPrice
	}

	plan.ItemsByStore[store.ID] = items
	plan.ItemsBySection = groupBySection(items)
}

// bestSingleStore picks the eligible store (one price entry per basket item)
// with the lowest total. When none qualifies it returns the first catalog
// store with eligible=false.
func bestSingleStore(basket Basket, catalog *pricing.Catalog) (*pricing.Store, bool) {
	if len(catalog.Stores) == 0 {
		return nil, false
	}

	var best *pricing.Store
	var bestTotal float64

	for i := range catalog.Stores {
		store := &catalog.Stores[i]
		total := 0.0
		coversAll := true
		for _, b := range basket {
			entry, ok := catalog.PriceAt(b.Name, store.ID)
			if !ok {
				coversAll = false
				break
			}
			total += entry.PricePerUnit * b.Quantity
		}
		if coversAll && (best == nil || total < bestTotal) {
			best = store
			bestTotal = total
		}
	}

	if best == nil {
		return &catalog.Stores[0], false
	}
	return best, true
}

func optimizeMultiStore(plan *Plan, basket Basket, catalog *pricing.Catalog) {
	for _, b := range basket {
		entry, ok := catalog.CheapestAnywhere(b.Name)
		if !ok {
			// No price anywhere: bucket the default-priced item into the
			// first store grouping already in use, or a synthetic one.
			storeID := defaultStoreID
			if len(plan.StoresUsed) > 0 {
				storeID = plan.StoresUsed[0]
			} else {
				plan.StoresUsed = append(plan.StoresUsed, storeID)
			}
			item := defaultLineItem(b)
			plan.ItemsByStore[storeID] = append(plan.ItemsByStore[storeID], item)
			plan.TotalCost += item.TotalPrice
			plan.Warnings = append(plan.Warnings, unpricedWarning(b.Name, "any store"))
			continue
		}

		if _, seen := plan.ItemsByStore[entry.StoreID]; !seen {
			plan.StoresUsed = append(plan.StoresUsed, entry.StoreID)
		}
		item := LineItem{
			Name:       b.Name,
			Quantity:   b.Quantity,
			Unit:       entry.Unit,
			UnitPrice:  entry.PricePerUnit,
			TotalPrice: entry.PricePerUnit * b.Quantity,
			Section:    entry.Section,
		}
		plan.ItemsByStore[entry.StoreID] = append(plan.ItemsByStore[entry.StoreID], item)
		plan.TotalCost += item.TotalPrice
	}
}

func lineItemAt(b BasketItem, storeID string, catalog *pricing.Catalog) (LineItem, bool) {
	entry, ok := catalog.PriceAt(b.Name, storeID)
	if !ok {
		return defaultLineItem(b), false
	}
	return LineItem{
		Name:       b.Name,
		Quantity:   b.Quantity,
		Unit:       entry.Unit,
		UnitPrice:  entry.PricePerUnit,
		TotalPrice: entry.PricePerUnit * b.Quantity,
		Section:    entry.Section,
	}, true
}

func defaultLineItem(b BasketItem) LineItem {
	return LineItem{
		Name:          b.Name,
		Quantity:      b.Quantity,
		Unit:          b.Unit,
		UnitPrice:     DefaultUnitPrice,
		TotalPrice:    DefaultUnitPrice * b.Quantity,
		Section:       UnknownSection,
		DefaultPriced: true,
	}
}

func unpricedWarning(ingredient, where string) Warning {
	return Warning{
		Code:       WarnUnpricedIngredient,
		Ingredient: ingredient,
		Message:    fmt.Sprintf("%s has no price entry at %s; using default price %.2f per unit", ingredient, where, DefaultUnitPrice),
	}
}

func groupBySection(items []LineItem) map[string][]LineItem {
	grouped := make(map[string][]LineItem)
	for _, item := range items {
		section := item.Section
		if section == "" {
			section = "miscellaneous"
		}
		grouped[section] = append(grouped[section], item)
	}
	return grouped
}

// findSubstitutions compares the two cheapest catalog prices for each basket
// ingredient, in every mode. When they differ by more than 10% of the
// cheapest, the second-cheapest store is suggested by name with the price
// difference projected over the required quantity, so the shopper sees how
// much the next-best option costs them.
func findSubstitutions(basket Basket, catalog *pricing.Catalog) []Substitution {
	var subs []Substitution
	for _, b := range basket {
		prices := catalog.AllPrices(b.Name)
		if len(prices) < 2 {
			continue
		}
		sort.SliceStable(prices, func(i, j int) bool {
			return prices[i].PricePerUnit < prices[j].PricePerUnit
		})

		cheapest, second := prices[0], prices[1]
		if second.PricePerUnit <= cheapest.PricePerUnit*(1+substitutionSpread) {
			continue
		}
		perUnit := second.PricePerUnit - cheapest.PricePerUnit
		subs = append(subs, Substitution{
			Ingredient:       b.Name,
			AlternativeStore: catalog.StoreName(second.StoreID),
			OriginalPrice:    cheapest.PricePerUnit,
			AlternativePrice: second.PricePerUnit,
			SavingsPerUnit:   perUnit,
			EstimatedSavings: perUnit * b.Quantity,
		})
	}
	return subs
}
