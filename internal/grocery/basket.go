package grocery

import (
	"fmt"

	"optimeal/internal/selector"
	"optimeal/internal/units"
)

// BasketItem is an aggregated ingredient requirement in canonical units.
type BasketItem struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// Key identifies the item: normalized name plus canonical unit.
func (b BasketItem) Key() string {
	return fmt.Sprintf("%s|%s", b.Name, b.Unit)
}

// Basket is the week's shopping requirement, ordered by first appearance so
// downstream processing is deterministic.
type Basket []BasketItem

// BuildBasket aggregates ingredient quantities across the selection:
// amount x servings per ingredient, with names normalized and amounts
// converted to canonical units before summing, so the same ingredient
// written as "1 kg Rice" and "500 g white rice" lands under one key.
func BuildBasket(picks []selector.Pick, svc *units.Service) Basket {
	var basket Basket
	index := make(map[string]int)

	for _, p := range picks {
		for _, ing := range p.Recipe.Ingredients {
			amount, unit := svc.Canonical(ing.Amount, ing.Unit)
			item := BasketItem{
				Name:     svc.NormalizeName(ing.Name),
				Unit:     unit,
				Quantity: amount * float64(p.Servings),
			}

			if i, ok := index[item.Key()]; ok {
				basket[i].Quantity += item.Quantity
			} else {
				index[item.Key()] = len(basket)
				basket = append(basket, item)
			}
		}
	}
	return basket
}
