package generator

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"

	"optimeal/internal/llm"
	"optimeal/internal/recipe"
	"optimeal/internal/units"
)

//go:embed generator_prompt.md
var generatorPrompt string

// Request describes the recipe the caller wants generated.
type Request struct {
	Description         string   `json:"description"`
	CuisineType         string   `json:"cuisine_type,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	MaxCookingTimeMin   int      `json:"max_cooking_time_min,omitempty"`
}

// Generator turns a free-text request into a validated catalog recipe. Every
// generated ingredient must resolve against the reference table; anything the
// model invents outside it is rejected rather than priced with made-up
// numbers.
type Generator struct {
	textGen llm.TextGenerator
	units   *units.Service
}

// New creates a Generator.
func New(textGen llm.TextGenerator, svc *units.Service) *Generator {
	return &Generator{textGen: textGen, units: svc}
}

// Generate prompts the model and validates its output into a catalog-ready
// recipe with cost and nutrition filled from the reference table.
func (g *Generator) Generate(ctx context.Context, req Request) (recipe.Recipe, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return recipe.Recipe{}, err
	}

	raw, err := g.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	return ParseAndValidate(llm.StripMarkdownFences(raw), g.units)
}

// ParseAndValidate unmarshals a model-produced recipe payload and enforces
// the catalog invariants: structural validity, known units, and ingredients
// resolvable in the reference table. Per-unit cost and nutrition are always
// overwritten from the reference facts so the model cannot smuggle in its
// own numbers, and the totals are recomputed from the ingredient list.
func ParseAndValidate(payload string, svc *units.Service) (recipe.Recipe, error) {
	var r recipe.Recipe
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to unmarshal LLM response: %w", err)
	}

	if err := r.Validate(); err != nil {
		return recipe.Recipe{}, fmt.Errorf("generated recipe is invalid: %w", err)
	}

	for i, ing := range r.Ingredients {
		name := svc.NormalizeName(ing.Name)
		if !svc.KnownIngredient(name) {
			return recipe.Recipe{}, fmt.Errorf("generated recipe %q uses unknown ingredient %q", r.Name, ing.Name)
		}
		if !svc.KnownUnit(ing.Unit) {
			return recipe.Recipe{}, fmt.Errorf("generated recipe %q uses unknown unit %q for %q", r.Name, ing.Unit, ing.Name)
		}

		amount, unit := svc.Canonical(ing.Amount, ing.Unit)
		facts, _ := svc.LookupFacts(name)
		r.Ingredients[i] = recipe.Ingredient{
			Name:            name,
			Amount:          amount,
			Unit:            unit,
			CostPerUnit:     facts.CostPerUnit,
			CaloriesPerUnit: facts.CaloriesPerUnit,
			ProteinPerUnit:  facts.ProteinPerUnit,
			CarbsPerUnit:    facts.CarbsPerUnit,
			FatPerUnit:      facts.FatPerUnit,
		}
	}

	totals := r.ComputeTotals()
	r.TotalCalories = totals.Calories
	r.TotalProteinG = totals.ProteinG
	r.TotalCarbsG = totals.CarbsG
	r.TotalFatG = totals.FatG
	r.TotalCost = totals.Cost

	return r, nil
}

func buildPrompt(req Request) (string, error) {
	tmpl, err := template.New("generator").Parse(generatorPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req); err != nil {
		return "", err
	}

	return buf.String(), nil
}
