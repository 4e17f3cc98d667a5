package generator

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"optimeal/internal/units"
)

type mockTextGenerator struct {
	response string
	err      error
	prompt   string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

const oatmealJSON = `{
	"id": "overnight-oats",
	"name": "Overnight Oats",
	"description": "Oats soaked in milk overnight.",
	"ingredients": [
		{"name": "Oats", "amount": 80, "unit": "g"},
		{"name": "Milk", "amount": 200, "unit": "ml"}
	],
	"steps": ["Combine oats and milk.", "Refrigerate overnight."],
	"cooking_time_min": 5,
	"difficulty_level": "easy",
	"cuisine_type": "american",
	"dietary_restrictions": ["vegetarian"],
	"allergens": ["dairy"]
}`

func TestGenerateFillsReferenceFacts(t *testing.T) {
	mock := &mockTextGenerator{response: "```json\n" + oatmealJSON + "\n```"}
	g := New(mock, units.NewService())

	r, err := g.Generate(context.Background(), Request{Description: "a cheap breakfast"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(mock.prompt, "a cheap breakfast") {
		t.Error("Prompt does not carry the request description")
	}

	if len(r.Ingredients) != 2 {
		t.Fatalf("Expected 2 ingredients, got %d", len(r.Ingredients))
	}
	oats := r.Ingredients[0]
	if oats.Name != "oats" || oats.Unit != "g" {
		t.Errorf("Expected normalized 'oats' in g, got %+v", oats)
	}
	if math.Abs(oats.CostPerUnit-0.006) > 1e-9 {
		t.Errorf("Expected reference cost 0.006/g for oats, got %v", oats.CostPerUnit)
	}

	// 80 g oats at 0.006 plus 200 ml milk at 0.002.
	if math.Abs(r.TotalCost-0.88) > 1e-9 {
		t.Errorf("Expected total cost 0.88, got %v", r.TotalCost)
	}
	if r.TotalCalories <= 0 {
		t.Errorf("Expected computed calories, got %v", r.TotalCalories)
	}
}

func TestGenerateRejectsUnknownIngredient(t *testing.T) {
	payload := strings.Replace(oatmealJSON, `"name": "Oats"`, `"name": "Dragon Fruit"`, 1)
	g := New(&mockTextGenerator{response: payload}, units.NewService())

	_, err := g.Generate(context.Background(), Request{Description: "breakfast"})
	if err == nil || !strings.Contains(err.Error(), "unknown ingredient") {
		t.Fatalf("Expected unknown ingredient error, got %v", err)
	}
}

func TestGenerateRejectsUnknownUnit(t *testing.T) {
	payload := strings.Replace(oatmealJSON, `"unit": "g"`, `"unit": "handful"`, 1)
	g := New(&mockTextGenerator{response: payload}, units.NewService())

	_, err := g.Generate(context.Background(), Request{Description: "breakfast"})
	if err == nil || !strings.Contains(err.Error(), "unknown unit") {
		t.Fatalf("Expected unknown unit error, got %v", err)
	}
}

func TestGeneratePropagatesLLMError(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := New(&mockTextGenerator{err: boom}, units.NewService())

	_, err := g.Generate(context.Background(), Request{Description: "breakfast"})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped LLM error, got %v", err)
	}
}

func TestParseAndValidateRejectsMalformedJSON(t *testing.T) {
	_, err := ParseAndValidate("not json at all", units.NewService())
	if err == nil {
		t.Fatal("Expected an unmarshal error")
	}
}
