package clipper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"optimeal/internal/generator"
	"optimeal/internal/llm"
	"optimeal/internal/recipe"
	"optimeal/internal/units"

	"github.com/PuerkitoBio/goquery"
)

// Clipper imports recipes from web pages into the catalog format.
type Clipper struct {
	textGen llm.TextGenerator
	units   *units.Service
	client  *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator, svc *units.Service) *Clipper {
	return &Clipper{
		textGen: textGen,
		units:   svc,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the recipe with the model, and validates
// it into a catalog-ready entry with cost and nutrition filled from the
// reference table. Pages whose ingredients cannot be resolved are rejected
// the same way generated recipes are.
func (c *Clipper) ClipURL(ctx context.Context, url string) (recipe.Recipe, error) {
	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe from the following page
text. Return strictly one JSON object with this structure:
{
  "id": "short-kebab-case-id",
  "name": "Recipe Title",
  "description": "one sentence",
  "ingredients": [{"name": "rice", "amount": 100, "unit": "g"}, ...],
  "steps": ["Step 1 description", ...],
  "cooking_time_min": 30,
  "difficulty_level": "easy",
  "cuisine_type": "italian",
  "dietary_restrictions": [],
  "allergens": []
}
Use only these units: mg, g, kg, oz, lb, ml, l, cup, tbsp, tsp.
Use common ingredient names. Do not include cost or nutrition fields.

Page text:
%s
`, content)

	llmResponse, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("ai extraction failed: %w", err)
	}

	r, err := generator.ParseAndValidate(llm.StripMarkdownFences(llmResponse), c.units)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to import recipe from %s: %w", url, err)
	}
	return r, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
