package units

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeName(t *testing.T) {
	svc := NewService()

	cases := []struct {
		in   string
		want string
	}{
		{"Chicken Breast", "chicken breast"},
		{"chicken fillet", "chicken breast"},
		{"  EVOO ", "olive oil"},
		{"brocolli", "broccoli"},
		{"Dragon Fruit", "dragon fruit"}, // unknown names just lowercase
	}

	for _, c := range cases {
		if got := svc.NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	svc := NewService()

	cases := []struct {
		amount     float64
		unit       string
		wantAmount float64
		wantUnit   string
	}{
		{2, "kg", 2000, "g"},
		{1, "lb", 453.592, "g"},
		{2, "oz", 56.7, "g"},
		{1.5, "L", 1500, "ml"},
		{2, "cup", 480, "ml"},
		{3, "tbsp", 45, "ml"},
		{4, "tsp", 20, "ml"},
		{300, "g", 300, "g"},
		{250, "ml", 250, "ml"},
		{2, "pcs", 2, "pcs"}, // unknown unit passes through
	}

	for _, c := range cases {
		gotAmount, gotUnit := svc.Canonical(c.amount, c.unit)
		if !almostEqual(gotAmount, c.wantAmount) || gotUnit != c.wantUnit {
			t.Errorf("Canonical(%v, %q) = (%v, %q), want (%v, %q)",
				c.amount, c.unit, gotAmount, gotUnit, c.wantAmount, c.wantUnit)
		}
	}
}

func TestConvert(t *testing.T) {
	svc := NewService()

	got, err := svc.Convert(2500, "g", "kg")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !almostEqual(got, 2.5) {
		t.Errorf("Convert(2500, g, kg) = %v, want 2.5", got)
	}

	if _, err := svc.Convert(1, "g", "ml"); err == nil {
		t.Error("Expected an error converting mass to volume, got nil")
	}
	if _, err := svc.Convert(1, "handful", "g"); err == nil {
		t.Error("Expected an error for an unknown unit, got nil")
	}
}

func TestLookupFacts(t *testing.T) {
	svc := NewService()

	f, ok := svc.LookupFacts("Chicken Fillet")
	if !ok {
		t.Fatal("Expected facts for 'Chicken Fillet' via variation lookup")
	}
	if !almostEqual(f.ProteinPerUnit, 0.31) {
		t.Errorf("Expected protein 0.31 per g, got %v", f.ProteinPerUnit)
	}

	if svc.KnownIngredient("unobtainium") {
		t.Error("Did not expect facts for 'unobtainium'")
	}
}
