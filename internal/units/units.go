package units

import (
	"fmt"
	"strings"
)

// Kind classifies a measurement unit.
type Kind string

const (
	KindMass   Kind = "mass"
	KindVolume Kind = "volume"
)

// Canonical base units: grams for mass, milliliters for volume. Every
// quantity is converted to one of these before cross-recipe aggregation.
const (
	CanonicalMass   = "g"
	CanonicalVolume = "ml"
)

type unitDef struct {
	kind   Kind
	toBase float64
}

// Facts holds per-canonical-unit cost and nutrition for a known ingredient.
type Facts struct {
	CostPerUnit     float64
	CaloriesPerUnit float64
	ProteinPerUnit  float64
	CarbsPerUnit    float64
	FatPerUnit      float64
}

// Service is an immutable lookup service for ingredient names, units and
// reference nutrition facts. It is built once and injected wherever
// normalization is needed; tests can substitute their own instance.
type Service struct {
	units      map[string]unitDef
	variations map[string]string
	facts      map[string]Facts
}

// NewService builds a Service with the default tables.
func NewService() *Service {
	s := &Service{
		units:      make(map[string]unitDef, len(defaultUnits)),
		variations: make(map[string]string),
		facts:      make(map[string]Facts, len(defaultFacts)),
	}
	for u, def := range defaultUnits {
		s.units[u] = def
	}
	for standard, vars := range defaultVariations {
		for _, v := range vars {
			s.variations[v] = standard
		}
	}
	for name, f := range defaultFacts {
		s.facts[name] = f
	}
	return s
}

// NormalizeName maps an ingredient name to its standard form: lowercased,
// trimmed, and resolved through the known-variations table.
func (s *Service) NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if standard, ok := s.variations[n]; ok {
		return standard
	}
	return n
}

// KnownUnit reports whether the unit is in the conversion table.
func (s *Service) KnownUnit(unit string) bool {
	_, ok := s.units[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}

// UnitKind returns the kind (mass or volume) of a known unit.
func (s *Service) UnitKind(unit string) (Kind, bool) {
	def, ok := s.units[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return "", false
	}
	return def.kind, true
}

// Canonical converts an amount to the canonical unit for its kind
// (g for mass, ml for volume). Unknown units pass through unchanged so
// count-style measures ("pcs") survive aggregation under their own key.
func (s *Service) Canonical(amount float64, unit string) (float64, string) {
	u := strings.ToLower(strings.TrimSpace(unit))
	def, ok := s.units[u]
	if !ok {
		return amount, u
	}
	switch def.kind {
	case KindVolume:
		return amount * def.toBase, CanonicalVolume
	default:
		return amount * def.toBase, CanonicalMass
	}
}

// Convert converts an amount between two known units of the same kind.
func (s *Service) Convert(amount float64, from, to string) (float64, error) {
	fromDef, ok := s.units[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	toDef, ok := s.units[strings.ToLower(strings.TrimSpace(to))]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if fromDef.kind != toDef.kind {
		return 0, fmt.Errorf("cannot convert %s to %s", from, to)
	}
	return amount * fromDef.toBase / toDef.toBase, nil
}

// LookupFacts returns reference per-canonical-unit facts for a known
// ingredient, resolving name variations first.
func (s *Service) LookupFacts(name string) (Facts, bool) {
	f, ok := s.facts[s.NormalizeName(name)]
	return f, ok
}

// KnownIngredient reports whether the name resolves to a reference entry.
func (s *Service) KnownIngredient(name string) bool {
	_, ok := s.facts[s.NormalizeName(name)]
	return ok
}

// Conversion factors follow common grocery practice: cups/spoons assume a
// water-like density when a mass equivalent is needed.
var defaultUnits = map[string]unitDef{
	"mg": {kind: KindMass, toBase: 0.001},
	"g":  {kind: KindMass, toBase: 1},
	"kg": {kind: KindMass, toBase: 1000},
	"oz": {kind: KindMass, toBase: 28.35},
	"lb": {kind: KindMass, toBase: 453.592},

	"ml":   {kind: KindVolume, toBase: 1},
	"l":    {kind: KindVolume, toBase: 1000},
	"cup":  {kind: KindVolume, toBase: 240},
	"tbsp": {kind: KindVolume, toBase: 15},
	"tsp":  {kind: KindVolume, toBase: 5},
}

var defaultVariations = map[string][]string{
	"bell pepper":    {"bell pepper", "red pepper", "capsicum", "pepper"},
	"chicken breast": {"chicken breast", "chicken", "chicken fillet"},
	"broccoli":       {"broccoli", "brocolli"},
	"spinach":        {"spinach", "spinage"},
	"rice":           {"rice", "white rice", "long grain rice"},
	"quinoa":         {"quinoa", "quinoia"},
	"olive oil":      {"olive oil", "extra virgin olive oil", "evoo"},
	"tofu":           {"tofu", "bean curd"},
	"salmon":         {"salmon", "salmon fillet"},
	"avocado":        {"avocado", "avacado"},
	"banana":         {"banana", "bananas"},
	"almonds":        {"almonds", "almond"},
}

// Reference facts per canonical unit (per g, or per ml for liquids).
var defaultFacts = map[string]Facts{
	"chicken breast": {CostPerUnit: 0.12, CaloriesPerUnit: 1.65, ProteinPerUnit: 0.31, CarbsPerUnit: 0, FatPerUnit: 0.036},
	"broccoli":       {CostPerUnit: 0.01, CaloriesPerUnit: 0.34, ProteinPerUnit: 0.028, CarbsPerUnit: 0.066, FatPerUnit: 0.004},
	"bell pepper":    {CostPerUnit: 0.02, CaloriesPerUnit: 0.31, ProteinPerUnit: 0.009, CarbsPerUnit: 0.06, FatPerUnit: 0.003},
	"rice":           {CostPerUnit: 0.018, CaloriesPerUnit: 1.3, ProteinPerUnit: 0.027, CarbsPerUnit: 0.28, FatPerUnit: 0.003},
	"quinoa":         {CostPerUnit: 0.025, CaloriesPerUnit: 1.2, ProteinPerUnit: 0.044, CarbsPerUnit: 0.21, FatPerUnit: 0.019},
	"lettuce":        {CostPerUnit: 0.03, CaloriesPerUnit: 0.05, ProteinPerUnit: 0.014, CarbsPerUnit: 0.029, FatPerUnit: 0.002},
	"spinach":        {CostPerUnit: 0.02, CaloriesPerUnit: 0.23, ProteinPerUnit: 0.029, CarbsPerUnit: 0.036, FatPerUnit: 0.004},
	"olive oil":      {CostPerUnit: 0.015, CaloriesPerUnit: 8.0, ProteinPerUnit: 0, CarbsPerUnit: 0, FatPerUnit: 0.9},
	"soy sauce":      {CostPerUnit: 0.05, CaloriesPerUnit: 1.02, ProteinPerUnit: 0.082, CarbsPerUnit: 0.05, FatPerUnit: 0.001},
	"tofu":           {CostPerUnit: 0.015, CaloriesPerUnit: 0.76, ProteinPerUnit: 0.08, CarbsPerUnit: 0.019, FatPerUnit: 0.048},
	"salmon":         {CostPerUnit: 0.25, CaloriesPerUnit: 2.08, ProteinPerUnit: 0.2, CarbsPerUnit: 0, FatPerUnit: 0.13},
	"avocado":        {CostPerUnit: 0.04, CaloriesPerUnit: 1.6, ProteinPerUnit: 0.02, CarbsPerUnit: 0.085, FatPerUnit: 0.15},
	"banana":         {CostPerUnit: 0.005, CaloriesPerUnit: 0.89, ProteinPerUnit: 0.011, CarbsPerUnit: 0.23, FatPerUnit: 0.003},
	"almonds":        {CostPerUnit: 0.03, CaloriesPerUnit: 5.79, ProteinPerUnit: 0.21, CarbsPerUnit: 0.22, FatPerUnit: 0.5},
	"egg":            {CostPerUnit: 0.008, CaloriesPerUnit: 1.55, ProteinPerUnit: 0.13, CarbsPerUnit: 0.011, FatPerUnit: 0.11},
	"oats":           {CostPerUnit: 0.006, CaloriesPerUnit: 3.89, ProteinPerUnit: 0.169, CarbsPerUnit: 0.66, FatPerUnit: 0.069},
	"milk":           {CostPerUnit: 0.002, CaloriesPerUnit: 0.42, ProteinPerUnit: 0.034, CarbsPerUnit: 0.05, FatPerUnit: 0.01},
}
