package validate

import (
	"sort"

	"github.com/apexls/core/internal/graph"
)

// ValidatorRegistry holds validators ordered by (tier, priority), grounded
// on spec.md §4.5's literal phrase for how a run selects and sequences its
// validators.
type ValidatorRegistry struct {
	validators []Validator
}

// NewValidatorRegistry returns a registry seeded with vs.
func NewValidatorRegistry(vs ...Validator) *ValidatorRegistry {
	r := &ValidatorRegistry{}
	for _, v := range vs {
		r.Register(v)
	}
	return r
}

// Register adds v to the registry.
func (r *ValidatorRegistry) Register(v Validator) {
	r.validators = append(r.validators, v)
}

// ForTier returns every registered validator for tier, sorted by priority
// ascending (lower priority number runs first).
func (r *ValidatorRegistry) ForTier(tier Tier) []Validator {
	var out []Validator
	for _, v := range r.validators {
		if v.Tier() == tier {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() < out[j].Priority() })
	return out
}

// DefaultRegistry returns the registry seeded with the three representative
// validators spec.md §4.5 names, wired to g for cross-file resolution.
func DefaultRegistry(g *graph.Graph) *ValidatorRegistry {
	return NewValidatorRegistry(
		ConstructorNamingValidator{},
		ModifierSemanticsValidator{},
		MethodResolutionValidator{Graph: g},
	)
}
