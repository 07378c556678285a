// Package validate implements C5: the tiered validation engine.
package validate

import (
	"context"

	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/parsetree"
	"github.com/apexls/core/internal/symbol"
)

// Tier selects which validators a run executes (spec.md §4.5).
type Tier string

const (
	TierImmediate Tier = "immediate"
	TierThorough  Tier = "thorough"
)

// Engineering constants for the thorough tier — fixed, not user-tunable
// (spec.md §6).
const (
	MaxArtifacts = 5
	MaxDepth     = 1
)

// ValidationError is one error or warning entry; Location is nil when the
// issue has no single anchor point.
type ValidationError struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Location *symbol.Location `json:"location,omitempty"`

	// Suggestion is a fuzzy "did you mean" hint (internal/diagnose),
	// populated for a subset of codes where a near-miss name is
	// plausible. Empty when no candidate cleared the threshold.
	Suggestion string `json:"suggestion,omitempty"`
}

// EnrichmentData maps a symbol id to a refined TypeInfo a validator inferred
// (e.g. resolving a previously-lexical declared type). The engine applies
// this back to the table atomically, only after every validator in the run
// has completed without a panic.
type EnrichmentData map[string]symbol.TypeInfo

// ValidationResult is what a single validator, or the engine as a whole,
// returns.
type ValidationResult struct {
	IsValid        bool
	Errors         []ValidationError
	Warnings       []ValidationError
	Type           *symbol.TypeInfo
	EnrichmentData EnrichmentData
}

// LoadArtifactCallback resolves missing type names against external files,
// returning the file URIs it loaded (spec.md §4.5).
type LoadArtifactCallback func(ctx context.Context, typeNames []string, contextFile string) ([]string, error)

// ValidationOptions carries everything a validator may need beyond the
// table itself.
type ValidationOptions struct {
	Tier                            Tier
	AllowArtifactLoading            bool
	ParseTree                       parsetree.Node
	SourceText                      string
	APIVersion                      int
	EnableVersionSpecificValidation bool
	LoadArtifactCallback            LoadArtifactCallback
	Graph                           *graph.Graph
}

// Validator is one named, tiered, prioritized semantic check.
type Validator interface {
	ID() string
	Name() string
	Tier() Tier
	Priority() int
	Validate(ctx context.Context, table *symbol.Table, opts ValidationOptions) ValidationResult
}
