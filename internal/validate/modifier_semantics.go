package validate

import (
	"context"

	"github.com/apexls/core/internal/collector"
	"github.com/apexls/core/internal/symbol"
)

// ModifierSemanticsValidator re-runs the declaration-site modifier rules
// (visibility monotonicity, mutually exclusive flags, interface erasure,
// webService-requires-global, constructor restrictions) against an
// already-built table. The rule set lives once in
// collector.RunModifierSemantics; this validator only adapts its output to
// ValidationResult, per spec.md §4.5's ModifierSemantics contract.
type ModifierSemanticsValidator struct{}

func (ModifierSemanticsValidator) ID() string    { return "modifier-semantics" }
func (ModifierSemanticsValidator) Name() string  { return "ModifierSemantics" }
func (ModifierSemanticsValidator) Tier() Tier    { return TierImmediate }
func (ModifierSemanticsValidator) Priority() int { return 2 }

func (ModifierSemanticsValidator) Validate(_ context.Context, table *symbol.Table, _ ValidationOptions) ValidationResult {
	sink := collector.NewDiagnosticSink()
	collector.RunModifierSemantics(table, sink)

	errs := make([]ValidationError, 0, len(sink.Errors()))
	for _, d := range sink.Errors() {
		errs = append(errs, ValidationError{Code: d.Code, Message: d.Message, Location: d.Location})
	}
	warnings := make([]ValidationError, 0, len(sink.Warnings()))
	for _, d := range sink.Warnings() {
		warnings = append(warnings, ValidationError{Code: d.Code, Message: d.Message, Location: d.Location})
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}
