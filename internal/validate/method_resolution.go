package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexls/core/internal/diagnose"
	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/symbol"
)

// MethodResolutionValidator implements spec.md §4.5's MethodResolution
// check: resolve each method-call reference to a method symbol by name and
// parameter-type compatibility, consulting the cross-file graph so a call
// into another file's class can be checked (scenario 2 of spec.md §8).
type MethodResolutionValidator struct {
	Graph *graph.Graph
}

func (MethodResolutionValidator) ID() string    { return "method-resolution" }
func (MethodResolutionValidator) Name() string  { return "MethodResolution" }
func (MethodResolutionValidator) Tier() Tier    { return TierThorough }
func (MethodResolutionValidator) Priority() int { return 10 }

func (v MethodResolutionValidator) Validate(ctx context.Context, table *symbol.Table, opts ValidationOptions) ValidationResult {
	g := opts.Graph
	if g == nil {
		g = v.Graph
	}
	if g == nil {
		return ValidationResult{IsValid: true}
	}

	var errs []ValidationError
	for _, ref := range table.References {
		if ref.Context != symbol.RefMethodCall {
			continue
		}
		select {
		case <-ctx.Done():
			return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
		default:
		}

		candidates := methodCandidates(g, ref.Name, ref.Qualifier)
		if len(candidates) == 0 {
			continue // unresolved name: not this validator's concern (no METHOD_NOT_FOUND code in scope)
		}

		method, err := bestCandidate(candidates, ref.ArgumentTypes)
		if err != nil {
			loc := ref.Location
			errs = append(errs, ValidationError{Code: err.Code, Message: err.Message, Location: &loc, Suggestion: err.Suggestion})
		}
		_ = method
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// methodCandidates returns every method symbol named name, narrowed to
// qualifier's declared class when a qualifier is present and resolvable.
func methodCandidates(g *graph.Graph, name string, qualifier *string) []*symbol.Symbol {
	var out []*symbol.Symbol
	for _, s := range g.LookupSymbolByName(name) {
		if s.Kind != symbol.KindMethod {
			continue
		}
		if qualifier != nil {
			parent, ok := g.GetSymbol(derefParentID(s))
			if !ok || !strings.EqualFold(parent.Name, *qualifier) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func derefParentID(s *symbol.Symbol) string {
	if s.ParentID == nil {
		return ""
	}
	return *s.ParentID
}

type resolutionError struct {
	Code       string
	Message    string
	Suggestion string
}

// bestCandidate picks the candidate whose arity and known parameter types
// match argTypes; if every candidate conflicts, it returns the error from
// the first candidate's mismatch (spec.md §8 scenario 2 expects exactly one
// error for a single-overload case).
func bestCandidate(candidates []*symbol.Symbol, argTypes []string) (*symbol.Symbol, *resolutionError) {
	var firstErr *resolutionError
	for _, m := range candidates {
		if len(m.Parameters) != len(argTypes) {
			continue
		}
		if err := paramTypeMismatch(m, argTypes); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return m, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	// No candidate matches the call's arity at all; treat as an
	// unresolved overload rather than a parameter-type mismatch.
	return nil, nil
}

func paramTypeMismatch(m *symbol.Symbol, argTypes []string) *resolutionError {
	for i, p := range m.Parameters {
		at := argTypes[i]
		if at == "" {
			continue
		}
		if !strings.EqualFold(at, p.Type.Name) {
			err := &resolutionError{
				Code:    "METHOD_DOES_NOT_SUPPORT_PARAMETER_TYPE",
				Message: fmt.Sprintf("method %q does not support parameter type %q at position %d", m.Name, at, i+1),
			}
			if s, _, ok := diagnose.Suggest(at, []string{p.Type.Name}, diagnose.DefaultSuggestionThreshold); ok {
				err.Suggestion = s
			}
			return err
		}
	}
	return nil
}
