package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexls/core/internal/symbol"
)

// ConstructorNamingValidator implements spec.md §4.5's ConstructorNaming
// check: every constructor symbol's name must equal its enclosing class
// name, case-insensitive.
type ConstructorNamingValidator struct{}

func (ConstructorNamingValidator) ID() string    { return "constructor-naming" }
func (ConstructorNamingValidator) Name() string   { return "ConstructorNaming" }
func (ConstructorNamingValidator) Tier() Tier     { return TierImmediate }
func (ConstructorNamingValidator) Priority() int  { return 1 }

func (ConstructorNamingValidator) Validate(_ context.Context, table *symbol.Table, _ ValidationOptions) ValidationResult {
	var errs []ValidationError
	for _, sym := range table.Symbols {
		if sym.Kind != symbol.KindConstructor || sym.ParentID == nil {
			continue
		}
		parent, ok := table.Get(*sym.ParentID)
		if !ok {
			continue
		}
		if !strings.EqualFold(sym.Name, parent.Name) {
			loc := sym.Location
			errs = append(errs, ValidationError{
				Code:     "CONSTRUCTOR_NAME_MISMATCH",
				Message:  fmt.Sprintf("constructor %q does not match enclosing class %q", sym.Name, parent.Name),
				Location: &loc,
			})
		}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
