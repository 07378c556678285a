package collector

import (
	"fmt"

	"github.com/apexls/core/internal/symbol"
)

// modifierValidator checks one declaration-site modifier rule, registered
// per declaration kind.
type modifierValidator func(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter)

func widensContainerVisibility(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	if containerVisibility == nil {
		return
	}
	if sym.Modifiers.Visibility.WidensFrom(*containerVisibility) {
		reporter.Error("VISIBILITY_WIDENS_CONTAINER",
			fmt.Sprintf("%s %q cannot be more visible (%s) than its container (%s)",
				sym.Kind, sym.Name, sym.Modifiers.Visibility, *containerVisibility),
			&sym.Location)
	}
}

func mutuallyExclusiveFlags(sym *symbol.Symbol, _ *symbol.Visibility, reporter ErrorReporter) {
	pairs := []struct {
		a, b symbol.ModifierFlag
		name string
	}{
		{symbol.FlagAbstract, symbol.FlagFinal, "abstract/final"},
		{symbol.FlagVirtual, symbol.FlagFinal, "virtual/final"},
		{symbol.FlagAbstract, symbol.FlagStatic, "abstract/static"},
		{symbol.FlagAbstract, symbol.FlagVirtual, "abstract/virtual"},
		{symbol.FlagAbstract, symbol.FlagOverride, "abstract/override"},
	}
	for _, p := range pairs {
		if sym.Modifiers.Has(p.a) && sym.Modifiers.Has(p.b) {
			reporter.Error("MUTUALLY_EXCLUSIVE_MODIFIERS",
				fmt.Sprintf("%s %q cannot combine mutually exclusive modifiers (%s)", sym.Kind, sym.Name, p.name),
				&sym.Location)
		}
	}
}

func webServiceRequiresGlobal(sym *symbol.Symbol, _ *symbol.Visibility, reporter ErrorReporter) {
	if sym.Modifiers.Has(symbol.FlagWebService) && sym.Modifiers.Visibility != symbol.VisibilityGlobal {
		reporter.Error("WEBSERVICE_REQUIRES_GLOBAL",
			fmt.Sprintf("method %q is annotated webService but is not declared global", sym.Name),
			&sym.Location)
	}
}

func constructorModifierRestrictions(sym *symbol.Symbol, _ *symbol.Visibility, reporter ErrorReporter) {
	forbidden := []struct {
		flag symbol.ModifierFlag
		name string
	}{
		{symbol.FlagAbstract, "abstract"},
		{symbol.FlagVirtual, "virtual"},
		{symbol.FlagOverride, "override"},
	}
	for _, f := range forbidden {
		if sym.Modifiers.Has(f.flag) {
			reporter.Error("CONSTRUCTOR_ILLEGAL_MODIFIER",
				fmt.Sprintf("constructor %q cannot be declared %s", sym.Name, f.name),
				&sym.Location)
		}
	}
}

// interfaceMethodErasure strips flags that have no meaning on an interface
// method body (abstract, static, final are erased rather than flagged,
// since interface method signatures are implicitly abstract+public).
func interfaceMethodErasure(sym *symbol.Symbol, _ *symbol.Visibility, _ ErrorReporter) {
	sym.Modifiers.Flags &^= symbol.FlagAbstract | symbol.FlagStatic | symbol.FlagFinal
}

func classModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
	mutuallyExclusiveFlags(sym, containerVisibility, reporter)
}

func interfaceModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
}

func methodModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
	mutuallyExclusiveFlags(sym, containerVisibility, reporter)
	webServiceRequiresGlobal(sym, containerVisibility, reporter)
}

func constructorModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
	constructorModifierRestrictions(sym, containerVisibility, reporter)
}

func fieldModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
	mutuallyExclusiveFlags(sym, containerVisibility, reporter)
}

func propertyModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	widensContainerVisibility(sym, containerVisibility, reporter)
}

func interfaceBodyModifiers(sym *symbol.Symbol, containerVisibility *symbol.Visibility, reporter ErrorReporter) {
	if sym.Kind == symbol.KindField {
		reporter.Error("FIELD_IN_INTERFACE_BODY",
			fmt.Sprintf("interface body cannot declare field %q", sym.Name), &sym.Location)
		return
	}
	interfaceMethodErasure(sym, containerVisibility, reporter)
}

// modifierValidatorsFor returns the ordered validator chain for a
// declaration kind, run at the point the collector finishes building the
// symbol and before it is added to the table.
func modifierValidatorsFor(kind symbol.Kind, inInterfaceBody bool) []modifierValidator {
	switch kind {
	case symbol.KindClass:
		return []modifierValidator{classModifiers}
	case symbol.KindInterface:
		return []modifierValidator{interfaceModifiers}
	case symbol.KindMethod:
		if inInterfaceBody {
			return []modifierValidator{interfaceBodyModifiers}
		}
		return []modifierValidator{methodModifiers}
	case symbol.KindConstructor:
		return []modifierValidator{constructorModifiers}
	case symbol.KindField:
		if inInterfaceBody {
			return []modifierValidator{interfaceBodyModifiers}
		}
		return []modifierValidator{fieldModifiers}
	case symbol.KindProperty:
		return []modifierValidator{propertyModifiers}
	default:
		return nil
	}
}

// RunModifierSemantics re-applies every modifier/visibility rule against an
// already-built symbol table, independent of collection order. The
// validation engine's ModifierSemantics validator calls this directly so
// the rule set lives in exactly one place instead of being re-derived at
// validate time.
func RunModifierSemantics(table *symbol.Table, reporter ErrorReporter) {
	for _, sym := range table.Symbols {
		var containerVis *symbol.Visibility
		inInterfaceBody := false
		if sym.ParentID != nil {
			if parent, ok := table.Get(*sym.ParentID); ok {
				v := parent.Modifiers.Visibility
				containerVis = &v
				inInterfaceBody = parent.Kind == symbol.KindInterface
			}
		}
		for _, validate := range modifierValidatorsFor(sym.Kind, inInterfaceBody) {
			validate(sym, containerVis, reporter)
		}
	}
}
