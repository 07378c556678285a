package symbol

// ModifierFlag is a single bit in the modifier bitmask. Values are part of the
// binary cache wire format and must stay stable within a major version.
type ModifierFlag uint16

const (
	FlagStatic ModifierFlag = 1 << iota
	FlagFinal
	FlagAbstract
	FlagVirtual
	FlagOverride
	FlagTransient
	FlagTestMethod
	FlagWebService
	FlagBuiltIn
)

var flagNames = []struct {
	flag ModifierFlag
	name string
}{
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagAbstract, "abstract"},
	{FlagVirtual, "virtual"},
	{FlagOverride, "override"},
	{FlagTransient, "transient"},
	{FlagTestMethod, "testMethod"},
	{FlagWebService, "webService"},
	{FlagBuiltIn, "builtIn"},
}

// Modifiers is the full modifier record attached to every Symbol.
type Modifiers struct {
	Visibility Visibility
	Flags      ModifierFlag
}

// Has reports whether a single flag is set.
func (m Modifiers) Has(f ModifierFlag) bool {
	return m.Flags&f != 0
}

// With returns a copy of m with f set.
func (m Modifiers) With(f ModifierFlag) Modifiers {
	m.Flags |= f
	return m
}

// Names returns the set flags in declaration order, for diagnostics.
func (m Modifiers) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if m.Flags&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// AnnotationParameter is one argument to an annotation, e.g. @IsTest(SeeAllData=true).
type AnnotationParameter struct {
	Name  *string // nil for positional parameters
	Value string
}

// Annotation is a single `@Name(...)` decoration captured immediately above a
// declaration. Parameters preserve source order.
type Annotation struct {
	Name       string
	Location   Location
	Parameters []AnnotationParameter
}
