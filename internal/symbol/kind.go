// Package symbol defines the entity model for a single source unit: symbol
// kinds, visibility, modifiers, annotations, locations and type descriptors.
// It has no dependency on the parser or the graph; it is the vocabulary both
// speak.
package symbol

// Kind identifies the declaration shape of a Symbol. The numeric values are
// part of the binary cache wire format (see internal/binformat) and must stay
// stable within a major cache version.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindTrigger
	KindMethod
	KindConstructor
	KindField
	KindProperty
	KindVariable
	KindParameter
	KindEnumValue
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	case KindTrigger:
		return "Trigger"
	case KindMethod:
		return "Method"
	case KindConstructor:
		return "Constructor"
	case KindField:
		return "Field"
	case KindProperty:
		return "Property"
	case KindVariable:
		return "Variable"
	case KindParameter:
		return "Parameter"
	case KindEnumValue:
		return "EnumValue"
	case KindBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// ParseKind looks up a Kind by its String() name, case-sensitively. It is
// the inverse of String(), used to turn an external (e.g. CLI or query
// string) symbol kind name back into the wire-stable enum.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "Class":
		return KindClass, true
	case "Interface":
		return KindInterface, true
	case "Enum":
		return KindEnum, true
	case "Trigger":
		return KindTrigger, true
	case "Method":
		return KindMethod, true
	case "Constructor":
		return KindConstructor, true
	case "Field":
		return KindField, true
	case "Property":
		return KindProperty, true
	case "Variable":
		return KindVariable, true
	case "Parameter":
		return KindParameter, true
	case "EnumValue":
		return KindEnumValue, true
	case "Block":
		return KindBlock, true
	default:
		return 0, false
	}
}

// IsContainer reports whether a symbol of this kind pushes a new scope when
// the collector enters its body.
func (k Kind) IsContainer() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindTrigger, KindMethod, KindConstructor, KindBlock:
		return true
	default:
		return false
	}
}

// Visibility is the access modifier on a symbol. Numeric values are part of
// the binary cache wire format.
type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPublic
	VisibilityGlobal
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	case VisibilityGlobal:
		return "global"
	default:
		return "default"
	}
}

// rank orders visibilities from narrowest to widest, used by the
// ModifierSemantics validator's visibility-monotonicity check.
func (v Visibility) rank() int {
	switch v {
	case VisibilityPrivate:
		return 0
	case VisibilityDefault:
		return 1
	case VisibilityProtected:
		return 2
	case VisibilityPublic:
		return 3
	case VisibilityGlobal:
		return 4
	default:
		return 1
	}
}

// WidensFrom reports whether v is strictly wider than other.
func (v Visibility) WidensFrom(other Visibility) bool {
	return v.rank() > other.rank()
}

// ScopeType tags the kind of lexical scope a Scope node represents.
type ScopeType uint8

const (
	ScopeFile ScopeType = iota
	ScopeClass
	ScopeInterface
	ScopeEnum
	ScopeTrigger
	ScopeMethod
	ScopeBlock
)

func (s ScopeType) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeClass:
		return "class"
	case ScopeInterface:
		return "interface"
	case ScopeEnum:
		return "enum"
	case ScopeTrigger:
		return "trigger"
	case ScopeMethod:
		return "method"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}
