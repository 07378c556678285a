package symbol

// ReferenceContext classifies a usage site captured during collection. A
// reference is "raw" at capture time; the graph resolves it into an edge
// later (spec.md §3, §4.3).
type ReferenceContext uint8

const (
	RefClassReference ReferenceContext = iota
	RefMethodCall
	RefFieldAccess
	RefVariableUsage
	RefConstructorCall
	RefTypeDeclaration
	RefParameterType
	RefImportReference
)

func (c ReferenceContext) String() string {
	switch c {
	case RefClassReference:
		return "ClassReference"
	case RefMethodCall:
		return "MethodCall"
	case RefFieldAccess:
		return "FieldAccess"
	case RefVariableUsage:
		return "VariableUsage"
	case RefConstructorCall:
		return "ConstructorCall"
	case RefTypeDeclaration:
		return "TypeDeclaration"
	case RefParameterType:
		return "ParameterType"
	case RefImportReference:
		return "ImportReference"
	default:
		return "Unknown"
	}
}

// Access describes how a VariableUsage or FieldAccess reference touches its
// target.
type Access uint8

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "readwrite"
	default:
		return ""
	}
}

// TypeReference is a usage site recorded during collection, per spec.md §3.
type TypeReference struct {
	Name                    string
	Context                 ReferenceContext
	Location                Location
	Qualifier               *string
	ParentContextMethodName *string
	AccessKind              Access

	// ArgumentTypes holds, for a MethodCall reference, the best-effort
	// inferred type name of each call argument in order ("" when the
	// argument's type couldn't be determined lexically at collection
	// time). The validation engine's MethodResolution validator uses this
	// to check parameter-type compatibility; a "" slot is skipped.
	ArgumentTypes []string
}
