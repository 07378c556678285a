package symbol

// Factory constructs Symbols with correctly-derived identities. It is stateless
// and safe for concurrent use; the scope path and parent linkage it consumes
// come from the caller's (single-threaded, per-file) collector state.
type Factory struct{}

// NewFactory returns a Factory. It carries no state today but exists as a
// named type rather than bare package functions, so future
// construction-time options have somewhere to live.
func NewFactory() *Factory {
	return &Factory{}
}

// Minimal constructs a Symbol with only the fields every declaration has:
// kind, name, location, owning file, and parent. Used for declarations that
// carry no modifiers of their own (e.g. Block scope containers).
func (f *Factory) Minimal(kind Kind, name string, loc Location, fileURI string, parentID *string, scopePath []string) *Symbol {
	return &Symbol{
		ID:       ComputeID(fileURI, scopePath, kind, name),
		Name:     name,
		Kind:     kind,
		FileURI:  fileURI,
		Location: loc,
		ParentID: parentID,
	}
}

// FullParams carries the additional data the Full constructor attaches beyond
// the Minimal set.
type FullParams struct {
	Modifiers   Modifiers
	Namespace   *string
	Annotations []Annotation

	SuperClass *string
	Interfaces []string

	ReturnType    *TypeInfo
	Parameters    []Parameter
	IsConstructor bool
	HasBody       bool

	Type         *TypeInfo
	InitialValue *string

	Values []EnumValue

	ScopeType ScopeType
}

// Full constructs a fully-populated Symbol. scopePath is the current scope
// stack at the declaration site (mixed into the id, per spec.md §4.2, "the
// full variant takes the current scope path and hashes it into the id to
// disambiguate same-name local variables in sibling scopes").
func (f *Factory) Full(kind Kind, name string, loc Location, fileURI string, parentID *string, scopePath []string, p FullParams) *Symbol {
	return &Symbol{
		ID:            ComputeID(fileURI, scopePath, kind, name),
		Name:          name,
		Kind:          kind,
		FileURI:       fileURI,
		Location:      loc,
		ParentID:      parentID,
		Namespace:     p.Namespace,
		Modifiers:     p.Modifiers,
		Annotations:   p.Annotations,
		SuperClass:    p.SuperClass,
		Interfaces:    p.Interfaces,
		ReturnType:    p.ReturnType,
		Parameters:    p.Parameters,
		IsConstructor: p.IsConstructor,
		HasBody:       p.HasBody,
		Type:          p.Type,
		InitialValue:  p.InitialValue,
		Values:        p.Values,
		ScopeType:     p.ScopeType,
	}
}
