package symbol

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Parameter is a formal parameter of a method or constructor.
type Parameter struct {
	Name string
	Type TypeInfo
}

// EnumValue is one ordered member of an Enum symbol.
type EnumValue struct {
	Name     string
	Location Location
}

// Symbol is an entity declared in a source unit: a class, a method, a local
// variable, a block scope container, and so on. See spec.md §3 for the full
// contract; fields below are grouped as core / kind-specific extensions.
type Symbol struct {
	ID       string
	Name     string
	Kind     Kind
	FileURI  string
	Location Location

	ParentID  *string
	Namespace *string

	Modifiers   Modifiers
	Annotations []Annotation

	// Type declarations (Class, Interface, Enum, Trigger).
	SuperClass *string
	Interfaces []string

	// Method / Constructor.
	ReturnType    *TypeInfo
	Parameters    []Parameter
	IsConstructor bool
	HasBody       bool

	// Field / Property / Variable / Parameter.
	Type         *TypeInfo
	InitialValue *string

	// Enum.
	Values []EnumValue

	// Block.
	ScopeType ScopeType

	fqn         string
	fqnComputed bool
}

// ComputeID derives a symbol's process-wide-unique id from (fileURI,
// scopePath, kind, name), per spec.md §3's "derived from (fileURI, scopePath,
// kind, name) so that identical simple names in distinct scopes collide to
// distinct ids". The id is a deterministic FNV-1a 64-bit digest of the
// canonicalized tuple, rendered hex and prefixed with a human-readable tag so
// ids stay debuggable in logs and test fixtures while still being
// reproducible across independent collector runs (needed for the binary
// round-trip property in spec.md §8).
func ComputeID(fileURI string, scopePath []string, kind Kind, name string) string {
	h := fnv.New64a()
	fmt.Fprint(h, fileURI, "\x00")
	for _, s := range scopePath {
		fmt.Fprint(h, s, "\x00")
	}
	fmt.Fprint(h, kind, "\x00", name)
	return fmt.Sprintf("%s:%s:%016x", kind, name, h.Sum64())
}

// ParentResolver looks up a symbol by id within the same SymbolTable; it is
// supplied by the owning table so FQN computation never needs to reach
// outside a single file.
type ParentResolver func(id string) (*Symbol, bool)

// FQN lazily computes and caches the symbol's fully-qualified name by walking
// the parent chain, e.g. "Outer.Inner.method". Computation happens once per
// symbol; subsequent calls return the cached value. FQN lookups elsewhere in
// the system are always performed case-insensitively (spec.md §4.2).
func (s *Symbol) FQN(resolve ParentResolver) string {
	if s.fqnComputed {
		return s.fqn
	}
	parts := []string{s.Name}
	parentID := s.ParentID
	seen := map[string]bool{s.ID: true}
	for parentID != nil {
		parent, ok := resolve(*parentID)
		if !ok || parent == nil {
			break
		}
		if seen[parent.ID] {
			// A cycle in parentId chains is a structural invariant
			// violation (spec.md §7); stop rather than loop forever.
			break
		}
		seen[parent.ID] = true
		if parent.Kind != KindBlock {
			parts = append([]string{parent.Name}, parts...)
		}
		parentID = parent.ParentID
	}
	s.fqn = strings.Join(parts, ".")
	s.fqnComputed = true
	return s.fqn
}

// IsUserVisible reports whether a symbol should be surfaced to external
// consumers asking for "user symbols" — block symbols are pure scope
// containers and are never emitted (spec.md §3 invariants).
func (s *Symbol) IsUserVisible() bool {
	return s.Kind != KindBlock
}
