package symbol

import "fmt"

// Table owns every symbol declared in one file: the ordered declaration
// sequence, an id index, the file's root symbol, the scope stack used while
// the collector is walking the file, and the flat list of raw references the
// walk captured. See spec.md §3 ("SymbolTable").
type Table struct {
	FileURI string

	Symbols    []*Symbol
	byID       map[string]*Symbol
	Root       *Symbol
	References []TypeReference

	scopeStack []*Scope
}

// NewTable creates an empty table for fileURI with a single file-level root
// scope already pushed.
func NewTable(fileURI string) *Table {
	t := &Table{
		FileURI: fileURI,
		byID:    make(map[string]*Symbol),
	}
	t.scopeStack = []*Scope{{Name: "File", Type: ScopeFile}}
	return t
}

// CurrentScope returns the innermost active scope.
func (t *Table) CurrentScope() *Scope {
	return t.scopeStack[len(t.scopeStack)-1]
}

// ScopePath returns the current scope stack's name sequence, e.g.
// ["File", "Outer", "method", "block3"].
func (t *Table) ScopePath() []string {
	return t.CurrentScope().Path()
}

// PushScope enters a new nested scope of the given kind and name.
func (t *Table) PushScope(scopeType ScopeType, name string) *Scope {
	s := &Scope{Name: name, Type: scopeType, Parent: t.CurrentScope()}
	t.scopeStack = append(t.scopeStack, s)
	return s
}

// PopScope exits the innermost scope. It is a no-op (and a programmer error
// signal via the returned bool) if only the file scope remains.
func (t *Table) PopScope() bool {
	if len(t.scopeStack) <= 1 {
		return false
	}
	t.scopeStack = t.scopeStack[:len(t.scopeStack)-1]
	return true
}

// Add registers a symbol in the table. It does not perform duplicate
// detection — that policy lives in the collector, which decides whether a
// colliding declaration should be skipped before ever calling Add. Add
// returns an error only for the structural invariant in spec.md §3: a
// parentId must reference another symbol already in this table, or be nil.
func (t *Table) Add(s *Symbol) error {
	if s.ParentID != nil {
		if _, ok := t.byID[*s.ParentID]; !ok {
			return fmt.Errorf("symbol: parentId %q for %q does not reference a known symbol in file %q", *s.ParentID, s.ID, t.FileURI)
		}
	}
	t.Symbols = append(t.Symbols, s)
	t.byID[s.ID] = s
	t.CurrentScope().AddSymbol(s.ID)
	if s.ParentID == nil && t.Root == nil && s.Kind != KindBlock {
		t.Root = s
	}
	return nil
}

// Get resolves a symbol id to its Symbol within this table.
func (t *Table) Get(id string) (*Symbol, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Resolver returns a ParentResolver bound to this table, for Symbol.FQN.
func (t *Table) Resolver() ParentResolver {
	return t.Get
}

// FQN is a convenience wrapper around Symbol.FQN using this table's resolver.
func (t *Table) FQN(s *Symbol) string {
	return s.FQN(t.Resolver())
}

// Hydrate rebuilds a Table directly from a prebuilt symbol list, bypassing
// Add's parent-linkage validation and scope bookkeeping entirely. This is
// the binary-cache cold-start path (spec.md §4.6 step 5): the symbols and
// their parentId links were already valid when serialized, so re-deriving
// them through Add would only cost time without catching anything new.
func (t *Table) Hydrate(syms []*Symbol, root *Symbol) {
	t.Symbols = syms
	t.byID = make(map[string]*Symbol, len(syms))
	for _, s := range syms {
		t.byID[s.ID] = s
	}
	t.Root = root
}

// AddReference appends a raw usage-site reference captured during the walk.
func (t *Table) AddReference(ref TypeReference) {
	t.References = append(t.References, ref)
}

// UserSymbols returns every symbol except Block scope containers, per
// spec.md §3's "Block symbols ... are not emitted to external consumers
// asking for user symbols".
func (t *Table) UserSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.Symbols))
	for _, s := range t.Symbols {
		if s.IsUserVisible() {
			out = append(out, s)
		}
	}
	return out
}

// HasCycle reports whether the parentId chain starting at s ever revisits a
// symbol, which would violate the no-cycles invariant in spec.md §3/§8.
func (t *Table) HasCycle(s *Symbol) bool {
	seen := map[string]bool{}
	cur := s
	for cur != nil {
		if seen[cur.ID] {
			return true
		}
		seen[cur.ID] = true
		if cur.ParentID == nil {
			return false
		}
		parent, ok := t.byID[*cur.ParentID]
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}
