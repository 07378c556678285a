// Package parsetree defines the external-parser contract the collector (C3)
// depends on. Raw grammar production is out of scope for this module
// (spec.md §1); this package only describes the shape of a parse tree the
// collector needs, duck-typed over what tree-sitter already exposes in the
// example corpus.
package parsetree

// Position is a 1-based line, 0-based column source position, matching
// internal/symbol.Position.
type Position struct {
	Line   int
	Column int
}

// Node is one node of an external parse tree. An adapter (e.g.
// internal/parsetree/sitter) wraps a concrete parser's tree in this
// interface; internal/collector depends only on this contract, never on a
// concrete grammar or parser package.
type Node interface {
	Kind() string
	ChildCount() int
	Child(i int) Node
	StartPoint() Position
	EndPoint() Position
	StartByte() uint
	EndByte() uint
	Text(source []byte) string
}

// Walk calls visit for n and every descendant, depth-first, pre-order.
// visit returns false to skip n's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := 0; i < n.ChildCount(); i++ {
		Walk(n.Child(i), visit)
	}
}

// Children returns n's direct children as a slice, for callers that want
// random access instead of the Child(i) accessor.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	out := make([]Node, n.ChildCount())
	for i := range out {
		out[i] = n.Child(i)
	}
	return out
}

// FindChildByKind returns the first direct child whose Kind() equals kind.
func FindChildByKind(n Node, kind string) Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}
