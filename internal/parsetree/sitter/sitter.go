// Package sitter adapts github.com/tree-sitter/go-tree-sitter's *Node/*Tree
// to the internal/parsetree.Node contract. The grammar that produces the
// tree is out of scope for this module (spec.md §1); only the generic
// tree-sitter runtime type is used here, as an adapter, never a
// representation the collector depends on directly.
package sitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/apexls/core/internal/parsetree"
)

// Node wraps a *tree_sitter.Node.
type Node struct {
	n      *tree_sitter.Node
	source []byte
}

// Wrap adapts a tree-sitter node to parsetree.Node. Returns nil if n is nil,
// so callers can propagate "no node" without a type-asserted nil interface.
func Wrap(n *tree_sitter.Node, source []byte) parsetree.Node {
	if n == nil {
		return nil
	}
	return &Node{n: n, source: source}
}

// WrapTree adapts the root node of a parsed tree.
func WrapTree(t *tree_sitter.Tree, source []byte) parsetree.Node {
	if t == nil {
		return nil
	}
	return Wrap(t.RootNode(), source)
}

func (w *Node) Kind() string { return w.n.Kind() }

func (w *Node) ChildCount() int { return int(w.n.ChildCount()) }

func (w *Node) Child(i int) parsetree.Node {
	return Wrap(w.n.Child(uint(i)), w.source)
}

func (w *Node) StartPoint() parsetree.Position {
	p := w.n.StartPosition()
	return parsetree.Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func (w *Node) EndPoint() parsetree.Position {
	p := w.n.EndPosition()
	return parsetree.Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func (w *Node) StartByte() uint { return uint(w.n.StartByte()) }

func (w *Node) EndByte() uint { return uint(w.n.EndByte()) }

func (w *Node) Text(source []byte) string {
	if source == nil {
		source = w.source
	}
	return string(source[w.n.StartByte():w.n.EndByte()])
}
