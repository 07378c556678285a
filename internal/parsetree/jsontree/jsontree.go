// Package jsontree adapts a JSON-encoded parse tree to the
// internal/parsetree.Node contract. It exists for the same reason the
// collector's test fakeNode does (see internal/collector/fakenode_test.go):
// this core never owns a grammar for the language it analyzes (spec.md §1),
// so cmd/apexls needs a concrete, parser-agnostic way to feed it a tree
// produced by whatever external parser front-ends this core. The shape
// mirrors spec.md §1's data-flow arrow: "external parse tree → C3".
package jsontree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apexls/core/internal/parsetree"
)

// point is the wire shape of a parsetree.Position.
type point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// wireNode is the wire shape of one tree node: its grammar kind, the literal
// source text it spans, its start/end points, and nested children.
type wireNode struct {
	Kind     string     `json:"kind"`
	Text     string     `json:"text"`
	Start    point      `json:"start"`
	End      point      `json:"end"`
	Children []wireNode `json:"children"`
}

// node implements parsetree.Node over a decoded wireNode. Like the
// collector's test fakeNode, Text ignores its source argument: the text was
// already captured at encode time, since a jsontree producer has no
// obligation to ship the original byte buffer alongside the tree.
type node struct {
	w *wireNode
}

func (n *node) Kind() string { return n.w.Kind }

func (n *node) ChildCount() int { return len(n.w.Children) }

func (n *node) Child(i int) parsetree.Node {
	if i < 0 || i >= len(n.w.Children) {
		return nil
	}
	return &node{w: &n.w.Children[i]}
}

func (n *node) StartPoint() parsetree.Position {
	return parsetree.Position{Line: n.w.Start.Line, Column: n.w.Start.Column}
}

func (n *node) EndPoint() parsetree.Position {
	return parsetree.Position{Line: n.w.End.Line, Column: n.w.End.Column}
}

func (n *node) StartByte() uint { return 0 }

func (n *node) EndByte() uint { return uint(len(n.w.Text)) }

func (n *node) Text(source []byte) string { return n.w.Text }

// Decode reads one JSON-encoded parse tree from r and returns its root as a
// parsetree.Node.
func Decode(r io.Reader) (parsetree.Node, error) {
	var w wireNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("jsontree: decode: %w", err)
	}
	return &node{w: &w}, nil
}
