package collector

import "github.com/apexls/core/internal/parsetree"

// fakeNode is a hand-built parsetree.Node for tests, avoiding any dependency
// on a real grammar (spec.md §3's design choice: the collector's contract
// is parsetree.Node, not a concrete parser).
type fakeNode struct {
	kind     string
	text     string
	children []*fakeNode
	start    parsetree.Position
	end      parsetree.Position
}

func (f *fakeNode) Kind() string          { return f.kind }
func (f *fakeNode) ChildCount() int       { return len(f.children) }
func (f *fakeNode) StartPoint() parsetree.Position { return f.start }
func (f *fakeNode) EndPoint() parsetree.Position   { return f.end }
func (f *fakeNode) StartByte() uint       { return 0 }
func (f *fakeNode) EndByte() uint         { return uint(len(f.text)) }

func (f *fakeNode) Child(i int) parsetree.Node {
	if i < 0 || i >= len(f.children) {
		return nil
	}
	return f.children[i]
}

func (f *fakeNode) Text(source []byte) string { return f.text }

func ident(name string) *fakeNode {
	return &fakeNode{kind: kindIdentifier, text: name}
}

func leaf(kind, text string) *fakeNode {
	return &fakeNode{kind: kind, text: text}
}

func node(kind string, children ...*fakeNode) *fakeNode {
	return &fakeNode{kind: kind, children: children}
}

func mods(flags ...string) *fakeNode {
	n := &fakeNode{kind: kindModifiers}
	for _, f := range flags {
		n.children = append(n.children, leaf(f, f))
	}
	return n
}

func formalParams(params ...*fakeNode) *fakeNode {
	return node(kindFormalParams, params...)
}

func formalParam(typeName, name string) *fakeNode {
	return node(kindFormalParam, leaf(kindTypeIdent, typeName), ident(name))
}

func block(stmts ...*fakeNode) *fakeNode {
	return node(kindBlock, stmts...)
}

func localVarDecl(typeName string, declarators ...*fakeNode) *fakeNode {
	return node(kindLocalVarDecl, append([]*fakeNode{leaf(kindTypeIdent, typeName)}, declarators...)...)
}

func declarator(name string, init ...*fakeNode) *fakeNode {
	children := []*fakeNode{ident(name)}
	children = append(children, init...)
	return node(kindVariableDtor, children...)
}
