package collector

import "github.com/apexls/core/internal/symbol"
import "github.com/apexls/core/internal/parsetree"

func rangeOf(n parsetree.Node) symbol.Range {
	start, end := n.StartPoint(), n.EndPoint()
	return symbol.Range{
		Start: symbol.Position{Line: start.Line, Column: start.Column},
		End:   symbol.Position{Line: end.Line, Column: end.Column},
	}
}

// identLocation builds a Location whose symbol range and identifier range
// are both n's own span — used when no larger enclosing node is available.
func identLocation(n parsetree.Node) symbol.Location {
	r := rangeOf(n)
	return symbol.Location{SymbolRange: r, IdentifierRange: r}
}

func identLocationPtr(n parsetree.Node) *symbol.Location {
	loc := identLocation(n)
	return &loc
}

// spanLocation builds a Location covering the full declaration (whole) with
// the narrower identifierRange pointing at just the name token (ident).
func spanLocation(whole, ident parsetree.Node) symbol.Location {
	return symbol.Location{SymbolRange: rangeOf(whole), IdentifierRange: rangeOf(ident)}
}

// firstChildOfKind returns the first direct child of n matching any of kinds,
// or nil.
func firstChildOfKind(n parsetree.Node, kinds ...string) parsetree.Node {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// firstTypeNode returns the first child of a field/property/local-variable
// declaration that is neither its modifiers list nor one of its declarators
// — i.e. the shared type node all declarators hang off of.
func firstTypeNode(n parsetree.Node) parsetree.Node {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() == kindModifiers || c.Kind() == kindVariableDtor {
			continue
		}
		return c
	}
	return nil
}

// identifierText returns n's own text if n is itself an identifier, or its
// first identifier child's text otherwise.
func identifierText(n parsetree.Node, source []byte) string {
	if n.Kind() == kindIdentifier || n.Kind() == kindTypeIdent {
		return n.Text(source)
	}
	if id := firstChildOfKind(n, kindIdentifier, kindTypeIdent); id != nil {
		return id.Text(source)
	}
	return ""
}
