package collector

import (
	"context"

	"github.com/apexls/core/internal/parsetree"
	"github.com/apexls/core/internal/symbol"
)

// walkExpression captures usage-site references inside an expression tree
// per spec.md §4.3's capture rules. access tells a leaf identifier/field
// whether it is being read, written, or both (set by an enclosing
// assignment); interior nodes that aren't themselves an assignment target
// pass through symbol.AccessRead to their children.
func (c *Collector) walkExpression(ctx context.Context, n parsetree.Node, access symbol.Access) {
	if n == nil || c.cancelled {
		return
	}
	if !c.tick(ctx) {
		c.cancelled = true
		return
	}
	switch n.Kind() {
	case kindIdentifier:
		refAccess := access
		if refAccess == symbol.AccessNone {
			refAccess = symbol.AccessRead
		}
		c.emitReference(n.Text(c.source), symbol.RefVariableUsage, identLocation(n), nil, c.currentMethodContext(), refAccess)

	case kindMethodInvocation:
		c.collectMethodInvocation(ctx, n)

	case kindFieldAccess:
		c.collectFieldAccess(ctx, n, access)

	case kindObjectCreation:
		c.collectObjectCreation(ctx, n)

	case kindAssignment:
		c.collectAssignment(ctx, n)

	case kindCastExpr:
		c.collectCast(ctx, n)

	case kindInstanceofExpr:
		c.collectInstanceof(ctx, n)

	case kindUnaryExpr, kindParenExpr:
		for i := 0; i < n.ChildCount(); i++ {
			c.walkExpression(ctx, n.Child(i), access)
		}

	default:
		for i := 0; i < n.ChildCount(); i++ {
			c.walkExpression(ctx, n.Child(i), symbol.AccessRead)
		}
	}
}

// collectMethodInvocation expects either [name, arguments] for an
// unqualified call or [qualifier, name, arguments] for a dotted one.
func (c *Collector) collectMethodInvocation(ctx context.Context, n parsetree.Node) {
	var qualifierNode, nameNode, argsNode parsetree.Node
	switch n.ChildCount() {
	case 2:
		nameNode, argsNode = n.Child(0), n.Child(1)
	case 3:
		qualifierNode, nameNode, argsNode = n.Child(0), n.Child(1), n.Child(2)
	default:
		for i := 0; i < n.ChildCount(); i++ {
			c.walkExpression(ctx, n.Child(i), symbol.AccessRead)
		}
		return
	}
	if nameNode == nil {
		return
	}
	name := nameNode.Text(c.source)
	methodCtx := c.currentMethodContext()

	var argTypes []string
	if argsNode != nil {
		argTypes = make([]string, argsNode.ChildCount())
		for i := 0; i < argsNode.ChildCount(); i++ {
			argTypes[i] = c.inferArgType(argsNode.Child(i))
		}
	}

	switch {
	case qualifierNode == nil:
		c.emitMethodCall(name, identLocation(nameNode), nil, methodCtx, argTypes)
	case qualifierNode.Kind() == kindIdentifier && c.isKnownVariable(qualifierNode.Text(c.source)):
		qName := qualifierNode.Text(c.source)
		c.emitReference(qName, symbol.RefVariableUsage, identLocation(qualifierNode), nil, methodCtx, symbol.AccessRead)
		c.emitMethodCall(name, identLocation(nameNode), &qName, methodCtx, argTypes)
	case qualifierNode.Kind() == kindIdentifier:
		qName := qualifierNode.Text(c.source)
		c.emitReference(qName, symbol.RefClassReference, identLocation(qualifierNode), nil, methodCtx, symbol.AccessNone)
		c.emitMethodCall(name, identLocation(nameNode), &qName, methodCtx, argTypes)
	case qualifierNode.Kind() == kindObjectCreation:
		c.walkExpression(ctx, qualifierNode, symbol.AccessRead)
		if typeName := objectCreationTypeName(qualifierNode, c.source); typeName != "" {
			c.emitMethodCall(name, identLocation(nameNode), &typeName, methodCtx, argTypes)
		} else {
			c.emitMethodCall(name, identLocation(nameNode), nil, methodCtx, argTypes)
		}
	default:
		c.walkExpression(ctx, qualifierNode, symbol.AccessRead)
		c.emitMethodCall(name, identLocation(nameNode), nil, methodCtx, argTypes)
	}

	if argsNode != nil {
		for i := 0; i < argsNode.ChildCount(); i++ {
			c.walkExpression(ctx, argsNode.Child(i), symbol.AccessRead)
		}
	}
}

// inferArgType returns a lexically-derivable type name for a call argument,
// or "" when none can be determined without full expression typing (e.g. an
// arbitrary sub-expression). Literal kinds are the only case the collector
// can classify with certainty at this stage.
func (c *Collector) inferArgType(n parsetree.Node) string {
	switch n.Kind() {
	case kindStringLiteral:
		return "String"
	case kindIntLiteral:
		return "Integer"
	case kindBooleanLiteral:
		return "Boolean"
	default:
		return ""
	}
}

// objectCreationTypeName returns the constructed type's name for an
// object_creation_expression node, or "" if none is found.
func objectCreationTypeName(n parsetree.Node, source []byte) string {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kindArgumentList {
			continue
		}
		return child.Text(source)
	}
	return ""
}

// collectFieldAccess expects [qualifier, field]. The qualifier always emits
// a VariableUsage regardless of what it actually resolves to — field access
// doesn't distinguish a class reference the way a method-call qualifier
// does (spec.md §4.3).
func (c *Collector) collectFieldAccess(ctx context.Context, n parsetree.Node, access symbol.Access) {
	if n.ChildCount() < 2 {
		for i := 0; i < n.ChildCount(); i++ {
			c.walkExpression(ctx, n.Child(i), symbol.AccessRead)
		}
		return
	}
	qualifierNode := n.Child(0)
	fieldNode := n.Child(n.ChildCount() - 1)
	methodCtx := c.currentMethodContext()

	fieldAccess := access
	if fieldAccess == symbol.AccessNone {
		fieldAccess = symbol.AccessRead
	}

	if qualifierNode.Kind() == kindIdentifier {
		qName := qualifierNode.Text(c.source)
		c.emitReference(qName, symbol.RefVariableUsage, identLocation(qualifierNode), nil, methodCtx, symbol.AccessRead)
		c.emitReference(fieldNode.Text(c.source), symbol.RefFieldAccess, identLocation(fieldNode), &qName, methodCtx, fieldAccess)
		return
	}
	c.walkExpression(ctx, qualifierNode, symbol.AccessRead)
	c.emitReference(fieldNode.Text(c.source), symbol.RefFieldAccess, identLocation(fieldNode), nil, methodCtx, fieldAccess)
}

// collectObjectCreation expects a type node optionally followed by an
// argument_list.
func (c *Collector) collectObjectCreation(ctx context.Context, n parsetree.Node) {
	var typeNode, argsNode parsetree.Node
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kindArgumentList {
			argsNode = child
			continue
		}
		if typeNode == nil {
			typeNode = child
		}
	}
	if typeNode != nil {
		c.emitReference(typeNode.Text(c.source), symbol.RefConstructorCall, identLocation(typeNode), nil, c.currentMethodContext(), symbol.AccessNone)
	}
	if argsNode != nil {
		for i := 0; i < argsNode.ChildCount(); i++ {
			c.walkExpression(ctx, argsNode.Child(i), symbol.AccessRead)
		}
	}
}

// collectAssignment expects [lhs, rhs] or [lhs, operator, rhs]; a compound
// operator (anything but a bare "=") marks the LHS target read-and-write.
func (c *Collector) collectAssignment(ctx context.Context, n parsetree.Node) {
	if n.ChildCount() < 2 {
		return
	}
	lhs := n.Child(0)
	rhs := n.Child(n.ChildCount() - 1)
	access := symbol.AccessWrite
	if n.ChildCount() == 3 && n.Child(1).Kind() != "=" {
		access = symbol.AccessReadWrite
	}
	c.walkExpression(ctx, lhs, access)
	c.walkExpression(ctx, rhs, symbol.AccessRead)
}

// collectCast expects [type, operand].
func (c *Collector) collectCast(ctx context.Context, n parsetree.Node) {
	if n.ChildCount() < 2 {
		return
	}
	typeNode := n.Child(0)
	operand := n.Child(n.ChildCount() - 1)
	c.emitReference(typeNode.Text(c.source), symbol.RefClassReference, identLocation(typeNode), nil, c.currentMethodContext(), symbol.AccessNone)
	c.walkExpression(ctx, operand, symbol.AccessRead)
}

// collectInstanceof expects [operand, type].
func (c *Collector) collectInstanceof(ctx context.Context, n parsetree.Node) {
	if n.ChildCount() < 2 {
		return
	}
	operand := n.Child(0)
	typeNode := n.Child(n.ChildCount() - 1)
	c.walkExpression(ctx, operand, symbol.AccessRead)
	c.emitReference(typeNode.Text(c.source), symbol.RefClassReference, identLocation(typeNode), nil, c.currentMethodContext(), symbol.AccessNone)
}
