package collector

import (
	"context"
	"fmt"

	"github.com/apexls/core/internal/parsetree"
	"github.com/apexls/core/internal/symbol"
)

// walkNode dispatches a statement/declaration-level node to its collector.
// Expression-level nodes reachable from here (e.g. an expression_statement's
// child) fall through to walkExpression.
func (c *Collector) walkNode(ctx context.Context, n parsetree.Node) {
	if n == nil || c.cancelled {
		return
	}
	if !c.tick(ctx) {
		c.cancelled = true
		return
	}
	switch n.Kind() {
	case kindClassDecl, kindInterfaceDecl, kindTriggerDecl:
		c.collectTypeDecl(ctx, n)
	case kindEnumDecl:
		c.collectEnumDecl(ctx, n)
	case kindMethodDecl:
		c.collectMethodDecl(ctx, n, false)
	case kindConstructorDecl:
		c.collectMethodDecl(ctx, n, true)
	case kindFieldDecl:
		c.collectVariableDeclarators(ctx, n, symbol.KindField)
	case kindPropertyDecl:
		c.collectVariableDeclarators(ctx, n, symbol.KindProperty)
	case kindLocalVarDecl, kindLocalVarStmt:
		c.collectVariableDeclarators(ctx, n, symbol.KindVariable)
	case kindBlock:
		c.collectBlock(ctx, n)
	case kindForStatement, kindEnhancedFor:
		c.collectForStatement(ctx, n)
	case kindExprStatement:
		for i := 0; i < n.ChildCount(); i++ {
			c.walkExpression(ctx, n.Child(i), symbol.AccessNone)
		}
	case kindModifiers:
		// consumed by the declaration that owns it; nothing to do standalone.
	default:
		for i := 0; i < n.ChildCount(); i++ {
			c.walkNode(ctx, n.Child(i))
		}
	}
}

// resolveModifiersAndAnnotations reads n's "modifiers" child, if any,
// translating modifier keyword nodes into a Modifiers bitmask and collecting
// any annotation nodes alongside it.
func (c *Collector) resolveModifiersAndAnnotations(n parsetree.Node) (symbol.Modifiers, []symbol.Annotation) {
	var mods symbol.Modifiers
	var anns []symbol.Annotation
	modNode := firstChildOfKind(n, kindModifiers)
	if modNode == nil {
		return mods, anns
	}
	for i := 0; i < modNode.ChildCount(); i++ {
		child := modNode.Child(i)
		switch child.Kind() {
		case modPublic:
			mods.Visibility = symbol.VisibilityPublic
		case modPrivate:
			mods.Visibility = symbol.VisibilityPrivate
		case modProtected:
			mods.Visibility = symbol.VisibilityProtected
		case modGlobal:
			mods.Visibility = symbol.VisibilityGlobal
		case modStatic:
			mods.Flags |= symbol.FlagStatic
		case modFinal:
			mods.Flags |= symbol.FlagFinal
		case modAbstract:
			mods.Flags |= symbol.FlagAbstract
		case modVirtual:
			mods.Flags |= symbol.FlagVirtual
		case modOverride:
			mods.Flags |= symbol.FlagOverride
		case modTransient:
			mods.Flags |= symbol.FlagTransient
		case modTestMethod:
			mods.Flags |= symbol.FlagTestMethod
		case modWebService:
			mods.Flags |= symbol.FlagWebService
		case kindAnnotation:
			anns = append(anns, c.parseAnnotation(child))
		}
	}
	return mods, anns
}

func (c *Collector) parseAnnotation(n parsetree.Node) symbol.Annotation {
	var name string
	if id := firstChildOfKind(n, kindIdentifier); id != nil {
		name = id.Text(c.source)
	}
	var params []symbol.AnnotationParameter
	if argsNode := firstChildOfKind(n, kindAnnotArgs); argsNode != nil {
		for i := 0; i < argsNode.ChildCount(); i++ {
			arg := argsNode.Child(i)
			if arg.Kind() != kindAnnotArg {
				continue
			}
			params = append(params, c.parseAnnotationArg(arg))
		}
	}
	return symbol.Annotation{Name: name, Location: identLocation(n), Parameters: params}
}

func (c *Collector) parseAnnotationArg(n parsetree.Node) symbol.AnnotationParameter {
	if n.ChildCount() >= 2 && n.Child(0).Kind() == kindIdentifier {
		name := n.Child(0).Text(c.source)
		value := n.Child(n.ChildCount() - 1).Text(c.source)
		return symbol.AnnotationParameter{Name: &name, Value: value}
	}
	return symbol.AnnotationParameter{Value: n.Text(c.source)}
}

// collectTypeDecl handles class, interface, and trigger declarations — they
// share a shape: optional modifiers, a name, an optional superclass, an
// optional interfaces list, and a body of further declarations.
func (c *Collector) collectTypeDecl(ctx context.Context, n parsetree.Node) {
	mods, anns := c.resolveModifiersAndAnnotations(n)
	nameNode := firstChildOfKind(n, kindIdentifier, kindTypeIdent)
	if nameNode == nil {
		return
	}
	name := nameNode.Text(c.source)
	c.validateIdentifier(name, nameNode)
	if !c.checkDuplicate(name, nameNode) {
		return
	}

	kind := symbol.KindClass
	switch n.Kind() {
	case kindInterfaceDecl:
		kind = symbol.KindInterface
	case kindTriggerDecl:
		kind = symbol.KindTrigger
	}

	var superClass *string
	var interfaces []string
	if scNode := firstChildOfKind(n, kindSuperclass); scNode != nil {
		if id := firstChildOfKind(scNode, kindIdentifier, kindTypeIdent); id != nil {
			sc := id.Text(c.source)
			superClass = &sc
			c.emitReference(sc, symbol.RefClassReference, identLocation(id), nil, nil, symbol.AccessNone)
		}
	}
	if ifNode := firstChildOfKind(n, kindInterfaces); ifNode != nil {
		if list := firstChildOfKind(ifNode, kindTypeList); list != nil {
			ifNode = list
		}
		for i := 0; i < ifNode.ChildCount(); i++ {
			c2 := ifNode.Child(i)
			if c2.Kind() != kindIdentifier && c2.Kind() != kindTypeIdent {
				continue
			}
			iname := c2.Text(c.source)
			interfaces = append(interfaces, iname)
			c.emitReference(iname, symbol.RefClassReference, identLocation(c2), nil, nil, symbol.AccessNone)
		}
	}

	loc := spanLocation(n, nameNode)
	parentID := c.currentContainerSymbolID()
	sym := c.factory.Full(kind, name, loc, c.table.FileURI, parentID, c.table.ScopePath(), symbol.FullParams{
		Modifiers:   mods,
		Annotations: anns,
		Namespace:   c.namespace,
		SuperClass:  superClass,
		Interfaces:  interfaces,
	})
	c.applyModifierValidators(sym)
	if err := c.table.Add(sym); err != nil {
		c.reporter.Error("STRUCTURAL_ADD_FAILED", err.Error(), &loc)
		return
	}
	c.currentDeclared()[name] = sym
	c.currentLocalVars()[name] = true

	vis := sym.Modifiers.Visibility
	c.pushScope(symbol.ScopeClass, name, &sym.ID, &vis, kind == symbol.KindInterface)
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nameNode || child.Kind() == kindModifiers || child.Kind() == kindSuperclass || child.Kind() == kindInterfaces {
			continue
		}
		c.walkNode(ctx, child)
	}
	c.popScope()
}

func (c *Collector) collectEnumDecl(ctx context.Context, n parsetree.Node) {
	mods, anns := c.resolveModifiersAndAnnotations(n)
	nameNode := firstChildOfKind(n, kindIdentifier, kindTypeIdent)
	if nameNode == nil {
		return
	}
	name := nameNode.Text(c.source)
	c.validateIdentifier(name, nameNode)
	if !c.checkDuplicate(name, nameNode) {
		return
	}

	loc := spanLocation(n, nameNode)
	parentID := c.currentContainerSymbolID()
	sym := c.factory.Full(symbol.KindEnum, name, loc, c.table.FileURI, parentID, c.table.ScopePath(), symbol.FullParams{
		Modifiers:   mods,
		Annotations: anns,
		Namespace:   c.namespace,
	})
	c.applyModifierValidators(sym)
	if err := c.table.Add(sym); err != nil {
		c.reporter.Error("STRUCTURAL_ADD_FAILED", err.Error(), &loc)
		return
	}
	c.currentDeclared()[name] = sym
	c.currentLocalVars()[name] = true

	vis := sym.Modifiers.Visibility
	c.pushScope(symbol.ScopeEnum, name, &sym.ID, &vis, false)
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kindEnumConstant {
			valName := identifierText(child, c.source)
			if valName == "" {
				continue
			}
			if !c.checkDuplicate(valName, child) {
				continue
			}
			evLoc := identLocation(child)
			sym.Values = append(sym.Values, symbol.EnumValue{Name: valName, Location: evLoc})
			evSym := c.factory.Minimal(symbol.KindEnumValue, valName, evLoc, c.table.FileURI, &sym.ID, c.table.ScopePath())
			if err := c.table.Add(evSym); err == nil {
				c.currentDeclared()[valName] = evSym
				c.currentLocalVars()[valName] = true
			}
			continue
		}
		if child == nameNode || child.Kind() == kindModifiers {
			continue
		}
		c.walkNode(ctx, child)
	}
	c.popScope()
}

// collectMethodDecl handles both method and constructor declarations. Child
// layout convention: an optional modifiers node, for methods a return-type
// node followed by the name identifier (for constructors just the name),
// a formal_parameters node, and an optional block body.
func (c *Collector) collectMethodDecl(ctx context.Context, n parsetree.Node, isConstructor bool) {
	mods, anns := c.resolveModifiersAndAnnotations(n)

	var nameNode, paramsNode, bodyNode, returnTypeNode parsetree.Node
	var lastIdent parsetree.Node
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case kindModifiers:
		case kindFormalParams:
			paramsNode = child
			nameNode = lastIdent
		case kindBlock:
			bodyNode = child
		case kindIdentifier, kindTypeIdent:
			if nameNode == nil {
				if !isConstructor && lastIdent == nil {
					returnTypeNode = child
				}
				lastIdent = child
			}
		}
	}
	if nameNode == nil {
		return
	}
	name := nameNode.Text(c.source)
	c.validateIdentifier(name, nameNode)

	kind := symbol.KindMethod
	if isConstructor {
		kind = symbol.KindConstructor
	}

	var params []symbol.Parameter
	var paramNodes []parsetree.Node
	if paramsNode != nil {
		params, paramNodes = c.collectFormalParams(paramsNode)
	}
	sig := normalizedSignature(params)
	if !c.checkMethodDuplicate(name, sig, nameNode) {
		return
	}

	loc := spanLocation(n, nameNode)
	parentID := c.currentContainerSymbolID()
	var retType *symbol.TypeInfo
	if !isConstructor && returnTypeNode != nil {
		ti := symbol.NewTypeInfo(returnTypeNode.Text(c.source))
		retType = &ti
	}
	sym := c.factory.Full(kind, name, loc, c.table.FileURI, parentID, c.table.ScopePath(), symbol.FullParams{
		Modifiers:     mods,
		Annotations:   anns,
		Namespace:     c.namespace,
		ReturnType:    retType,
		Parameters:    params,
		IsConstructor: isConstructor,
		HasBody:       bodyNode != nil,
	})
	c.applyModifierValidators(sym)
	if err := c.table.Add(sym); err != nil {
		c.reporter.Error("STRUCTURAL_ADD_FAILED", err.Error(), &loc)
		return
	}
	if retType != nil {
		c.emitReference(retType.Name, symbol.RefParameterType, identLocation(returnTypeNode), nil, nil, symbol.AccessNone)
	}

	vis := sym.Modifiers.Visibility
	c.pushScope(symbol.ScopeMethod, name, &sym.ID, &vis, false)
	c.methodNameStack = append(c.methodNameStack, name)
	methodCtx := c.currentMethodContext()
	for i, p := range params {
		c.currentLocalVars()[p.Name] = true
		var ploc symbol.Location
		if i < len(paramNodes) {
			ploc = identLocation(paramNodes[i])
		} else {
			ploc = loc
		}
		typeCopy := params[i].Type
		paramSym := c.factory.Full(symbol.KindParameter, p.Name, ploc, c.table.FileURI, &sym.ID, c.table.ScopePath(), symbol.FullParams{
			Type: &typeCopy,
		})
		if err := c.table.Add(paramSym); err == nil {
			c.currentDeclared()[p.Name] = paramSym
		}
		c.emitReference(p.Type.Name, symbol.RefParameterType, ploc, nil, methodCtx, symbol.AccessNone)
	}
	if bodyNode != nil {
		for i := 0; i < bodyNode.ChildCount(); i++ {
			c.walkNode(ctx, bodyNode.Child(i))
		}
	}
	c.methodNameStack = c.methodNameStack[:len(c.methodNameStack)-1]
	c.popScope()
}

func (c *Collector) collectFormalParams(n parsetree.Node) ([]symbol.Parameter, []parsetree.Node) {
	var params []symbol.Parameter
	var nodes []parsetree.Node
	for i := 0; i < n.ChildCount(); i++ {
		p := n.Child(i)
		if p.Kind() != kindFormalParam {
			continue
		}
		var typeNode, nameNode parsetree.Node
		for j := 0; j < p.ChildCount(); j++ {
			pc := p.Child(j)
			if pc.Kind() == kindIdentifier {
				nameNode = pc
			} else {
				typeNode = pc
			}
		}
		if nameNode == nil {
			continue
		}
		typeText := ""
		if typeNode != nil {
			typeText = typeNode.Text(c.source)
		}
		params = append(params, symbol.Parameter{Name: nameNode.Text(c.source), Type: symbol.NewTypeInfo(typeText)})
		nodes = append(nodes, p)
	}
	return params, nodes
}

// collectVariableDeclarators handles field, property, and local-variable
// declarations, which all share the "shared type + one or more
// variable_declarator children" shape (spec.md §4.3's multiple-declarator
// scenario).
func (c *Collector) collectVariableDeclarators(ctx context.Context, n parsetree.Node, kind symbol.Kind) {
	mods, anns := c.resolveModifiersAndAnnotations(n)
	typeNode := firstTypeNode(n)
	typeText := ""
	if typeNode != nil {
		typeText = typeNode.Text(c.source)
	}
	ti := symbol.NewTypeInfo(typeText)
	methodCtx := c.currentMethodContext()

	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() != kindVariableDtor {
			continue
		}
		nameNode := firstChildOfKind(child, kindIdentifier)
		if nameNode == nil {
			continue
		}
		name := nameNode.Text(c.source)
		c.validateIdentifier(name, nameNode)
		if !c.checkDuplicate(name, nameNode) {
			continue
		}

		loc := spanLocation(child, nameNode)
		parentID := c.currentContainerSymbolID()
		var initVal *string
		var initNode parsetree.Node
		if last := child.Child(child.ChildCount() - 1); last != nameNode && child.ChildCount() > 1 {
			initNode = last
			text := initNode.Text(c.source)
			initVal = &text
		}

		typeCopy := ti
		sym := c.factory.Full(kind, name, loc, c.table.FileURI, parentID, c.table.ScopePath(), symbol.FullParams{
			Modifiers:    mods,
			Annotations:  anns,
			Namespace:    c.namespace,
			Type:         &typeCopy,
			InitialValue: initVal,
		})
		c.applyModifierValidators(sym)
		if err := c.table.Add(sym); err != nil {
			c.reporter.Error("STRUCTURAL_ADD_FAILED", err.Error(), &loc)
			continue
		}
		c.currentDeclared()[name] = sym
		c.currentLocalVars()[name] = true

		if typeNode != nil {
			c.emitReference(typeText, symbol.RefParameterType, identLocation(typeNode), nil, methodCtx, symbol.AccessNone)
		}
		if initNode != nil {
			c.walkExpression(ctx, initNode, symbol.AccessRead)
		}
	}
}

func (c *Collector) collectBlock(ctx context.Context, n parsetree.Node) {
	name := c.nextBlockName()
	parentID := c.currentContainerSymbolID()
	loc := identLocation(n)
	sym := c.factory.Minimal(symbol.KindBlock, name, loc, c.table.FileURI, parentID, c.table.ScopePath())
	sym.ScopeType = symbol.ScopeBlock
	if err := c.table.Add(sym); err != nil {
		return
	}
	c.pushScope(symbol.ScopeBlock, name, &sym.ID, nil, false)
	for i := 0; i < n.ChildCount(); i++ {
		c.walkNode(ctx, n.Child(i))
	}
	c.popScope()
}

// collectForStatement handles both for_statement and enhanced_for_statement:
// a scope wraps the whole construct so a loop variable declared in the
// header is created exactly once and is visible only within the loop.
func (c *Collector) collectForStatement(ctx context.Context, n parsetree.Node) {
	name := c.nextBlockName()
	parentID := c.currentContainerSymbolID()
	loc := identLocation(n)
	sym := c.factory.Minimal(symbol.KindBlock, name, loc, c.table.FileURI, parentID, c.table.ScopePath())
	sym.ScopeType = symbol.ScopeBlock
	if err := c.table.Add(sym); err != nil {
		return
	}
	c.pushScope(symbol.ScopeBlock, name, &sym.ID, nil, false)
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == kindBlock {
			for j := 0; j < child.ChildCount(); j++ {
				c.walkNode(ctx, child.Child(j))
			}
			continue
		}
		if child.Kind() == kindLocalVarDecl || child.Kind() == kindLocalVarStmt {
			c.walkNode(ctx, child)
			continue
		}
		c.walkExpression(ctx, child, symbol.AccessNone)
	}
	c.popScope()
}

func (c *Collector) nextBlockName() string {
	name := fmt.Sprintf("block%d", c.blockCounter)
	c.blockCounter++
	return name
}
