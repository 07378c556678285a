// Package collector implements C3: a single-threaded parse-tree walker that
// builds a per-file symbol.Table plus a flat list of raw TypeReferences
// (spec.md §4.3). It depends only on internal/parsetree.Node — never on a
// concrete grammar or parser package — and on internal/symbol for the
// entity model it populates.
package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexls/core/internal/parsetree"
	"github.com/apexls/core/internal/symbol"
)

// yieldEveryNodes is the cooperative-yield batch size from spec.md §5.
const yieldEveryNodes = 100

// Collector walks one file's parse tree and populates a symbol.Table. It
// keeps a scope stack paralleling symbol.Table's own, tracking the
// information the table doesn't: the container symbol a new scope belongs
// to, the container's visibility (for widening checks), whether the scope
// is an interface body, and which names are already declared or resolvable
// as bare variable references.
type Collector struct {
	table     *symbol.Table
	factory   *symbol.Factory
	reporter  ErrorReporter
	scope     ValidationScope
	source    []byte
	namespace *string

	nodeCount    int
	cancelled    bool
	blockCounter int

	containerSymbolID   []*string
	containerVisibility []*symbol.Visibility
	inInterfaceBody     []bool
	declared            []map[string]*symbol.Symbol
	localVars           []map[string]bool
	overloadSigs        []map[string]map[string]bool
	methodNameStack     []string
}

// New returns a Collector for a single file. reporter receives every
// semantic diagnostic; scope supplies the identifier rules checked at each
// declaration site.
func New(fileURI string, namespace *string, reporter ErrorReporter, scope ValidationScope) *Collector {
	return &Collector{
		table:     symbol.NewTable(fileURI),
		factory:   symbol.NewFactory(),
		reporter:  reporter,
		scope:     scope,
		namespace: namespace,
	}
}

// Collect walks root and returns the populated table plus its reference
// list. ctx is checked cooperatively every 100 visited nodes; on
// cancellation the walk stops and the partially-built table is returned
// with a budget warning, never a panic (spec.md §5, §7).
func (c *Collector) Collect(ctx context.Context, root parsetree.Node, source []byte) (*symbol.Table, []symbol.TypeReference, error) {
	c.source = source
	c.pushScope(symbol.ScopeFile, "File", nil, nil, false)
	if root != nil {
		for i := 0; i < root.ChildCount(); i++ {
			c.walkNode(ctx, root.Child(i))
			if c.cancelled {
				break
			}
		}
	}
	c.popScope()
	if c.cancelled {
		c.reporter.Warning("COLLECTION_BUDGET_EXCEEDED", "collection cancelled before the full tree was visited", nil)
	}
	return c.table, c.table.References, nil
}

func (c *Collector) tick(ctx context.Context) bool {
	c.nodeCount++
	if ctx != nil && c.nodeCount%yieldEveryNodes == 0 {
		select {
		case <-ctx.Done():
			return false
		default:
		}
	}
	return true
}

func (c *Collector) pushScope(scopeType symbol.ScopeType, name string, containerSymbolID *string, containerVis *symbol.Visibility, inInterface bool) {
	c.table.PushScope(scopeType, name)
	c.containerSymbolID = append(c.containerSymbolID, containerSymbolID)
	c.containerVisibility = append(c.containerVisibility, containerVis)
	c.inInterfaceBody = append(c.inInterfaceBody, inInterface)
	c.declared = append(c.declared, map[string]*symbol.Symbol{})
	c.localVars = append(c.localVars, map[string]bool{})
	c.overloadSigs = append(c.overloadSigs, map[string]map[string]bool{})
}

func (c *Collector) popScope() {
	c.table.PopScope()
	n := len(c.containerSymbolID)
	c.containerSymbolID = c.containerSymbolID[:n-1]
	c.containerVisibility = c.containerVisibility[:n-1]
	c.inInterfaceBody = c.inInterfaceBody[:n-1]
	c.declared = c.declared[:n-1]
	c.localVars = c.localVars[:n-1]
	c.overloadSigs = c.overloadSigs[:n-1]
}

func (c *Collector) currentContainerSymbolID() *string {
	return c.containerSymbolID[len(c.containerSymbolID)-1]
}

func (c *Collector) currentContainerVisibility() *symbol.Visibility {
	return c.containerVisibility[len(c.containerVisibility)-1]
}

func (c *Collector) currentlyInInterfaceBody() bool {
	return c.inInterfaceBody[len(c.inInterfaceBody)-1]
}

func (c *Collector) currentDeclared() map[string]*symbol.Symbol {
	return c.declared[len(c.declared)-1]
}

func (c *Collector) currentLocalVars() map[string]bool {
	return c.localVars[len(c.localVars)-1]
}

func (c *Collector) currentOverloadSigs() map[string]map[string]bool {
	return c.overloadSigs[len(c.overloadSigs)-1]
}

func (c *Collector) currentMethodContext() *string {
	if len(c.methodNameStack) == 0 {
		return nil
	}
	return &c.methodNameStack[len(c.methodNameStack)-1]
}

func (c *Collector) isKnownVariable(name string) bool {
	for i := len(c.localVars) - 1; i >= 0; i-- {
		if c.localVars[i][name] {
			return true
		}
	}
	return false
}

func (c *Collector) validateIdentifier(name string, n parsetree.Node) bool {
	ok := true
	if c.scope.IsReservedWord(name) {
		c.reporter.Error("RESERVED_IDENTIFIER", fmt.Sprintf("%q is a reserved word and cannot be used as an identifier", name), identLocationPtr(n))
		ok = false
	}
	if len(name) > c.scope.MaxIdentifierLength() {
		c.reporter.Error("IDENTIFIER_TOO_LONG", fmt.Sprintf("identifier %q exceeds the maximum length of %d", name, c.scope.MaxIdentifierLength()), identLocationPtr(n))
		ok = false
	}
	return ok
}

// checkDuplicate implements spec.md §4.3's duplicate policy for
// non-overloadable declarations: within a scope — whether across
// statements or between declarators in the same statement — the first
// declaration wins and every later one is an error.
func (c *Collector) checkDuplicate(name string, n parsetree.Node) bool {
	if _, exists := c.currentDeclared()[name]; exists {
		c.reporter.Error("DUPLICATE_DECLARATION", fmt.Sprintf("%q is already declared in this scope", name), identLocationPtr(n))
		return false
	}
	return true
}

// checkMethodDuplicate implements the overload-aware variant: methods
// sharing a name are only duplicates when their normalized parameter-type
// signatures also match.
func (c *Collector) checkMethodDuplicate(name, signature string, n parsetree.Node) bool {
	sigs := c.currentOverloadSigs()[name]
	if sigs == nil {
		sigs = map[string]bool{}
		c.currentOverloadSigs()[name] = sigs
	}
	if sigs[signature] {
		c.reporter.Error("DUPLICATE_METHOD_OVERLOAD", fmt.Sprintf("%q is already declared with this parameter signature", name), identLocationPtr(n))
		return false
	}
	sigs[signature] = true
	return true
}

func normalizedSignature(params []symbol.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strings.ToLower(p.Type.Name)
	}
	return strings.Join(parts, ",")
}

func (c *Collector) applyModifierValidators(sym *symbol.Symbol) {
	for _, v := range modifierValidatorsFor(sym.Kind, c.currentlyInInterfaceBody()) {
		v(sym, c.currentContainerVisibility(), c.reporter)
	}
}

func (c *Collector) emitReference(name string, refCtx symbol.ReferenceContext, loc symbol.Location, qualifier, methodCtx *string, access symbol.Access) {
	if name == "" {
		return
	}
	c.table.AddReference(symbol.TypeReference{
		Name:                    name,
		Context:                 refCtx,
		Location:                loc,
		Qualifier:               qualifier,
		ParentContextMethodName: methodCtx,
		AccessKind:              access,
	})
}

// emitMethodCall records a MethodCall reference together with its
// best-effort inferred argument types (spec.md §4.5's MethodResolution
// validator consumes these for parameter-type compatibility checks).
func (c *Collector) emitMethodCall(name string, loc symbol.Location, qualifier, methodCtx *string, argTypes []string) {
	if name == "" {
		return
	}
	c.table.AddReference(symbol.TypeReference{
		Name:                    name,
		Context:                 symbol.RefMethodCall,
		Location:                loc,
		Qualifier:               qualifier,
		ParentContextMethodName: methodCtx,
		AccessKind:              symbol.AccessNone,
		ArgumentTypes:           argTypes,
	})
}

func strPtr(s string) *string { return &s }
