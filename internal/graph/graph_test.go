package graph

import (
	"context"
	"testing"

	"github.com/apexls/core/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(startLine, endLine int) symbol.Range {
	return symbol.Range{Start: symbol.Position{Line: startLine, Column: 0}, End: symbol.Position{Line: endLine, Column: 0}}
}

func loc(startLine, endLine int) symbol.Location {
	r := rng(startLine, endLine)
	return symbol.Location{SymbolRange: r, IdentifierRange: r}
}

func TestAddSymbol_UpdatesIndexes(t *testing.T) {
	g := New()
	f := symbol.NewFactory()
	cls := f.Minimal(symbol.KindClass, "Account", loc(1, 10), "file:///A.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(cls, "file:///A.cls", nil))

	assert.Len(t, g.LookupSymbolByName("account"), 1)
	s, ok := g.LookupSymbolByFQN(cls.FQN(func(id string) (*symbol.Symbol, bool) { return nil, false }))
	require.True(t, ok)
	assert.Equal(t, cls.ID, s.ID)
}

func TestAddEdge_IdempotentByTriple(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", EdgeMethodCall, nil)
	g.AddEdge("a", "b", EdgeMethodCall, nil)
	assert.Len(t, g.edges, 1)

	ctxStr := "updated"
	g.AddEdge("a", "b", EdgeMethodCall, &ctxStr)
	assert.Len(t, g.edges, 1)
	assert.Equal(t, &ctxStr, g.edges[0].Context)
}

func buildSimpleTable(fileURI, className, methodName string) *symbol.Table {
	table := symbol.NewTable(fileURI)
	f := symbol.NewFactory()
	cls := f.Minimal(symbol.KindClass, className, loc(1, 20), fileURI, nil, []string{"File"})
	table.Add(cls)
	table.Root = cls
	m := f.Full(symbol.KindMethod, methodName, loc(2, 5), fileURI, &cls.ID, []string{"File", className}, symbol.FullParams{
		HasBody: true,
	})
	table.Add(m)
	return table
}

func TestAddSymbolsFromTable_ThenRemoveFileIsAtomic(t *testing.T) {
	g := New()
	table := buildSimpleTable("file:///A.cls", "Foo", "bar")
	require.NoError(t, g.AddSymbolsFromTable(table))
	assert.Len(t, g.fileIdx["file:///A.cls"], 2)

	require.NoError(t, g.RemoveFile("file:///A.cls"))
	assert.Empty(t, g.fileIdx["file:///A.cls"])
	assert.Empty(t, g.LookupSymbolByName("Foo"))

	table2 := buildSimpleTable("file:///A.cls", "Foo", "baz")
	require.NoError(t, g.AddSymbolsFromTable(table2))
	ids := g.fileIdx["file:///A.cls"]
	require.Len(t, ids, 2)
	for _, id := range ids {
		_, ok := g.symbols[id]
		assert.True(t, ok)
	}
}

func TestLookupSymbolWithContext_Ladder(t *testing.T) {
	g := New()
	f := symbol.NewFactory()
	a := f.Minimal(symbol.KindClass, "Util", loc(1, 5), "file:///A.cls", nil, []string{"File"})
	b := f.Minimal(symbol.KindClass, "Util", loc(1, 5), "file:///B.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(a, "file:///A.cls", nil))
	require.NoError(t, g.AddSymbol(b, "file:///B.cls", nil))

	result := g.LookupSymbolWithContext("Util", ResolutionContext{FileURI: "file:///B.cls"})
	assert.True(t, result.IsAmbiguous)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, b.ID, result.Symbol.ID)
	assert.Equal(t, "same-file", result.ResolutionContext)

	unique := g.LookupSymbolWithContext("Unknown", ResolutionContext{})
	assert.Equal(t, 0.0, unique.Confidence)
	assert.Nil(t, unique.Symbol)
}

func TestFindReferences_ToAndFrom(t *testing.T) {
	g := New()
	g.AddEdge("caller", "callee", EdgeMethodCall, nil)

	from := g.FindReferencesFrom("caller")
	require.Len(t, from, 1)

	f := symbol.NewFactory()
	callee := f.Minimal(symbol.KindMethod, "callee", loc(1, 1), "file:///A.cls", nil, nil)
	callee.ID = "callee"
	require.NoError(t, g.AddSymbol(callee, "file:///A.cls", nil))
	caller := f.Minimal(symbol.KindMethod, "caller", loc(1, 1), "file:///A.cls", nil, nil)
	caller.ID = "caller"
	require.NoError(t, g.AddSymbol(caller, "file:///A.cls", nil))

	from := g.FindReferencesFrom("caller")
	require.Len(t, from, 1)

	to := g.FindReferencesTo("callee")
	require.Len(t, to, 1)
	assert.Equal(t, "caller", to[0].Symbol.ID)
	assert.Equal(t, EdgeMethodCall, to[0].ReferenceType)
}

func TestAnalyzeDependencies_ImpactScore(t *testing.T) {
	g := New()
	// a -> b -> c  (a depends on b, b depends on c)
	g.AddEdge("a", "b", EdgeClassReference, nil)
	g.AddEdge("b", "c", EdgeClassReference, nil)

	f := symbol.NewFactory()
	for _, id := range []string{"a", "b", "c"} {
		s := f.Minimal(symbol.KindClass, id, loc(1, 1), "file:///A.cls", nil, nil)
		s.ID = id
		require.NoError(t, g.AddSymbol(s, "file:///A.cls", nil))
	}

	analysis := g.AnalyzeDependencies("c")
	assert.Len(t, analysis.Dependents, 1) // b directly depends on c
	assert.InDelta(t, 1+transitiveDependentWeight, analysis.ImpactScore, 0.0001)
}

func TestDetectCircularDependencies_FindsCycle(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", EdgeClassReference, nil)
	g.AddEdge("b", "a", EdgeClassReference, nil)
	g.AddEdge("x", "y", EdgeClassReference, nil)

	f := symbol.NewFactory()
	for _, id := range []string{"a", "b", "x", "y"} {
		s := f.Minimal(symbol.KindClass, id, loc(1, 1), "file:///A.cls", nil, nil)
		s.ID = id
		require.NoError(t, g.AddSymbol(s, "file:///A.cls", nil))
	}

	cycles := g.DetectCircularDependencies()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, cycles[0])
}

func TestGetGraphData_ContainsSuppressesConflictingReference(t *testing.T) {
	g := New()
	f := symbol.NewFactory()
	outer := f.Minimal(symbol.KindClass, "Outer", loc(1, 20), "file:///A.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(outer, "file:///A.cls", nil))
	inner := f.Minimal(symbol.KindClass, "Inner", loc(2, 5), "file:///A.cls", &outer.ID, []string{"File", "Outer"})
	require.NoError(t, g.AddSymbol(inner, "file:///A.cls", nil))

	// A spurious constructor-call edge between the same parent/child pair.
	g.AddEdge(outer.ID, inner.ID, EdgeConstructorCall, nil)

	data, err := g.GetGraphData(context.Background())
	require.NoError(t, err)

	var containsSeen, callSeen bool
	for _, e := range data.Edges {
		if e.Source == outer.ID && e.Target == inner.ID {
			if e.Type == string(EdgeContains) {
				containsSeen = true
			}
			if e.Type == string(EdgeConstructorCall) {
				callSeen = true
			}
		}
	}
	assert.True(t, containsSeen)
	assert.False(t, callSeen, "constructor-call edge between parent/child should be suppressed")
}

func TestCache_InvalidatedOnRemoveFile(t *testing.T) {
	g := New()
	table := buildSimpleTable("file:///A.cls", "Foo", "bar")
	require.NoError(t, g.AddSymbolsFromTable(table))

	results := g.LookupSymbolByName("Foo")
	require.Len(t, results, 1)

	require.NoError(t, g.RemoveFile("file:///A.cls"))
	assert.Empty(t, g.LookupSymbolByName("Foo"))
}

func TestEvictLRU_KeepsIndexesConsistent(t *testing.T) {
	g := NewWithCapacity(2)
	f := symbol.NewFactory()

	first := f.Minimal(symbol.KindClass, "First", loc(1, 1), "file:///First.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(first, "file:///First.cls", nil))
	second := f.Minimal(symbol.KindClass, "Second", loc(1, 1), "file:///Second.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(second, "file:///Second.cls", nil))
	g.AddEdge(second.ID, first.ID, EdgeClassReference, nil)

	// Exceeds capacity: First (the LRU entry) is evicted to make room.
	third := f.Minimal(symbol.KindClass, "Third", loc(1, 1), "file:///Third.cls", nil, []string{"File"})
	require.NoError(t, g.AddSymbol(third, "file:///Third.cls", nil))

	_, ok := g.GetSymbol(first.ID)
	assert.False(t, ok, "evicted symbol must be gone from the symbol table")
	assert.Empty(t, g.LookupSymbolByName("First"), "evicted symbol must not remain in nameIdx")
	assert.NotContains(t, g.FileURIs(), "file:///First.cls", "evicted symbol's file must drop out of fileIdx")
	assert.Empty(t, g.SymbolsInFile("file:///First.cls"))
	assert.Empty(t, g.FindReferencesFrom(second.ID), "edge touching the evicted symbol must be dropped from inIdx/outIdx")

	second2, ok := g.GetSymbol(second.ID)
	require.True(t, ok)
	assert.Equal(t, second.ID, second2.ID)
}
