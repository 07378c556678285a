package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeID_DistinctScopesCollideToDistinctIDs(t *testing.T) {
	idA := ComputeID("file:///A.cls", []string{"File", "m1", "block0"}, KindVariable, "x")
	idB := ComputeID("file:///A.cls", []string{"File", "m2", "block0"}, KindVariable, "x")
	assert.NotEqual(t, idA, idB)

	idRepeat := ComputeID("file:///A.cls", []string{"File", "m1", "block0"}, KindVariable, "x")
	assert.Equal(t, idA, idRepeat, "id generation must be deterministic")
}

func TestFactory_FullAndMinimal(t *testing.T) {
	f := NewFactory()
	loc := Location{
		SymbolRange:     Range{Start: Position{Line: 1, Column: 0}, End: Position{Line: 3, Column: 1}},
		IdentifierRange: Range{Start: Position{Line: 1, Column: 6}, End: Position{Line: 1, Column: 13}},
	}
	cls := f.Minimal(KindClass, "MyClass", loc, "file:///A.cls", nil, []string{"File"})
	require.NotEmpty(t, cls.ID)

	parentID := cls.ID
	m := f.Full(KindMethod, "doWork", loc, "file:///A.cls", &parentID, []string{"File", "MyClass"}, FullParams{
		Modifiers: Modifiers{Visibility: VisibilityPublic, Flags: FlagStatic},
		HasBody:   true,
	})
	assert.True(t, m.Modifiers.Has(FlagStatic))
	assert.False(t, m.Modifiers.Has(FlagAbstract))
}

func TestSymbol_FQN(t *testing.T) {
	table := NewTable("file:///A.cls")
	f := NewFactory()
	loc := Location{}

	outer := f.Minimal(KindClass, "Outer", loc, table.FileURI, nil, []string{"File"})
	require.NoError(t, table.Add(outer))
	table.PushScope(ScopeClass, "Outer")

	inner := f.Minimal(KindClass, "Inner", loc, table.FileURI, &outer.ID, table.ScopePath())
	require.NoError(t, table.Add(inner))
	table.PushScope(ScopeClass, "Inner")

	method := f.Minimal(KindMethod, "method", loc, table.FileURI, &inner.ID, table.ScopePath())
	require.NoError(t, table.Add(method))

	assert.Equal(t, "Outer.Inner.method", table.FQN(method))
	// Second call must hit the cache and return the same value.
	assert.Equal(t, "Outer.Inner.method", table.FQN(method))
}

func TestTable_ParentMustExist(t *testing.T) {
	table := NewTable("file:///A.cls")
	f := NewFactory()
	bogus := "does-not-exist"
	s := f.Minimal(KindVariable, "x", Location{}, table.FileURI, &bogus, []string{"File"})
	err := table.Add(s)
	assert.Error(t, err)
}

func TestTable_UserSymbolsExcludesBlocks(t *testing.T) {
	table := NewTable("file:///A.cls")
	f := NewFactory()
	cls := f.Minimal(KindClass, "C", Location{}, table.FileURI, nil, []string{"File"})
	require.NoError(t, table.Add(cls))
	block := f.Minimal(KindBlock, "block0", Location{}, table.FileURI, &cls.ID, []string{"File", "C"})
	require.NoError(t, table.Add(block))

	user := table.UserSymbols()
	require.Len(t, user, 1)
	assert.Equal(t, "C", user[0].Name)
}

func TestVisibility_WidensFrom(t *testing.T) {
	assert.True(t, VisibilityPublic.WidensFrom(VisibilityPrivate))
	assert.False(t, VisibilityPrivate.WidensFrom(VisibilityPublic))
	assert.False(t, VisibilityPublic.WidensFrom(VisibilityPublic))
}

func TestNewTypeInfo_Primitive(t *testing.T) {
	ti := NewTypeInfo("Integer")
	assert.True(t, ti.IsPrimitive)
	assert.True(t, ti.IsBuiltIn)

	list := NewTypeInfo("List<Integer>")
	assert.True(t, list.IsCollection)
}
