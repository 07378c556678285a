package binformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexls/core/internal/symbol"
)

func roundTripSymbol(t *testing.T, sym *symbol.Symbol, fqn string) *DecodedSymbol {
	t.Helper()
	st := NewStringTableBuilder()
	ext := NewExtendedDataBuilder()

	var buf bytes.Buffer
	require.NoError(t, EncodeSymbolRecord(&buf, sym, fqn, st, ext))
	assert.Equal(t, SymbolRecordSize, buf.Len())

	var strBuf bytes.Buffer
	_, err := st.WriteTo(&strBuf)
	require.NoError(t, err)
	strReader, err := ReadStringTable(&strBuf)
	require.NoError(t, err)

	extReader := NewExtendedDataReader(ext.Bytes())

	decoded, err := DecodeSymbolRecord(&buf, strReader, extReader)
	require.NoError(t, err)
	return decoded
}

func TestSymbolRecord_RoundTripClass(t *testing.T) {
	parentID := "parent-1"
	super := "BaseClass"
	sym := &symbol.Symbol{
		ID:       "class-1",
		Name:     "MyClass",
		Kind:     symbol.KindClass,
		FileURI:  "file:///A.cls",
		ParentID: &parentID,
		Location: symbol.Location{
			SymbolRange:     symbol.Range{Start: symbol.Position{Line: 1, Column: 0}, End: symbol.Position{Line: 10, Column: 1}},
			IdentifierRange: symbol.Range{Start: symbol.Position{Line: 1, Column: 13}, End: symbol.Position{Line: 1, Column: 20}},
		},
		Modifiers:  symbol.Modifiers{Visibility: symbol.VisibilityPublic, Flags: symbol.FlagVirtual},
		SuperClass: &super,
		Interfaces: []string{"Comparable", "Iterable"},
		Annotations: []symbol.Annotation{
			{Name: "IsTest", Parameters: []symbol.AnnotationParameter{{Value: "true"}}},
		},
	}

	decoded := roundTripSymbol(t, sym, "MyClass")
	assert.Equal(t, sym.ID, decoded.Symbol.ID)
	assert.Equal(t, "MyClass", decoded.FQN)
	assert.Equal(t, sym.Kind, decoded.Symbol.Kind)
	assert.Equal(t, *sym.ParentID, *decoded.Symbol.ParentID)
	require.NotNil(t, decoded.Symbol.SuperClass)
	assert.Equal(t, super, *decoded.Symbol.SuperClass)
	assert.Equal(t, sym.Interfaces, decoded.Symbol.Interfaces)
	require.Len(t, decoded.Symbol.Annotations, 1)
	assert.Equal(t, "IsTest", decoded.Symbol.Annotations[0].Name)
	assert.Equal(t, sym.Location, decoded.Symbol.Location)
	assert.Equal(t, sym.Modifiers, decoded.Symbol.Modifiers)
}

func TestSymbolRecord_RoundTripEnumWithValues(t *testing.T) {
	sym := &symbol.Symbol{
		ID:      "enum-1",
		Name:    "Status",
		Kind:    symbol.KindEnum,
		FileURI: "file:///S.cls",
		Values: []symbol.EnumValue{
			{Name: "ACTIVE"},
			{Name: "CLOSED"},
		},
	}
	decoded := roundTripSymbol(t, sym, "Status")
	require.Len(t, decoded.Symbol.Values, 2)
	assert.Equal(t, "ACTIVE", decoded.Symbol.Values[0].Name)
	assert.Equal(t, "CLOSED", decoded.Symbol.Values[1].Name)
}

func TestSymbolRecord_RoundTripMethod(t *testing.T) {
	parentID := "class-1"
	retType := symbol.NewTypeInfo("List<Integer>")
	sym := &symbol.Symbol{
		ID:         "method-1",
		Name:       "doWork",
		Kind:       symbol.KindMethod,
		FileURI:    "file:///A.cls",
		ParentID:   &parentID,
		ReturnType: &retType,
		Parameters: []symbol.Parameter{
			{Name: "count", Type: symbol.NewTypeInfo("Integer")},
			{Name: "labels", Type: symbol.NewTypeInfo("Set<String>")},
		},
		HasBody: true,
	}
	decoded := roundTripSymbol(t, sym, "MyClass.doWork")
	require.NotNil(t, decoded.Symbol.ReturnType)
	assert.Equal(t, "List<Integer>", decoded.Symbol.ReturnType.OriginalTypeString)
	assert.True(t, decoded.Symbol.ReturnType.IsCollection)
	require.Len(t, decoded.Symbol.Parameters, 2)
	assert.Equal(t, "count", decoded.Symbol.Parameters[0].Name)
	assert.True(t, decoded.Symbol.Parameters[1].Type.IsCollection)
	assert.True(t, decoded.Symbol.HasBody)
	assert.False(t, decoded.Symbol.IsConstructor)
}

func TestSymbolRecord_RoundTripConstructorNoReturnType(t *testing.T) {
	sym := &symbol.Symbol{
		ID:            "ctor-1",
		Name:          "MyClass",
		Kind:          symbol.KindConstructor,
		FileURI:       "file:///A.cls",
		IsConstructor: true,
		HasBody:       true,
	}
	decoded := roundTripSymbol(t, sym, "MyClass.MyClass")
	assert.True(t, decoded.Symbol.IsConstructor)
	assert.Nil(t, decoded.Symbol.ReturnType)
	assert.Empty(t, decoded.Symbol.Parameters)
}

func TestSymbolRecord_RoundTripField(t *testing.T) {
	ft := symbol.NewTypeInfo("String")
	initVal := "'default'"
	sym := &symbol.Symbol{
		ID:           "field-1",
		Name:         "label",
		Kind:         symbol.KindField,
		FileURI:      "file:///A.cls",
		Type:         &ft,
		InitialValue: &initVal,
	}
	decoded := roundTripSymbol(t, sym, "MyClass.label")
	require.NotNil(t, decoded.Symbol.Type)
	assert.Equal(t, "String", decoded.Symbol.Type.Name)
	require.NotNil(t, decoded.Symbol.InitialValue)
	assert.Equal(t, initVal, *decoded.Symbol.InitialValue)
}

func TestSymbolRecord_RoundTripBlockHasNoExtendedData(t *testing.T) {
	parentID := "method-1"
	sym := &symbol.Symbol{
		ID:        "block-1",
		Name:      "block0",
		Kind:      symbol.KindBlock,
		FileURI:   "file:///A.cls",
		ParentID:  &parentID,
		ScopeType: symbol.ScopeBlock,
	}
	decoded := roundTripSymbol(t, sym, "")
	assert.Equal(t, symbol.ScopeBlock, decoded.Symbol.ScopeType)
	assert.Empty(t, decoded.Symbol.Annotations)
}

func TestTypeRegistryRecord_RoundTrip(t *testing.T) {
	st := NewStringTableBuilder()
	ns := "acme"
	entry := TypeRegistryEntry{
		FQN:       "acme.Widget",
		Name:      "Widget",
		Namespace: &ns,
		Kind:      symbol.KindClass,
		SymbolID:  "class-1",
		FileURI:   "file:///Widget.cls",
		IsStdlib:  false,
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeTypeRegistryRecord(&buf, entry, st))
	assert.Equal(t, TypeRegistryRecordSize, buf.Len())

	var strBuf bytes.Buffer
	_, err := st.WriteTo(&strBuf)
	require.NoError(t, err)
	strReader, err := ReadStringTable(&strBuf)
	require.NoError(t, err)

	decoded, err := DecodeTypeRegistryRecord(&buf, strReader)
	require.NoError(t, err)
	assert.Equal(t, entry.FQN, decoded.FQN)
	assert.Equal(t, entry.Name, decoded.Name)
	require.NotNil(t, decoded.Namespace)
	assert.Equal(t, ns, *decoded.Namespace)
	assert.Equal(t, entry.Kind, decoded.Kind)
	assert.False(t, decoded.IsStdlib)
}
