package stdlibcache

import (
	"bytes"
	"testing"
	"time"

	"github.com/apexls/core/internal/binformat"
	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(startLine int) symbol.Location {
	r := symbol.Range{Start: symbol.Position{Line: startLine, Column: 0}, End: symbol.Position{Line: startLine + 4, Column: 0}}
	return symbol.Location{SymbolRange: r, IdentifierRange: r}
}

// buildTestClassGraph is spec.md §8 scenario 5: one class TestClass
// (public, builtIn).
func buildTestClassGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	f := symbol.NewFactory()
	cls := f.Full(symbol.KindClass, "TestClass", loc(1), "stdlib:///System/TestClass.cls", nil, []string{"File"}, symbol.FullParams{
		Modifiers: symbol.Modifiers{Visibility: symbol.VisibilityPublic},
		Namespace: strPtr("system"),
	})
	require.NoError(t, g.AddSymbol(cls, cls.FileURI, nil))
	return g
}

func strPtr(s string) *string { return &s }

func TestSerializeDeserialize_RoundTripsOneClass(t *testing.T) {
	g := buildTestClassGraph(t)
	meta := NewMetadata("test-suite", "deadbeef", 1, time.Unix(0, 0).UTC())

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, g, meta))

	snap, err := Deserialize(&buf, meta)
	require.NoError(t, err)

	require.Len(t, snap.SymbolTables, 1)
	table, ok := snap.SymbolTables["stdlib:///System/TestClass.cls"]
	require.True(t, ok)
	require.Len(t, table.Symbols, 1)

	sym := table.Symbols[0]
	assert.Equal(t, "TestClass", sym.Name)
	assert.Equal(t, symbol.KindClass, sym.Kind)
	assert.Equal(t, 1, sym.Location.SymbolRange.Start.Line)

	fqn := sym.FQN(table.Resolver())
	fqnID, ok := snap.FQNIndex[fqn]
	require.True(t, ok)
	assert.Equal(t, sym.ID, fqnID)

	nameIDs, ok := snap.NameIndex["testclass"]
	require.True(t, ok)
	assert.Contains(t, nameIDs, fqnID)

	assert.ElementsMatch(t, []string{sym.ID}, snap.FileIndex["stdlib:///System/TestClass.cls"])
}

func TestDeserialize_RejectsCorruptedChecksum(t *testing.T) {
	g := buildTestClassGraph(t)
	meta := NewMetadata("test-suite", "deadbeef", 1, time.Unix(0, 0).UTC())

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, g, meta))

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := Deserialize(bytes.NewReader(corrupted), meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestManifest_RoundTrips(t *testing.T) {
	meta := NewMetadata("test-suite", "deadbeef", 42, time.Unix(1700000000, 0).UTC())

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, meta))

	got, err := ReadManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, meta.BuildID, got.BuildID)
	assert.Equal(t, meta.SourceCommit, got.SourceCommit)
	assert.Equal(t, meta.SymbolCount, got.SymbolCount)
	assert.True(t, meta.BuiltAt.Equal(got.BuiltAt))
}

func TestFileTable_EncodeDecodeRoundTrips(t *testing.T) {
	strTable := binformat.NewStringTableBuilder()
	entries := []binformat.FileTableEntry{
		{FileURI: "file:///A.cls", SymbolCount: 3, SymbolOffset: 0},
		{FileURI: "file:///B.cls", SymbolCount: 2, SymbolOffset: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, binformat.EncodeFileTable(&buf, entries, strTable))

	var strBuf bytes.Buffer
	_, err := strTable.WriteTo(&strBuf)
	require.NoError(t, err)
	reader, err := binformat.ReadStringTable(bytes.NewReader(strBuf.Bytes()))
	require.NoError(t, err)

	got, err := binformat.DecodeFileTable(bytes.NewReader(buf.Bytes()), reader)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
