// Package stdlibcache implements C6: serializing a fully-collected stdlib
// symbol graph to a single versioned binary file plus a human-readable
// manifest sidecar, and hydrating it back on a cold start without
// re-running the collector. See spec.md §4.6.
package stdlibcache

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/apexls/core/internal/binformat"
	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/metrics"
	"github.com/apexls/core/internal/symbol"
	"github.com/google/uuid"
)

// Metadata is stamped alongside a snapshot, outside the binary payload, so
// an operator can inspect a cache file's provenance without a binary
// reader (spec.md §4.6 Expansion).
type Metadata struct {
	BuildID      string    `toml:"build_id"`
	BuiltAt      time.Time `toml:"built_at"`
	SourceCommit string    `toml:"source_commit"`
	Generator    string    `toml:"generator"`
	SymbolCount  int       `toml:"symbol_count"`
}

// NewMetadata stamps a fresh BuildID and BuiltAt for a snapshot about to be
// written, attributing it to generator/sourceCommit.
func NewMetadata(generator, sourceCommit string, symbolCount int, builtAt time.Time) Metadata {
	return Metadata{
		BuildID:      uuid.NewString(),
		BuiltAt:      builtAt,
		SourceCommit: sourceCommit,
		Generator:    generator,
		SymbolCount:  symbolCount,
	}
}

// Snapshot is the hydrated result of Deserialize: everything the engine
// needs to resume work against a precompiled stdlib without re-parsing it,
// per spec.md §4.6 step 7's exact return shape.
type Snapshot struct {
	SymbolTables       map[string]*symbol.Table
	TypeRegistryEntries []binformat.TypeRegistryEntry
	FQNIndex           map[string]string
	NameIndex          map[string][]string
	FileIndex          map[string][]string
	LoadTimeMs         int64
	Metadata           Metadata
}

// Serialize writes g's full contents (every symbol in every indexed file,
// plus a type registry of every Class/Interface/Enum/Trigger) to w in the
// exact section order spec.md §4.6 specifies: intern strings, build the
// symbol section (file table, then symbol records), build the type
// registry, assemble the header, checksum the body.
func Serialize(w io.Writer, g *graph.Graph, meta Metadata) error {
	strTable := binformat.NewStringTableBuilder()
	ext := binformat.NewExtendedDataBuilder()

	files := g.FileURIs()
	fileEntries := make([]binformat.FileTableEntry, 0, len(files))

	var symbolRecords bytes.Buffer
	symOffset := uint32(0)
	resolver := func(id string) (*symbol.Symbol, bool) { return g.GetSymbol(id) }

	for _, fileURI := range files {
		syms := g.SymbolsInFile(fileURI)
		fileEntries = append(fileEntries, binformat.FileTableEntry{
			FileURI:      fileURI,
			SymbolCount:  uint32(len(syms)),
			SymbolOffset: symOffset,
		})
		symOffset += uint32(len(syms))
		for _, sym := range syms {
			fqn := sym.FQN(resolver)
			if err := binformat.EncodeSymbolRecord(&symbolRecords, sym, fqn, strTable, ext); err != nil {
				return fmt.Errorf("stdlibcache: encode symbol %q: %w", sym.ID, err)
			}
		}
	}

	var symbolSection bytes.Buffer
	if err := binformat.EncodeFileTable(&symbolSection, fileEntries, strTable); err != nil {
		return fmt.Errorf("stdlibcache: encode file table: %w", err)
	}
	if _, err := symbolSection.Write(symbolRecords.Bytes()); err != nil {
		return fmt.Errorf("stdlibcache: write symbol records: %w", err)
	}
	if _, err := symbolSection.Write(ext.Bytes()); err != nil {
		return fmt.Errorf("stdlibcache: write extended data: %w", err)
	}

	registry := typeRegistryEntries(g, resolver)
	var registrySection bytes.Buffer
	for _, e := range registry {
		if err := binformat.EncodeTypeRegistryRecord(&registrySection, e, strTable); err != nil {
			return fmt.Errorf("stdlibcache: encode type registry entry %q: %w", e.FQN, err)
		}
	}

	var stringSection bytes.Buffer
	if _, err := strTable.WriteTo(&stringSection); err != nil {
		return fmt.Errorf("stdlibcache: write string table: %w", err)
	}

	header := binformat.NewHeader()
	header.StringTableOffset = binformat.HeaderSize
	header.StringTableSize = uint64(stringSection.Len())
	header.SymbolTableOffset = header.StringTableOffset + header.StringTableSize
	header.SymbolTableSize = uint64(symbolSection.Len())
	header.TypeRegistryOffset = header.SymbolTableOffset + header.SymbolTableSize
	header.TypeRegistrySize = uint64(registrySection.Len())
	header.SymbolCount = uint32(countSymbols(fileEntries))
	header.TypeRegistryCount = uint32(len(registry))

	var body bytes.Buffer
	body.Write(stringSection.Bytes())
	body.Write(symbolSection.Bytes())
	body.Write(registrySection.Bytes())
	header.Checksum = binformat.ComputeChecksum(body.Bytes())

	if _, err := header.WriteTo(w); err != nil {
		return fmt.Errorf("stdlibcache: write header: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("stdlibcache: write body: %w", err)
	}
	return nil
}

func countSymbols(entries []binformat.FileTableEntry) int {
	total := 0
	for _, e := range entries {
		total += int(e.SymbolCount)
	}
	return total
}

// typeRegistryEntries builds one registry row per type-kind symbol reachable
// from g's fqn index, sorted by FQN for deterministic output.
func typeRegistryEntries(g *graph.Graph, resolver symbol.ParentResolver) []binformat.TypeRegistryEntry {
	fqnIdx := g.FQNIndex()
	fqns := make([]string, 0, len(fqnIdx))
	for fqn := range fqnIdx {
		fqns = append(fqns, fqn)
	}
	sort.Strings(fqns)

	var out []binformat.TypeRegistryEntry
	for _, fqn := range fqns {
		id := fqnIdx[fqn]
		sym, ok := g.GetSymbol(id)
		if !ok || !isTypeKind(sym.Kind) {
			continue
		}
		out = append(out, binformat.TypeRegistryEntry{
			FQN:       fqn,
			Name:      sym.Name,
			Namespace: sym.Namespace,
			Kind:      sym.Kind,
			SymbolID:  sym.ID,
			FileURI:   sym.FileURI,
			IsStdlib:  true,
		})
	}
	return out
}

func isTypeKind(k symbol.Kind) bool {
	switch k {
	case symbol.KindClass, symbol.KindInterface, symbol.KindEnum, symbol.KindTrigger:
		return true
	default:
		return false
	}
}

// Deserialize rehydrates a Snapshot from r in the exact order spec.md §4.6
// specifies: header, string table, checksum verification, per-file symbol
// and extended records (with parent reassembly and direct-assignment
// hydration), then the type registry and its rebuilt indexes.
func Deserialize(r io.Reader, meta Metadata) (*Snapshot, error) {
	start := time.Now()

	header, err := binformat.ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("stdlibcache: %w", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stdlibcache: read body: %w", err)
	}
	if got := binformat.ComputeChecksum(body); got != header.Checksum {
		return nil, fmt.Errorf("stdlibcache: checksum mismatch: header says 0x%016x, computed 0x%016x", header.Checksum, got)
	}

	stringBytes := body[:header.StringTableSize]
	symbolBytes := body[header.StringTableSize : header.StringTableSize+header.SymbolTableSize]
	registryBytes := body[header.StringTableSize+header.SymbolTableSize:]

	strTable, err := binformat.ReadStringTable(bytes.NewReader(stringBytes))
	if err != nil {
		return nil, fmt.Errorf("stdlibcache: %w", err)
	}

	symbolReader := bytes.NewReader(symbolBytes)
	fileEntries, err := binformat.DecodeFileTable(symbolReader, strTable)
	if err != nil {
		return nil, fmt.Errorf("stdlibcache: %w", err)
	}

	// Symbol records are fixed-width, so the extended-data area's start is
	// computable without reading through it: it begins right after
	// header.SymbolCount records of binformat.SymbolRecordSize bytes each,
	// counted from the current reader position (just past the file table).
	fileTableEnd := int64(len(symbolBytes)) - int64(symbolReader.Len())
	extAreaStart := fileTableEnd + int64(header.SymbolCount)*int64(binformat.SymbolRecordSize)
	ext := binformat.NewExtendedDataReader(symbolBytes[extAreaStart:])

	allDecoded := make([]*binformat.DecodedSymbol, 0, header.SymbolCount)
	for i := uint32(0); i < header.SymbolCount; i++ {
		dec, err := binformat.DecodeSymbolRecord(symbolReader, strTable, ext)
		if err != nil {
			return nil, fmt.Errorf("stdlibcache: decode symbol record %d: %w", i, err)
		}
		allDecoded = append(allDecoded, dec)
	}

	byID := make(map[string]*symbol.Symbol, len(allDecoded))
	for _, dec := range allDecoded {
		byID[dec.Symbol.ID] = dec.Symbol
	}

	tables := make(map[string]*symbol.Table, len(fileEntries))
	for _, fe := range fileEntries {
		syms := make([]*symbol.Symbol, 0, fe.SymbolCount)
		var root *symbol.Symbol
		for i := fe.SymbolOffset; i < fe.SymbolOffset+fe.SymbolCount; i++ {
			sym := allDecoded[i].Symbol
			syms = append(syms, sym)
			if sym.ParentID == nil && root == nil && sym.Kind != symbol.KindBlock {
				root = sym
			}
		}
		table := symbol.NewTable(fe.FileURI)
		table.Hydrate(syms, root)
		tables[fe.FileURI] = table
	}

	registryReader := bytes.NewReader(registryBytes)
	entries := make([]binformat.TypeRegistryEntry, 0, header.TypeRegistryCount)
	for i := uint32(0); i < header.TypeRegistryCount; i++ {
		e, err := binformat.DecodeTypeRegistryRecord(registryReader, strTable)
		if err != nil {
			return nil, fmt.Errorf("stdlibcache: decode type registry entry %d: %w", i, err)
		}
		entries = append(entries, *e)
	}

	fqnIndex := make(map[string]string, len(entries))
	nameIndex := make(map[string][]string, len(entries))
	fileIndex := make(map[string][]string, len(fileEntries))
	for _, e := range entries {
		fqnIndex[e.FQN] = e.SymbolID
		key := strings.ToLower(e.Name)
		nameIndex[key] = append(nameIndex[key], e.SymbolID)
	}
	for _, fe := range fileEntries {
		for _, s := range tables[fe.FileURI].Symbols {
			fileIndex[fe.FileURI] = append(fileIndex[fe.FileURI], s.ID)
		}
	}

	elapsed := time.Since(start)
	metrics.CacheLoadDuration.Observe(elapsed.Seconds())

	return &Snapshot{
		SymbolTables:        tables,
		TypeRegistryEntries: entries,
		FQNIndex:            fqnIndex,
		NameIndex:           nameIndex,
		FileIndex:           fileIndex,
		LoadTimeMs:          elapsed.Milliseconds(),
		Metadata:            meta,
	}, nil
}
