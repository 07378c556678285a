package binformat

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/apexls/core/internal/symbol"
)

// noExtendedData is a sentinel value distinguishing "absent" from a
// legitimate zero-valued extended-data offset.
const noExtendedData uint32 = 0xFFFFFFFF

// SymbolRecordSize is the fixed on-disk size, in bytes, of one symbol record:
// six interned-string indices (24B), a packed kind+visibility byte pair (2B),
// a modifier bitmask (2B), two four-int32 source ranges (32B), a scope-type
// byte (1B), and an (offset,length) pair into the extended-data area (8B).
const SymbolRecordSize = 6*4 + 2 + 2 + 32 + 1 + 8

// EncodeSymbolRecord writes sym's fixed-width record to w, interning every
// string it carries into strings and any kind-specific fields into ext.
func EncodeSymbolRecord(w io.Writer, sym *symbol.Symbol, fqn string, strings *StringTableBuilder, ext *ExtendedDataBuilder) error {
	extBytes := encodeExtendedData(sym, strings)
	extOffset, extLength := noExtendedData, uint32(0)
	if extBytes != nil {
		extOffset, extLength = ext.Append(extBytes)
	}

	fields := []any{
		strings.Intern(sym.ID),
		strings.Intern(sym.Name),
		strings.Intern(sym.FileURI),
		strings.InternOptional(sym.ParentID),
		strings.Intern(fqn),
		strings.InternOptional(sym.Namespace),
		byte(sym.Kind),
		byte(sym.Modifiers.Visibility),
		uint16(sym.Modifiers.Flags),
		int32(sym.Location.SymbolRange.Start.Line), int32(sym.Location.SymbolRange.Start.Column),
		int32(sym.Location.SymbolRange.End.Line), int32(sym.Location.SymbolRange.End.Column),
		int32(sym.Location.IdentifierRange.Start.Line), int32(sym.Location.IdentifierRange.Start.Column),
		int32(sym.Location.IdentifierRange.End.Line), int32(sym.Location.IdentifierRange.End.Column),
		byte(sym.ScopeType),
		extOffset,
		extLength,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("binformat: write symbol record field: %w", err)
		}
	}
	return nil
}

// DecodedSymbol pairs a rehydrated Symbol with its precomputed FQN, since FQN
// would otherwise require re-walking a parent chain that hydration bypasses.
type DecodedSymbol struct {
	Symbol *symbol.Symbol
	FQN    string
}

// DecodeSymbolRecord reads one fixed-width record and its extended-data tail
// (if any), reconstructing a *symbol.Symbol. It does not resolve ParentID
// against any table — the caller reassembles parent links afterward, per
// spec.md §4.6 step 4.
func DecodeSymbolRecord(r io.Reader, strings *StringTableReader, ext *ExtendedDataReader) (*DecodedSymbol, error) {
	var idIdx, nameIdx, fileURIIdx, parentIdIdx, fqnIdx, namespaceIdx uint32
	var kindByte, visByte byte
	var flags uint16
	var sr [4]int32
	var ir [4]int32
	var scopeTypeByte byte
	var extOffset, extLength uint32

	fields := []any{
		&idIdx, &nameIdx, &fileURIIdx, &parentIdIdx, &fqnIdx, &namespaceIdx,
		&kindByte, &visByte, &flags,
		&sr[0], &sr[1], &sr[2], &sr[3],
		&ir[0], &ir[1], &ir[2], &ir[3],
		&scopeTypeByte,
		&extOffset, &extLength,
	}
	for i, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("binformat: read symbol record field %d: %w", i, err)
		}
	}

	id, err := strings.Get(idIdx)
	if err != nil {
		return nil, err
	}
	name, err := strings.Get(nameIdx)
	if err != nil {
		return nil, err
	}
	fileURI, err := strings.Get(fileURIIdx)
	if err != nil {
		return nil, err
	}
	parentID, err := strings.GetOptional(parentIdIdx)
	if err != nil {
		return nil, err
	}
	fqn, err := strings.Get(fqnIdx)
	if err != nil {
		return nil, err
	}
	namespace, err := strings.GetOptional(namespaceIdx)
	if err != nil {
		return nil, err
	}

	sym := &symbol.Symbol{
		ID:        id,
		Name:      name,
		Kind:      symbol.Kind(kindByte),
		FileURI:   fileURI,
		ParentID:  parentID,
		Namespace: namespace,
		Modifiers: symbol.Modifiers{
			Visibility: symbol.Visibility(visByte),
			Flags:      symbol.ModifierFlag(flags),
		},
		Location: symbol.Location{
			SymbolRange: symbol.Range{
				Start: symbol.Position{Line: int(sr[0]), Column: int(sr[1])},
				End:   symbol.Position{Line: int(sr[2]), Column: int(sr[3])},
			},
			IdentifierRange: symbol.Range{
				Start: symbol.Position{Line: int(ir[0]), Column: int(ir[1])},
				End:   symbol.Position{Line: int(ir[2]), Column: int(ir[3])},
			},
		},
		ScopeType: symbol.ScopeType(scopeTypeByte),
	}

	if extOffset != noExtendedData {
		blob, err := ext.Read(extOffset, extLength)
		if err != nil {
			return nil, err
		}
		if err := decodeExtendedData(sym, blob, strings); err != nil {
			return nil, err
		}
	}

	return &DecodedSymbol{Symbol: sym, FQN: fqn}, nil
}

// TypeRegistryRecordSize is the fixed on-disk size, in bytes, of one
// type-registry record: three interned-string indices (12B: fqn, name,
// namespace), a kind byte (1B), a symbol-id index (4B), a file-uri index
// (4B), and an is-stdlib byte (1B).
const TypeRegistryRecordSize = 3*4 + 1 + 4 + 4 + 1

// TypeRegistryEntry mirrors spec.md §3's TypeRegistryEntry.
type TypeRegistryEntry struct {
	FQN       string
	Name      string
	Namespace *string
	Kind      symbol.Kind
	SymbolID  string
	FileURI   string
	IsStdlib  bool
}

// EncodeTypeRegistryRecord writes one fixed-width type-registry record.
func EncodeTypeRegistryRecord(w io.Writer, e TypeRegistryEntry, strings *StringTableBuilder) error {
	isStdlib := byte(0)
	if e.IsStdlib {
		isStdlib = 1
	}
	fields := []any{
		strings.Intern(e.FQN),
		strings.Intern(e.Name),
		strings.InternOptional(e.Namespace),
		byte(e.Kind),
		strings.Intern(e.SymbolID),
		strings.Intern(e.FileURI),
		isStdlib,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("binformat: write type registry record field: %w", err)
		}
	}
	return nil
}

// DecodeTypeRegistryRecord reads one fixed-width type-registry record.
func DecodeTypeRegistryRecord(r io.Reader, strings *StringTableReader) (*TypeRegistryEntry, error) {
	var fqnIdx, nameIdx, namespaceIdx uint32
	var kindByte byte
	var symbolIDIdx, fileURIIdx uint32
	var isStdlibByte byte

	fields := []any{&fqnIdx, &nameIdx, &namespaceIdx, &kindByte, &symbolIDIdx, &fileURIIdx, &isStdlibByte}
	for i, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("binformat: read type registry record field %d: %w", i, err)
		}
	}

	fqn, err := strings.Get(fqnIdx)
	if err != nil {
		return nil, err
	}
	name, err := strings.Get(nameIdx)
	if err != nil {
		return nil, err
	}
	namespace, err := strings.GetOptional(namespaceIdx)
	if err != nil {
		return nil, err
	}
	symbolID, err := strings.Get(symbolIDIdx)
	if err != nil {
		return nil, err
	}
	fileURI, err := strings.Get(fileURIIdx)
	if err != nil {
		return nil, err
	}

	return &TypeRegistryEntry{
		FQN:       fqn,
		Name:      name,
		Namespace: namespace,
		Kind:      symbol.Kind(kindByte),
		SymbolID:  symbolID,
		FileURI:   fileURI,
		IsStdlib:  isStdlibByte != 0,
	}, nil
}
