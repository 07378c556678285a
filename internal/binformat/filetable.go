package binformat

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FileTableEntry is one row of the symbol section's file table: which file a
// contiguous run of symbol records belongs to, per spec.md §4.6's
// "file table first, then symbol records" ordering.
type FileTableEntry struct {
	FileURI      string
	SymbolCount  uint32
	SymbolOffset uint32 // index into the symbol-record array, not a byte offset
}

// FileTableEntrySize is the fixed on-disk size of one FileTableEntry: an
// interned-string index (4B) and two u32 counters (8B).
const FileTableEntrySize = 4 + 4 + 4

// EncodeFileTable writes count:u32 followed by entries, each referencing its
// fileURI by interned-string index.
func EncodeFileTable(w io.Writer, entries []FileTableEntry, strings *StringTableBuilder) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return fmt.Errorf("binformat: write file table count: %w", err)
	}
	for _, e := range entries {
		fields := []any{strings.Intern(e.FileURI), e.SymbolCount, e.SymbolOffset}
		for _, f := range fields {
			if err := binary.Write(w, binary.LittleEndian, f); err != nil {
				return fmt.Errorf("binformat: write file table entry: %w", err)
			}
		}
	}
	return nil
}

// DecodeFileTable reads a table written by EncodeFileTable.
func DecodeFileTable(r io.Reader, strings *StringTableReader) ([]FileTableEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("binformat: read file table count: %w", err)
	}
	entries := make([]FileTableEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var uriIdx, symCount, symOffset uint32
		fields := []any{&uriIdx, &symCount, &symOffset}
		for _, f := range fields {
			if err := binary.Read(r, binary.LittleEndian, f); err != nil {
				return nil, fmt.Errorf("binformat: read file table entry %d: %w", i, err)
			}
		}
		uri, err := strings.Get(uriIdx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, FileTableEntry{FileURI: uri, SymbolCount: symCount, SymbolOffset: symOffset})
	}
	return entries, nil
}
