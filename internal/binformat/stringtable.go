// Package binformat implements the versioned, checksummed binary layout
// spec.md §4.1 defines: a string-interning table, a fixed 80-byte header,
// and fixed-width symbol / type-registry records. internal/stdlibcache
// is the only consumer; this package knows nothing about SymbolTable or
// SymbolGraph, only about bytes.
package binformat

import (
	"encoding/binary"
	"fmt"
	"io"
)

// StringTableBuilder interns strings for compact storage. Index 0 is always
// the empty string and also stands in for null/undefined inputs, per
// spec.md §4.1/§3. Interning is stable-ordered by first insertion.
type StringTableBuilder struct {
	strings []string
	index   map[string]uint32
}

// NewStringTableBuilder returns a builder with index 0 pre-seeded to "".
func NewStringTableBuilder() *StringTableBuilder {
	b := &StringTableBuilder{index: make(map[string]uint32)}
	b.strings = append(b.strings, "")
	b.index[""] = 0
	return b
}

// Intern returns the stable index for s, assigning a new one on first sight.
func (b *StringTableBuilder) Intern(s string) uint32 {
	if idx, ok := b.index[s]; ok {
		return idx
	}
	idx := uint32(len(b.strings))
	b.strings = append(b.strings, s)
	b.index[s] = idx
	return idx
}

// InternOptional interns *s, or returns 0 (the empty string slot) if s is nil.
func (b *StringTableBuilder) InternOptional(s *string) uint32 {
	if s == nil {
		return 0
	}
	return b.Intern(*s)
}

// Len returns the number of distinct interned strings, including the empty
// string at index 0.
func (b *StringTableBuilder) Len() int { return len(b.strings) }

// WriteTo serializes the table as count:u32 followed by length-prefixed UTF-8
// entries, per spec.md §4.1.
func (b *StringTableBuilder) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.strings))); err != nil {
		return n, fmt.Errorf("binformat: write string count: %w", err)
	}
	n += 4
	for _, s := range b.strings {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
			return n, fmt.Errorf("binformat: write string length: %w", err)
		}
		n += 4
		written, err := io.WriteString(w, s)
		if err != nil {
			return n, fmt.Errorf("binformat: write string bytes: %w", err)
		}
		n += int64(written)
	}
	return n, nil
}

// StringTableReader provides random-access index -> string lookups over a
// previously-serialized table.
type StringTableReader struct {
	entries []string
}

// ErrIndexOutOfRange is returned by Get for an index beyond the table.
var ErrIndexOutOfRange = fmt.Errorf("binformat: string index out of range")

// ReadStringTable decodes a table written by StringTableBuilder.WriteTo.
func ReadStringTable(r io.Reader) (*StringTableReader, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("binformat: read string count: %w", err)
	}
	entries := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("binformat: read string length at entry %d: %w", i, err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("binformat: read string bytes at entry %d: %w", i, err)
		}
		entries = append(entries, string(buf))
	}
	return &StringTableReader{entries: entries}, nil
}

// Get resolves an interned index back to its string. Index 0 always yields "".
func (r *StringTableReader) Get(idx uint32) (string, error) {
	if int(idx) >= len(r.entries) {
		return "", fmt.Errorf("%w: %d (table has %d entries)", ErrIndexOutOfRange, idx, len(r.entries))
	}
	return r.entries[idx], nil
}

// GetOptional resolves idx to a *string, returning nil for index 0 (the
// reserved "absent" slot).
func (r *StringTableReader) GetOptional(idx uint32) (*string, error) {
	if idx == 0 {
		return nil, nil
	}
	s, err := r.Get(idx)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Len returns the number of entries, including the empty string at index 0.
func (r *StringTableReader) Len() int { return len(r.entries) }
