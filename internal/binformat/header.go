package binformat

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
)

// Magic is the little-endian u32 for the ASCII bytes "APEX", per spec.md §4.1.
const Magic uint32 = 0x58455041

// CurrentMajorVersion and CurrentMinorVersion are the version this package
// writes. Major-version
// bumps require a layout change; minor versions may only append optional
// sections referenced from the Reserved header slots (spec.md §6).
const (
	CurrentMajorVersion uint16 = 1
	CurrentMinorVersion uint16 = 0
)

func packVersion(major, minor uint16) uint32 {
	return uint32(major)<<16 | uint32(minor)
}

func unpackVersion(v uint32) (major, minor uint16) {
	return uint16(v >> 16), uint16(v & 0xFFFF)
}

// Flag is a bit in the header's flags field.
type Flag uint32

// HeaderSize is the on-disk size of a Header, in bytes. spec.md §4.1 nominally
// calls this "64 bytes" but the enumerated field list (magic, version, flags,
// three (offset,size) pairs, two counts, a checksum) sums to 76 bytes before
// any reserved padding; this implementation takes that field list as
// authoritative and pads to the next 8-byte boundary, documented as an Open
// Question resolution in DESIGN.md rather than silently shrinking a field.
const HeaderSize = 80

// Header is the fixed-size preamble of a stdlib binary cache file.
type Header struct {
	Magic   uint32
	Version uint32 // packed major<<16|minor
	Flags   Flag

	StringTableOffset uint64
	StringTableSize   uint64

	SymbolTableOffset uint64
	SymbolTableSize   uint64

	TypeRegistryOffset uint64
	TypeRegistrySize   uint64

	SymbolCount       uint32
	TypeRegistryCount uint32

	Checksum uint64

	reserved [4]byte // pads the record to HeaderSize
}

// MajorVersion and MinorVersion unpack Header.Version.
func (h *Header) MajorVersion() uint16 { maj, _ := unpackVersion(h.Version); return maj }
func (h *Header) MinorVersion() uint16 { _, min := unpackVersion(h.Version); return min }

// NewHeader builds a Header stamped with the current format version.
func NewHeader() *Header {
	return &Header{
		Magic:   Magic,
		Version: packVersion(CurrentMajorVersion, CurrentMinorVersion),
	}
}

// WriteTo serializes the header in the exact field order spec.md §4.1 lists.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	fields := []any{
		h.Magic, h.Version, uint32(h.Flags),
		h.StringTableOffset, h.StringTableSize,
		h.SymbolTableOffset, h.SymbolTableSize,
		h.TypeRegistryOffset, h.TypeRegistrySize,
		h.SymbolCount, h.TypeRegistryCount,
		h.Checksum,
	}
	var n int64
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return n, fmt.Errorf("binformat: write header field: %w", err)
		}
		n += int64(binary.Size(f))
	}
	pad := HeaderSize - n
	if pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return n, fmt.Errorf("binformat: write header padding: %w", err)
		}
		n += pad
	}
	return n, nil
}

// ReadHeader decodes and validates a Header: wrong magic or an unsupported
// major version fail fast with a descriptive error (spec.md §4.1, §7).
func ReadHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	fields := []any{
		&h.Magic, &h.Version, new(uint32),
		&h.StringTableOffset, &h.StringTableSize,
		&h.SymbolTableOffset, &h.SymbolTableSize,
		&h.TypeRegistryOffset, &h.TypeRegistrySize,
		&h.SymbolCount, &h.TypeRegistryCount,
		&h.Checksum,
	}
	var read int64
	for i, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("binformat: read header field %d: %w", i, err)
		}
		read += int64(binary.Size(f))
	}
	h.Flags = Flag(*(fields[2].(*uint32)))
	pad := HeaderSize - read
	if pad > 0 {
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return nil, fmt.Errorf("binformat: read header padding: %w", err)
		}
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("binformat: bad magic 0x%08X, expected 0x%08X", h.Magic, Magic)
	}
	if h.MajorVersion() != CurrentMajorVersion {
		return nil, fmt.Errorf("binformat: unsupported version %d.%d, this build reads major version %d", h.MajorVersion(), h.MinorVersion(), CurrentMajorVersion)
	}
	return h, nil
}

// ComputeChecksum returns the FNV-1a 64-bit digest of data, per spec.md
// §4.1's "Checksum is FNV-1a 64-bit over all bytes after the header".
func ComputeChecksum(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
