package binformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := NewHeader()
	h.Flags = 0x1
	h.StringTableOffset = HeaderSize
	h.StringTableSize = 128
	h.SymbolTableOffset = HeaderSize + 128
	h.SymbolTableSize = 256
	h.TypeRegistryOffset = HeaderSize + 128 + 256
	h.TypeRegistrySize = 64
	h.SymbolCount = 42
	h.TypeRegistryCount = 7
	h.Checksum = ComputeChecksum([]byte("payload"))

	var buf bytes.Buffer
	n, err := h.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize), n)
	assert.Equal(t, HeaderSize, buf.Len())

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, h.Magic, got.Magic)
	assert.Equal(t, Flag(0x1), got.Flags)
	assert.Equal(t, uint16(1), got.MajorVersion())
	assert.Equal(t, h.SymbolCount, got.SymbolCount)
	assert.Equal(t, h.Checksum, got.Checksum)
}

func TestReadHeader_RejectsBadMagic(t *testing.T) {
	h := NewHeader()
	h.Magic = 0xDEADBEEF
	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadHeader(&buf)
	assert.ErrorContains(t, err, "bad magic")
}

func TestReadHeader_RejectsUnsupportedMajorVersion(t *testing.T) {
	h := NewHeader()
	h.Version = packVersion(CurrentMajorVersion+1, 0)
	var buf bytes.Buffer
	_, err := h.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadHeader(&buf)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestComputeChecksum_Deterministic(t *testing.T) {
	a := ComputeChecksum([]byte("hello"))
	b := ComputeChecksum([]byte("hello"))
	c := ComputeChecksum([]byte("hello!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
