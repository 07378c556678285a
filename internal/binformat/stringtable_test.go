package binformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringTable_RoundTrip(t *testing.T) {
	b := NewStringTableBuilder()
	idxFoo := b.Intern("foo")
	idxBar := b.Intern("bar")
	idxFooAgain := b.Intern("foo")
	assert.Equal(t, idxFoo, idxFooAgain, "interning the same string twice must reuse the index")
	assert.NotEqual(t, idxFoo, idxBar)

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)

	reader, err := ReadStringTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.Len(), reader.Len())

	foo, err := reader.Get(idxFoo)
	require.NoError(t, err)
	assert.Equal(t, "foo", foo)

	empty, err := reader.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestStringTable_OptionalRoundTrip(t *testing.T) {
	b := NewStringTableBuilder()
	s := "present"
	idx := b.InternOptional(&s)
	nilIdx := b.InternOptional(nil)
	assert.Equal(t, uint32(0), nilIdx)

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)
	reader, err := ReadStringTable(&buf)
	require.NoError(t, err)

	got, err := reader.GetOptional(idx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, *got)

	gotNil, err := reader.GetOptional(nilIdx)
	require.NoError(t, err)
	assert.Nil(t, gotNil)
}

func TestStringTable_GetOutOfRange(t *testing.T) {
	b := NewStringTableBuilder()
	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)
	reader, err := ReadStringTable(&buf)
	require.NoError(t, err)

	_, err = reader.Get(99)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
