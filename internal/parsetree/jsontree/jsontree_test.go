package jsontree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_RootAndChildren(t *testing.T) {
	src := `{
		"kind": "ClassDeclaration",
		"text": "class Foo {}",
		"start": {"line": 1, "column": 0},
		"end": {"line": 1, "column": 12},
		"children": [
			{
				"kind": "Identifier",
				"text": "Foo",
				"start": {"line": 1, "column": 6},
				"end": {"line": 1, "column": 9}
			}
		]
	}`

	root, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "ClassDeclaration", root.Kind())
	require.Equal(t, 1, root.ChildCount())
	require.Equal(t, "class Foo {}", root.Text(nil))
	require.Equal(t, 0, root.StartPoint().Column)
	require.Equal(t, 12, root.EndPoint().Column)

	child := root.Child(0)
	require.NotNil(t, child)
	require.Equal(t, "Identifier", child.Kind())
	require.Equal(t, "Foo", child.Text([]byte("ignored, wireNode carries its own text")))
	require.Equal(t, 0, child.ChildCount())
	require.Nil(t, child.Child(0))
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("not json"))
	require.Error(t, err)
}
