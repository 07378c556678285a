package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind_RoundTripsString(t *testing.T) {
	kinds := []Kind{
		KindClass, KindInterface, KindEnum, KindTrigger, KindMethod,
		KindConstructor, KindField, KindProperty, KindVariable,
		KindParameter, KindEnumValue, KindBlock,
	}
	for _, k := range kinds {
		got, ok := ParseKind(k.String())
		require.True(t, ok, "ParseKind(%q) not found", k.String())
		require.Equal(t, k, got)
	}
}

func TestParseKind_UnknownName(t *testing.T) {
	_, ok := ParseKind("NotAKind")
	require.False(t, ok)
}
