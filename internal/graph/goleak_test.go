package graph

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures none of this package's tests leak goroutines — the
// graph's cache and eviction paths run entirely synchronously under the
// caller's goroutine, so a leak here would mean a bug, not expected
// background work.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
