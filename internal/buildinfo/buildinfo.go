// Package buildinfo holds the engine's own version identity: the string
// stamped into every C6 snapshot's Generator field and printed by
// `apexls --version`.
package buildinfo

// These are overridden at build time via -ldflags, e.g.
// -X github.com/apexls/core/internal/buildinfo.GitCommit=$(git rev-parse HEAD).
var (
	// Version is the engine's semantic version.
	Version = "0.1.0-dev"

	// GitCommit is the commit this binary was built from.
	GitCommit = "unknown"

	// BuildDate is when this binary was built.
	BuildDate = "unknown"
)

// Generator is the identifier stdlibcache.Serialize stamps into a
// snapshot's Metadata.Generator field.
func Generator() string {
	return "apexls " + Version + " (" + GitCommit + ")"
}

// String returns a one-line human-readable build identity for `apexls
// --version` and startup log lines.
func String() string {
	return "apexls " + Version + " (commit " + GitCommit + ", built " + BuildDate + ")"
}
