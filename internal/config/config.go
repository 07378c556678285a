// Package config loads and validates the engine's configuration surface:
// the project root/name, engine resource limits, the validation options
// spec.md §6 allows an operator to tune (tier, artifact loading, API
// version gating), the stdlib cache location, feature flags, and the
// Include/Exclude glob lists that scope which files the engine considers.
package config

import "github.com/apexls/core/internal/validate"

// Project identifies the workspace being indexed.
type Project struct {
	Root string `validate:"required"`
	Name string `validate:"required"`
}

// Engine carries resource limits unrelated to validation, mirroring the
// teacher's Index/Performance sections but trimmed to what this core
// actually needs: how much of a file/tree it will parse and how many
// goroutines the collector may use.
type Engine struct {
	MaxFileSizeBytes int64 `validate:"min=1"`
	MaxFileCount     int   `validate:"min=1"`
	MaxGoroutines    int   `validate:"min=0"`
	FollowSymlinks   bool
}

// Validation exposes exactly the user-tunable subset of spec.md §6's
// configuration surface. maxArtifacts, maxDepth, and the artifact timeout
// are deliberately absent: spec.md requires them fixed, so they stay
// validate.MaxArtifacts/validate.MaxDepth/validate.ArtifactTimeout
// constants rather than config fields.
type Validation struct {
	Tier                            validate.Tier `validate:"oneof=immediate thorough"`
	AllowArtifactLoading            bool
	APIVersion                      int `validate:"min=1"`
	EnableVersionSpecificValidation bool
}

// StdlibCache locates the binary snapshot C6 reads at startup and the
// manifest sidecar alongside it.
type StdlibCache struct {
	Path         string `validate:"required"`
	ManifestPath string
}

// Config is the engine's full configuration surface, loaded from an
// .apexls.kdl file with defaults applied before parsing.
type Config struct {
	Project      Project
	Engine       Engine
	Validation   Validation
	StdlibCache  StdlibCache
	FeatureFlags map[string]bool

	Include []string
	Exclude []string
}

// Default returns a Config with every field set to the engine's built-in
// defaults, before any .apexls.kdl is parsed on top of it.
func Default(projectRoot string) *Config {
	return &Config{
		Project: Project{Root: projectRoot, Name: "workspace"},
		Engine: Engine{
			MaxFileSizeBytes: 10 * 1024 * 1024,
			MaxFileCount:     10000,
			MaxGoroutines:    4,
			FollowSymlinks:   false,
		},
		Validation: Validation{
			Tier:                            validate.TierThorough,
			AllowArtifactLoading:            true,
			APIVersion:                      1,
			EnableVersionSpecificValidation: false,
		},
		StdlibCache: StdlibCache{
			Path:         ".apexls/stdlib.apexdb",
			ManifestPath: ".apexls/stdlib.manifest.toml",
		},
		FeatureFlags: map[string]bool{},
		Include:      []string{},
		Exclude:      defaultExclusions(),
	}
}

// defaultExclusions are patterns never worth indexing: build output and
// VCS metadata.
func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/bin/**",
		"**/target/**",
		"**/.apexls/**",
	}
}
