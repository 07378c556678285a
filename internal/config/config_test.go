package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apexls/core/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default("/workspace")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, validate.TierThorough, cfg.Validation.Tier)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "workspace", cfg.Project.Name)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverlaysKDLOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	kdlSrc := `
project {
	name "billing-service"
}
validation {
	tier "immediate"
	allow_artifact_loading false
	api_version 54
}
engine {
	max_goroutines 8
}
include {
	"**/*.cls"
}
exclude {
	"**/*.cls-meta.xml"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(kdlSrc), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "billing-service", cfg.Project.Name)
	assert.Equal(t, validate.TierImmediate, cfg.Validation.Tier)
	assert.False(t, cfg.Validation.AllowArtifactLoading)
	assert.Equal(t, 54, cfg.Validation.APIVersion)
	assert.Equal(t, 8, cfg.Engine.MaxGoroutines)
	assert.Equal(t, []string{"**/*.cls"}, cfg.Include)
	assert.Equal(t, []string{"**/*.cls-meta.xml"}, cfg.Exclude)
}

func TestValidate_RejectsUnknownTier(t *testing.T) {
	cfg := Default("/workspace")
	cfg.Validation.Tier = "eventually"
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
}

func TestValidate_RejectsEmptyProjectName(t *testing.T) {
	cfg := Default("/workspace")
	cfg.Project.Name = ""
	require.Error(t, cfg.Validate())
}

func TestValidate_RejectsMalformedGlob(t *testing.T) {
	cfg := Default("/workspace")
	cfg.Include = []string{"[unterminated"}
	require.Error(t, cfg.Validate())
}

func TestMatches_ExcludeWinsOverInclude(t *testing.T) {
	cfg := Default("/workspace")
	cfg.Include = []string{"**/*.cls"}
	cfg.Exclude = []string{"**/ApexTestSuite/**"}

	assert.True(t, cfg.Matches("force-app/Api.cls"))
	assert.False(t, cfg.Matches("force-app/ApexTestSuite/Api.cls"))
	assert.False(t, cfg.Matches("force-app/Api.trigger"))
}

func TestMatches_EmptyIncludeMeansEverything(t *testing.T) {
	cfg := Default("/workspace")
	assert.True(t, cfg.Matches("anything/at/all.cls"))
}
