package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apexls/core/internal/config"
	"github.com/stretchr/testify/require"
)

const testTree = `{
	"kind": "parser_output",
	"text": "public class Foo {}",
	"start": {"line": 1, "column": 0},
	"end": {"line": 1, "column": 20},
	"children": [
		{
			"kind": "class_declaration",
			"text": "public class Foo {}",
			"start": {"line": 1, "column": 0},
			"end": {"line": 1, "column": 20},
			"children": [
				{
					"kind": "identifier",
					"text": "Foo",
					"start": {"line": 1, "column": 13},
					"end": {"line": 1, "column": 16}
				}
			]
		}
	]
}`

func writeSourceFile(t *testing.T, dir, name, tree string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("public class Foo {}"), 0o644))
	require.NoError(t, os.WriteFile(path+".json", []byte(tree), 0o644))
	return path
}

func TestDiscoverSourceFiles_RequiresSiblingTree(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "Foo.cls", testTree)
	// A source file with no sibling .json tree must be skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bare.cls"), []byte("class Bare {}"), 0o644))
	// A non-source extension must be skipped entirely.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	cfg := config.Default(dir)
	files, err := discoverSourceFiles(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "file://"+filepath.ToSlash(filepath.Join(dir, "Foo.cls")), files[0].FileURI)
}

func TestDiscoverSourceFiles_HonorsExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	writeSourceFile(t, dir, "Foo.cls", testTree)
	writeSourceFile(t, filepath.Join(dir, "vendor"), "Vendored.cls", testTree)

	cfg := config.Default(dir)
	cfg.Exclude = append(cfg.Exclude, "vendor/**")
	files, err := discoverSourceFiles(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "Foo.cls", filepath.Base(files[0].SourcePath))
}

func TestCollectFile_BuildsTable(t *testing.T) {
	dir := t.TempDir()
	path := writeSourceFile(t, dir, "Foo.cls", testTree)
	cfg := config.Default(dir)
	files, err := discoverSourceFiles(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)

	table, diags, err := collectFile(context.Background(), files[0], cfg.Validation.APIVersion)
	require.NoError(t, err)
	require.NotNil(t, table)
	require.Equal(t, "file://"+filepath.ToSlash(path), diags.FileURI)
}

func TestBuildProjectGraph_RegistersEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "Foo.cls", testTree)
	writeSourceFile(t, dir, "Bar.trigger", testTree)
	cfg := config.Default(dir)

	g, tables, diags, err := buildProjectGraph(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	require.Len(t, diags, 2)
	require.Len(t, g.FileURIs(), 2)
}

func TestIsSourceExt(t *testing.T) {
	require.True(t, isSourceExt(".cls"))
	require.True(t, isSourceExt(".TRIGGER"))
	require.False(t, isSourceExt(".java"))
}
