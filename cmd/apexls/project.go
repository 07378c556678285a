package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apexls/core/internal/collector"
	"github.com/apexls/core/internal/config"
	"github.com/apexls/core/internal/graph"
	"github.com/apexls/core/internal/parsetree/jsontree"
	"github.com/apexls/core/internal/symbol"
)

// sourceExtensions are the language's compilation-unit extensions this CLI
// recognizes when walking a project tree.
var sourceExtensions = []string{".cls", ".trigger"}

// sourceFile pairs a source file with the externally-produced parse tree
// this core requires to compile it: spec.md §1 puts the grammar out of
// scope, so the CLI reads a sibling "<file>.json" tree instead of parsing
// the source itself (see internal/parsetree/jsontree).
type sourceFile struct {
	FileURI    string
	SourcePath string
	TreePath   string
}

// discoverSourceFiles walks cfg.Project.Root for recognized source files
// with a sibling JSON parse tree, honoring cfg.Include/Exclude.
func discoverSourceFiles(cfg *config.Config) ([]sourceFile, error) {
	var out []sourceFile
	root := cfg.Project.Root

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if !isSourceExt(ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !cfg.Matches(rel) {
			return nil
		}
		treePath := path + ".json"
		if _, err := os.Stat(treePath); err != nil {
			return nil // no externally-produced tree for this file: nothing to compile
		}
		out = append(out, sourceFile{
			FileURI:    "file://" + filepath.ToSlash(path),
			SourcePath: path,
			TreePath:   treePath,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover source files under %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileURI < out[j].FileURI })
	return out, nil
}

func isSourceExt(ext string) bool {
	for _, e := range sourceExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// fileDiagnostics bundles one file's collection errors/warnings for CLI
// reporting.
type fileDiagnostics struct {
	FileURI  string
	Errors   []collector.Diagnostic
	Warnings []collector.Diagnostic
}

// collectFile reads f's source and parse tree, runs the collector, and
// returns the resulting table alongside any semantic diagnostics it raised.
func collectFile(ctx context.Context, f sourceFile, apiVersion int) (*symbol.Table, fileDiagnostics, error) {
	source, err := os.ReadFile(f.SourcePath)
	if err != nil {
		return nil, fileDiagnostics{}, fmt.Errorf("read %s: %w", f.SourcePath, err)
	}
	treeFile, err := os.Open(f.TreePath)
	if err != nil {
		return nil, fileDiagnostics{}, fmt.Errorf("open %s: %w", f.TreePath, err)
	}
	defer treeFile.Close()

	root, err := jsontree.Decode(treeFile)
	if err != nil {
		return nil, fileDiagnostics{}, fmt.Errorf("decode %s: %w", f.TreePath, err)
	}

	sink := collector.NewDiagnosticSink()
	scope := collector.NewDefaultValidationScope(apiVersion)
	c := collector.New(f.FileURI, nil, sink, scope)

	table, _, err := c.Collect(ctx, root, source)
	if err != nil {
		return nil, fileDiagnostics{}, fmt.Errorf("collect %s: %w", f.FileURI, err)
	}
	return table, fileDiagnostics{FileURI: f.FileURI, Errors: sink.Errors(), Warnings: sink.Warnings()}, nil
}

// buildProjectGraph discovers every source file cfg selects, collects each
// one, and registers its table in a fresh graph.Graph. Returns the
// per-file collection diagnostics and every file's table (keyed by file
// URI, for callers like `validate` that need the specific table a tier
// run operates on) alongside the populated graph.
func buildProjectGraph(ctx context.Context, cfg *config.Config) (*graph.Graph, map[string]*symbol.Table, []fileDiagnostics, error) {
	files, err := discoverSourceFiles(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	g := graph.New()
	tables := make(map[string]*symbol.Table, len(files))
	diags := make([]fileDiagnostics, 0, len(files))
	for _, f := range files {
		table, d, err := collectFile(ctx, f, cfg.Validation.APIVersion)
		if err != nil {
			return nil, nil, nil, err
		}
		diags = append(diags, d)
		tables[f.FileURI] = table
		if err := g.AddSymbolsFromTable(table); err != nil {
			return nil, nil, nil, fmt.Errorf("register symbols from %s: %w", f.FileURI, err)
		}
	}
	return g, tables, diags, nil
}
