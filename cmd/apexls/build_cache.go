package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apexls/core/internal/buildinfo"
	"github.com/apexls/core/internal/config"
	"github.com/apexls/core/internal/stdlibcache"
	"github.com/urfave/cli/v2"
)

// buildCacheCommand implements `apexls build-cache`: the offline step
// spec.md §4.6 names as the only writer of a stdlib binary cache. It walks
// a stdlib source tree, collects every file into the graph, and serializes
// the result plus a manifest sidecar (SPEC_FULL.md §6).
func buildCacheCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(c.Bool("verbose"))
	logger.Info("building stdlib cache", "root", cfg.Project.Root)

	g, _, diags, err := buildProjectGraph(c.Context, cfg)
	if err != nil {
		return err
	}
	for _, d := range diags {
		for _, e := range d.Errors {
			logger.Warn("collection error", "file", d.FileURI, "code", e.Code, "message", e.Message)
		}
	}

	symbolCount := 0
	for _, uri := range g.FileURIs() {
		symbolCount += len(g.SymbolsInFile(uri))
	}

	outPath := c.String("out")
	if outPath == "" {
		outPath = filepath.Join(cfg.Project.Root, cfg.StdlibCache.Path)
	}
	manifestPath := c.String("manifest")
	if manifestPath == "" {
		manifestPath = filepath.Join(cfg.Project.Root, cfg.StdlibCache.ManifestPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	meta := stdlibcache.NewMetadata(buildinfo.Generator(), c.String("source-commit"), symbolCount, time.Now())

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()
	if err := stdlibcache.Serialize(out, g, meta); err != nil {
		return fmt.Errorf("serialize cache: %w", err)
	}

	manifestOut, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", manifestPath, err)
	}
	defer manifestOut.Close()
	if err := stdlibcache.WriteManifest(manifestOut, meta); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.Info("stdlib cache built", "symbols", symbolCount, "cache", outPath, "manifest", manifestPath, "buildId", meta.BuildID)
	return nil
}

var buildCacheFlags = []cli.Flag{
	&cli.StringFlag{Name: "out", Usage: "Output path for the binary cache (default: <root>/<config StdlibCache.Path>)"},
	&cli.StringFlag{Name: "manifest", Usage: "Output path for the manifest sidecar"},
	&cli.StringFlag{Name: "source-commit", Usage: "Commit hash to stamp into the manifest", Value: "unknown"},
}

// loadConfigWithOverrides loads the .apexls.kdl of the project root (the
// --root flag, or the working directory when it is unset) and applies global
// CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Project.Root = absRoot

	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	return cfg, nil
}
