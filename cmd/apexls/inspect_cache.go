package main

import (
	"fmt"
	"os"

	"github.com/apexls/core/internal/binformat"
	"github.com/apexls/core/internal/stdlibcache"
	"github.com/urfave/cli/v2"
)

// inspectCacheCommand implements `apexls inspect-cache`: dump a binary
// cache's header plus its manifest sidecar, without hydrating the full
// snapshot, so an operator can sanity-check a build artifact.
func inspectCacheCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: apexls inspect-cache <path>", 1)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header, err := binformat.ReadHeader(f)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	major, minor := header.MajorVersion(), header.MinorVersion()
	fmt.Printf("cache:            %s\n", path)
	fmt.Printf("format version:   %d.%d\n", major, minor)
	fmt.Printf("symbol count:     %d\n", header.SymbolCount)
	fmt.Printf("type registry:    %d entries\n", header.TypeRegistryCount)
	fmt.Printf("string table:     %d bytes at offset %d\n", header.StringTableSize, header.StringTableOffset)
	fmt.Printf("symbol table:     %d bytes at offset %d\n", header.SymbolTableSize, header.SymbolTableOffset)
	fmt.Printf("type registry:    %d bytes at offset %d\n", header.TypeRegistrySize, header.TypeRegistryOffset)
	fmt.Printf("checksum:         0x%016x\n", header.Checksum)

	manifestPath := c.String("manifest")
	if manifestPath == "" {
		manifestPath = path + ".manifest.toml"
	}
	mf, err := os.Open(manifestPath)
	if err != nil {
		fmt.Printf("manifest:         unavailable (%v)\n", err)
		return nil
	}
	defer mf.Close()

	meta, err := stdlibcache.ReadManifest(mf)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	fmt.Printf("build id:         %s\n", meta.BuildID)
	fmt.Printf("built at:         %s\n", meta.BuiltAt.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Printf("source commit:    %s\n", meta.SourceCommit)
	fmt.Printf("generator:        %s\n", meta.Generator)
	return nil
}

var inspectCacheFlags = []cli.Flag{
	&cli.StringFlag{Name: "manifest", Usage: "Manifest sidecar path (default: <cache path>.manifest.toml)"},
}
