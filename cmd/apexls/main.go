// Command apexls is the engine's CLI: the offline binary-cache builder,
// a cache inspector, a CI-facing validator, a graph exporter, and a
// Prometheus metrics server, one subcommand per file.
package main

import (
	"fmt"
	"os"

	"github.com/apexls/core/internal/buildinfo"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:                   "apexls",
		Usage:                  "language-intelligence backend for the enterprise scripting language core",
		Version:                buildinfo.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides .apexls.kdl discovery)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (appended to config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug-level logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build-cache",
				Usage:  "Build a stdlib binary cache from a source tree (C6 offline build)",
				Flags:  buildCacheFlags,
				Action: buildCacheCommand,
			},
			{
				Name:   "inspect-cache",
				Usage:  "Print a binary cache's header and manifest",
				Flags:  inspectCacheFlags,
				Action: inspectCacheCommand,
			},
			{
				Name:   "validate",
				Usage:  "Run tier1/tier2 validation against a project file",
				Flags:  validateFlags,
				Action: validateCommand,
			},
			{
				Name:   "graph-export",
				Usage:  "Dump the cross-file symbol graph as JSON",
				Flags:  graphExportFlags,
				Action: graphExportCommand,
			},
			{
				Name:   "serve-metrics",
				Usage:  "Serve Prometheus metrics over HTTP",
				Flags:  serveMetricsFlags,
				Action: serveMetricsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "apexls:", err)
		os.Exit(1)
	}
}
