package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apexls/core/internal/symbol"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/urfave/cli/v2"
)

// graphExportCommand implements `apexls graph-export`: dump
// getGraphData()/getGraphDataForFile()/getGraphDataByType() (spec.md §6) as
// JSON for external tooling, or print the external contract's schema with
// --schema.
func graphExportCommand(c *cli.Context) error {
	if c.Bool("schema") {
		return printGraphDataSchema()
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g, _, _, err := buildProjectGraph(c.Context, cfg)
	if err != nil {
		return err
	}

	var data interface{}
	switch {
	case c.String("file") != "":
		absFile, absErr := filepath.Abs(c.String("file"))
		if absErr != nil {
			return fmt.Errorf("resolve %q: %w", c.String("file"), absErr)
		}
		data, err = g.GetGraphDataForFile(c.Context, "file://"+filepath.ToSlash(absFile))
	case c.String("kind") != "":
		kind, ok := symbol.ParseKind(c.String("kind"))
		if !ok {
			return fmt.Errorf("unknown symbol kind %q", c.String("kind"))
		}
		data, err = g.GetGraphDataByType(c.Context, kind)
	default:
		data, err = g.GetGraphData(c.Context)
	}
	if err != nil {
		return fmt.Errorf("export graph data: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// graphDataSchema is the external-contract JSON Schema for GraphData,
// hand-built rather than reflected off the Go struct — the wire contract
// is what external tooling depends on, and should change deliberately,
// not whenever a Go field is renamed.
func graphDataSchema() *jsonschema.Schema {
	nodeSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":       {Type: "string"},
			"name":     {Type: "string"},
			"kind":     {Type: "string"},
			"fileUri":  {Type: "string"},
			"parentId": {Type: "string"},
			"fqn":      {Type: "string"},
		},
		Required: []string{"id", "name", "kind", "fileUri", "fqn"},
	}
	edgeSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source":  {Type: "string"},
			"target":  {Type: "string"},
			"type":    {Type: "string"},
			"context": {Type: "string"},
		},
		Required: []string{"source", "target", "type"},
	}
	metadataSchema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"nodeCount": {Type: "integer"},
			"edgeCount": {Type: "integer"},
			"scope":     {Type: "string"},
		},
		Required: []string{"nodeCount", "edgeCount", "scope"},
	}
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Result of getGraphData/getGraphDataForFile/getGraphDataByType",
		Properties: map[string]*jsonschema.Schema{
			"nodes":    {Type: "array", Items: nodeSchema},
			"edges":    {Type: "array", Items: edgeSchema},
			"metadata": metadataSchema,
		},
		Required: []string{"nodes", "edges", "metadata"},
	}
}

func printGraphDataSchema() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(graphDataSchema())
}

var graphExportFlags = []cli.Flag{
	&cli.StringFlag{Name: "file", Usage: "Limit export to one file URI's symbols"},
	&cli.StringFlag{Name: "kind", Usage: "Limit export to one symbol kind (e.g. Class)"},
	&cli.BoolFlag{Name: "schema", Usage: "Print the GraphData JSON Schema instead of exporting"},
}
