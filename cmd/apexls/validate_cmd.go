package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apexls/core/internal/validate"
	"github.com/urfave/cli/v2"
)

// validateReport is the JSON shape `apexls validate --json` prints: the
// merged ValidationResult for one file, at the requested tier.
type validateReport struct {
	File     string                     `json:"file"`
	Tier     validate.Tier              `json:"tier"`
	IsValid  bool                       `json:"isValid"`
	Errors   []validate.ValidationError `json:"errors"`
	Warnings []validate.ValidationError `json:"warnings"`
}

// validateCommand implements `apexls validate`: runs the tier1 or tier2
// engine against one project file for CI use (SPEC_FULL.md §7.5),
// building the rest of the project graph first so thorough-tier
// cross-file validators have something to resolve against.
func validateCommand(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return cli.Exit("usage: apexls validate <file>", 1)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if tierFlag := c.String("tier"); tierFlag != "" {
		cfg.Validation.Tier = validate.Tier(tierFlag)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g, tables, _, err := buildProjectGraph(c.Context, cfg)
	if err != nil {
		return err
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", target, err)
	}
	fileURI := "file://" + filepath.ToSlash(absTarget)
	table, ok := tables[fileURI]
	if !ok {
		return cli.Exit(fmt.Sprintf("%s was not discovered under project root %s (check Include/Exclude)", target, cfg.Project.Root), 1)
	}

	engine := validate.NewEngine(validate.DefaultRegistry(g))
	opts := validate.ValidationOptions{
		Tier:                            cfg.Validation.Tier,
		AllowArtifactLoading:            cfg.Validation.AllowArtifactLoading,
		APIVersion:                      cfg.Validation.APIVersion,
		EnableVersionSpecificValidation: cfg.Validation.EnableVersionSpecificValidation,
		Graph:                           g,
	}
	result := engine.Run(c.Context, table, opts)

	report := validateReport{
		File:     target,
		Tier:     cfg.Validation.Tier,
		IsValid:  result.IsValid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		printValidateReport(report)
	}

	if !result.IsValid {
		return cli.Exit("", 1)
	}
	return nil
}

func printValidateReport(r validateReport) {
	fmt.Printf("%s (%s tier)\n", r.File, r.Tier)
	for _, e := range r.Errors {
		line := fmt.Sprintf("  error   %s: %s", e.Code, e.Message)
		if e.Suggestion != "" {
			line += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
		}
		fmt.Println(line)
	}
	for _, w := range r.Warnings {
		fmt.Printf("  warning %s: %s\n", w.Code, w.Message)
	}
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		fmt.Println("  no issues found")
	}
}

var validateFlags = []cli.Flag{
	&cli.StringFlag{Name: "tier", Usage: "immediate or thorough (default: config Validation.Tier)"},
	&cli.BoolFlag{Name: "json", Usage: "Print the ValidationResult as JSON"},
}
