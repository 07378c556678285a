package validate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apexls/core/internal/metrics"
	"github.com/apexls/core/internal/symbol"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// ImmediateBudget and ArtifactTimeout are spec.md §4.5's fixed tier budgets.
const (
	ImmediateBudget = 500 * time.Millisecond
	ArtifactTimeout = 5 * time.Second
)

// Engine runs every registered validator for a tier and merges results.
type Engine struct {
	registry *ValidatorRegistry
}

// NewEngine returns an Engine backed by registry.
func NewEngine(registry *ValidatorRegistry) *Engine {
	return &Engine{registry: registry}
}

// Run executes every validator registered for opts.Tier, in (tier, priority)
// order, deduplicates the combined diagnostics, and applies enrichment
// atomically when the run produced no internal error (spec.md §4.5).
func (e *Engine) Run(ctx context.Context, table *symbol.Table, opts ValidationOptions) ValidationResult {
	if opts.Tier == TierThorough && opts.AllowArtifactLoading && opts.LoadArtifactCallback != nil {
		loadCtx, cancel := context.WithTimeout(ctx, ArtifactTimeout)
		loadMissingArtifacts(loadCtx, table, opts)
		cancel()
	}

	validators := e.registry.ForTier(opts.Tier)
	var allErrors, allWarnings []ValidationError
	enrichment := EnrichmentData{}
	internalFailure := false

	for _, v := range validators {
		if ctx.Err() != nil {
			break
		}
		result := e.runOne(ctx, v, table, opts)
		allErrors = append(allErrors, result.Errors...)
		allWarnings = append(allWarnings, result.Warnings...)
		for id, ti := range result.EnrichmentData {
			enrichment[id] = ti
		}
		for _, err := range result.Errors {
			if err.Code == "INTERNAL_VALIDATOR_PANIC" {
				internalFailure = true
			}
		}
	}

	if !internalFailure {
		applyEnrichment(table, enrichment)
	}

	return ValidationResult{
		IsValid:        len(dedup(allErrors)) == 0,
		Errors:         dedup(allErrors),
		Warnings:       dedup(allWarnings),
		EnrichmentData: enrichment,
	}
}

// runOne invokes a single validator, recovering a panic into a single
// internal error so the rest of the run continues uninterrupted (spec.md
// §4.5, §7).
func (e *Engine) runOne(ctx context.Context, v Validator, table *symbol.Table, opts ValidationOptions) (result ValidationResult) {
	timer := prometheus.NewTimer(metrics.ValidateDuration.WithLabelValues(string(v.Tier()), v.ID()))
	defer timer.ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("validator panicked", "validator", v.ID(), "panic", r)
			result = ValidationResult{
				IsValid: false,
				Errors: []ValidationError{{
					Code:    "INTERNAL_VALIDATOR_PANIC",
					Message: fmt.Sprintf("validator %q panicked: %v", v.ID(), r),
				}},
			}
			metrics.ValidateRunsTotal.WithLabelValues(string(v.Tier()), v.ID(), "panic").Inc()
		}
	}()

	result = v.Validate(ctx, table, opts)
	outcome := "valid"
	if !result.IsValid {
		outcome = "invalid"
	}
	metrics.ValidateRunsTotal.WithLabelValues(string(v.Tier()), v.ID(), outcome).Inc()
	return result
}

func applyEnrichment(table *symbol.Table, enrichment EnrichmentData) {
	for id, ti := range enrichment {
		sym, ok := table.Get(id)
		if !ok {
			continue
		}
		t := ti
		sym.Type = &t
	}
}

// loadMissingArtifacts bounds the thorough tier's cross-file loading to
// spec.md §4.5's exact contract: at most MaxArtifacts files, never
// transitively (MaxDepth=1), within ctx's deadline. errgroup.SetLimit
// enforces the cap directly instead of a hand-rolled semaphore.
func loadMissingArtifacts(ctx context.Context, table *symbol.Table, opts ValidationOptions) {
	missing := missingTypeNames(table)
	if len(missing) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxArtifacts)

	batches := make([][]string, 0, len(missing))
	for _, name := range missing {
		batches = append(batches, []string{name})
	}
	if len(batches) > MaxArtifacts {
		batches = batches[:MaxArtifacts]
	}

	for _, names := range batches {
		names := names
		g.Go(func() error {
			_, err := opts.LoadArtifactCallback(gctx, names, table.FileURI)
			if err != nil {
				return err
			}
			metrics.ArtifactsLoadedTotal.WithLabelValues("success").Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			metrics.ArtifactTimeoutsTotal.Inc()
		}
		metrics.ArtifactsLoadedTotal.WithLabelValues("error").Inc()
	}
}

// missingTypeNames collects the distinct names referenced by ClassReference,
// ConstructorCall, and MethodCall-with-qualifier usage sites — the shapes
// that name a type the current file doesn't declare, per spec.md §4.5's
// artifact-loading trigger.
func missingTypeNames(table *symbol.Table) []string {
	declared := map[string]bool{}
	for _, s := range table.Symbols {
		declared[s.Name] = true
	}
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || declared[name] || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, ref := range table.References {
		switch ref.Context {
		case symbol.RefClassReference, symbol.RefConstructorCall:
			add(ref.Name)
		case symbol.RefMethodCall:
			if ref.Qualifier != nil {
				add(*ref.Qualifier)
			}
		}
	}
	return out
}
