// Package metrics exposes the engine's Prometheus collectors. Grounded on
// the package-level promauto var pattern used throughout the wider example
// pack's routing/graph subsystems (e.g. AleutianLocal's
// services/trace/agent/routing/metrics.go), adapted from tool-routing
// counters to validator/artifact-loader instrumentation per SPEC_FULL.md
// §7.4.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidateDuration records how long each validator took, by tier.
	ValidateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "apexls",
		Subsystem: "validate",
		Name:      "duration_seconds",
		Help:      "Validator invocation latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"tier", "validator"})

	// ValidateRunsTotal counts validator invocations by outcome.
	ValidateRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apexls",
		Subsystem: "validate",
		Name:      "runs_total",
		Help:      "Total validator invocations by outcome",
	}, []string{"tier", "validator", "outcome"})

	// ArtifactsLoadedTotal counts files the thorough-tier loader fetched.
	ArtifactsLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apexls",
		Subsystem: "validate",
		Name:      "artifacts_loaded_total",
		Help:      "Total artifact files loaded during thorough validation",
	}, []string{"outcome"})

	// ArtifactTimeoutsTotal counts thorough-tier runs that hit the global
	// artifact-loading deadline before every requested load completed.
	ArtifactTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "apexls",
		Subsystem: "validate",
		Name:      "artifact_timeouts_total",
		Help:      "Total thorough validation runs that hit the artifact-loading deadline",
	})

	// GraphSymbolCount tracks the live symbol graph's vertex count.
	GraphSymbolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "apexls",
		Subsystem: "graph",
		Name:      "symbol_count",
		Help:      "Current number of symbols held in the cross-file graph",
	})

	// CacheLoadDuration records stdlib binary cache load time (C6).
	CacheLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "apexls",
		Subsystem: "stdlibcache",
		Name:      "load_duration_seconds",
		Help:      "Time to deserialize the stdlib binary cache",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
)
