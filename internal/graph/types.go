// Package graph implements C4: the cross-file symbol graph that mediates
// state between independently collected files — vertices are symbol.Symbol
// values, edges are either structural "contains" relationships (derived
// from parentId) or one of the usage-site reference kinds a collector
// captured. See spec.md §4.4.
package graph

import "github.com/apexls/core/internal/symbol"

// EdgeType names the relationship a graph edge represents. The reference
// variants mirror symbol.ReferenceContext; EdgeContains has no collector
// counterpart — it is synthesized from a symbol's ParentID at AddSymbol
// time.
type EdgeType string

const (
	EdgeContains           EdgeType = "contains"
	EdgeClassReference     EdgeType = "classReference"
	EdgeMethodCall         EdgeType = "methodCall"
	EdgeFieldAccess        EdgeType = "fieldAccess"
	EdgeVariableUsage      EdgeType = "variableUsage"
	EdgeConstructorCall    EdgeType = "constructorCall"
	EdgeTypeDeclaration    EdgeType = "typeDeclaration"
	EdgeParameterType      EdgeType = "parameterType"
	EdgeImportReference    EdgeType = "importReference"
)

// IsDependency reports whether an edge of this type counts toward
// detectCircularDependencies and analyzeDependencies (spec.md §4.4: "over
// Dependency-typed edges"). Every reference edge is a dependency; the
// synthetic containment edge is structural, not a coupling, and is
// excluded.
func (t EdgeType) IsDependency() bool {
	return t != EdgeContains
}

func edgeTypeFromReference(ctx symbol.ReferenceContext) EdgeType {
	switch ctx {
	case symbol.RefClassReference:
		return EdgeClassReference
	case symbol.RefMethodCall:
		return EdgeMethodCall
	case symbol.RefFieldAccess:
		return EdgeFieldAccess
	case symbol.RefVariableUsage:
		return EdgeVariableUsage
	case symbol.RefConstructorCall:
		return EdgeConstructorCall
	case symbol.RefTypeDeclaration:
		return EdgeTypeDeclaration
	case symbol.RefParameterType:
		return EdgeParameterType
	case symbol.RefImportReference:
		return EdgeImportReference
	default:
		return EdgeClassReference
	}
}

// Edge is one directed relationship between two symbol ids.
type Edge struct {
	Source  string
	Target  string
	Type    EdgeType
	Context *string
}

// ReferenceProjection is the {symbol, referenceType, context} shape
// findReferencesTo/From return (spec.md §4.4).
type ReferenceProjection struct {
	Symbol        *symbol.Symbol
	ReferenceType EdgeType
	Context       *string
}

// LookupResult is lookupSymbolWithContext's return shape.
type LookupResult struct {
	Symbol             *symbol.Symbol
	Confidence         float64
	IsAmbiguous        bool
	Candidates         []*symbol.Symbol
	ResolutionContext  string
}

// ResolutionContext narrows ambiguous name lookups (spec.md §4.4's
// context-resolution ladder): same-file, then imported-namespace, then
// same-namespace, then deterministic first-candidate.
type ResolutionContext struct {
	FileURI            string
	ImportedNamespaces []string
	Namespace          *string
}

// DependencyAnalysis is analyzeDependencies's return shape.
type DependencyAnalysis struct {
	Dependencies []*symbol.Symbol
	Dependents   []*symbol.Symbol
	ImpactScore  float64
}

// transitiveDependentWeight is the "weight" analyzeDependencies applies to
// transitive (depth > 1) dependents in its impact score (spec.md §4.4):
// impactScore = |directDependents| + weight*|transitiveDependents|.
const transitiveDependentWeight = 0.25

// GraphNode is one exported vertex in a getGraphData()-style payload.
type GraphNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	FileURI  string       `json:"fileUri"`
	ParentID *string      `json:"parentId,omitempty"`
	FQN      string       `json:"fqn"`
}

// GraphEdge is one exported edge.
type GraphEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Context *string `json:"context,omitempty"`
}

// GraphMetadata accompanies every exported payload.
type GraphMetadata struct {
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
	Scope     string `json:"scope"`
}

// GraphData is the JSON-serializable {nodes[], edges[], metadata} payload
// spec.md §6 describes for getGraphData/getGraphDataForFile/
// getGraphDataByType.
type GraphData struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}
