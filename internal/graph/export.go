package graph

import (
	"context"

	"github.com/apexls/core/internal/symbol"
)

// yieldEveryNodes/yieldEveryFiles are the cooperative-yield batch sizes
// from spec.md §5 ("bulk graph traversals ... periodically yield after
// processing a batch (nodes: 100; files: 50)").
const (
	yieldEveryNodes = 100
	yieldEveryFiles = 50
)

// GetGraphData exports the whole graph as a JSON-serializable payload.
func (g *Graph) GetGraphData(ctx context.Context) (*GraphData, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.exportLocked(ctx, "all", func(*symbol.Symbol) bool { return true })
}

// GetGraphDataForFile exports only fileURI's symbols and the edges between
// them.
func (g *Graph) GetGraphDataForFile(ctx context.Context, fileURI string) (*GraphData, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	allowed := map[string]bool{}
	for _, id := range g.fileIdx[fileURI] {
		allowed[id] = true
	}
	return g.exportLocked(ctx, "file:"+fileURI, func(s *symbol.Symbol) bool { return allowed[s.ID] })
}

// GetGraphDataByType exports only symbols of the given kind.
func (g *Graph) GetGraphDataByType(ctx context.Context, kind symbol.Kind) (*GraphData, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.exportLocked(ctx, "kind:"+kind.String(), func(s *symbol.Symbol) bool { return s.Kind == kind })
}

// exportLocked walks symbols and edges in deterministic order, yielding to
// ctx every yieldEveryNodes nodes (and, for multi-file exports, every
// yieldEveryFiles distinct files touched). Hierarchical contains edges
// always appear; a reference edge that duplicates an existing contains
// edge between the same pair is suppressed (spec.md §4.4, §6).
func (g *Graph) exportLocked(ctx context.Context, scope string, include func(*symbol.Symbol) bool) (*GraphData, error) {
	data := &GraphData{Metadata: GraphMetadata{Scope: scope}}
	included := map[string]bool{}

	ids := g.sortedSymbolIDs()
	filesSeen := map[string]bool{}
	nodeCount := 0
	for _, id := range ids {
		sym := g.symbols[id]
		if !include(sym) {
			continue
		}
		included[id] = true
		fqn := sym.FQN(g.resolverLocked())
		data.Nodes = append(data.Nodes, GraphNode{
			ID:       sym.ID,
			Name:     sym.Name,
			Kind:     sym.Kind.String(),
			FileURI:  sym.FileURI,
			ParentID: sym.ParentID,
			FQN:      fqn,
		})

		nodeCount++
		filesSeen[sym.FileURI] = true
		if nodeCount%yieldEveryNodes == 0 || len(filesSeen)%yieldEveryFiles == 0 {
			select {
			case <-ctx.Done():
				return data, ctx.Err()
			default:
			}
		}
	}

	containsPairs := map[[2]string]bool{}
	for _, e := range g.edges {
		if e.Type != EdgeContains || !included[e.Source] || !included[e.Target] {
			continue
		}
		containsPairs[[2]string{e.Source, e.Target}] = true
	}
	for _, e := range g.edges {
		if !included[e.Source] || !included[e.Target] {
			continue
		}
		if e.Type != EdgeContains && containsPairs[[2]string{e.Source, e.Target}] {
			continue
		}
		data.Edges = append(data.Edges, GraphEdge{Source: e.Source, Target: e.Target, Type: string(e.Type), Context: e.Context})
	}

	data.Metadata.NodeCount = len(data.Nodes)
	data.Metadata.EdgeCount = len(data.Edges)
	return data, nil
}
