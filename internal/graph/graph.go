package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/apexls/core/internal/metrics"
	"github.com/apexls/core/internal/symbol"
)

// DefaultMaxSymbols bounds how many symbols the graph holds before it
// starts evicting the least-recently-touched ones.
const DefaultMaxSymbols = 100000

// Graph is the cross-file symbol graph (C4). All state is guarded by mu;
// every public method is safe for concurrent use.
type Graph struct {
	mu sync.RWMutex

	symbols  map[string]*symbol.Symbol
	tables   map[string]*symbol.Table // fileUri -> table, when supplied
	fileIdx  map[string][]string      // fileUri -> symbol ids, insertion order
	nameIdx  map[string][]string      // lowercased name -> symbol ids, insertion order
	fqnIdx   map[string]string        // fqn -> symbol id

	edges   []Edge
	outIdx  map[string]map[EdgeType]map[string]int // source -> type -> target -> index into edges
	inIdx   map[string]map[EdgeType]map[string]int // target -> type -> source -> index into edges

	maxSymbols  int
	accessOrder []string
	accessPos   map[string]int

	cache *lookupCache
}

// New returns an empty Graph with the default capacity and a 3-minute
// lookup cache TTL (spec.md §4.4).
func New() *Graph {
	return NewWithCapacity(DefaultMaxSymbols)
}

// NewWithCapacity returns an empty Graph bounded to maxSymbols vertices.
func NewWithCapacity(maxSymbols int) *Graph {
	return &Graph{
		symbols:    make(map[string]*symbol.Symbol),
		tables:     make(map[string]*symbol.Table),
		fileIdx:    make(map[string][]string),
		nameIdx:    make(map[string][]string),
		fqnIdx:     make(map[string]string),
		outIdx:     make(map[string]map[EdgeType]map[string]int),
		inIdx:      make(map[string]map[EdgeType]map[string]int),
		maxSymbols: maxSymbols,
		accessPos:  make(map[string]int),
		cache:      newLookupCache(defaultCacheTTL, defaultCacheByteBudget),
	}
}

// AddSymbol inserts a vertex, updating the file/name/fqn indexes (spec.md
// §4.4). Re-adding the same id replaces it in place. table, when non-nil,
// is retained so later consumers (the binary cache builder, primarily) can
// recover the owning file's full table.
func (g *Graph) AddSymbol(sym *symbol.Symbol, fileURI string, table *symbol.Table) error {
	if sym == nil {
		return fmt.Errorf("graph: cannot add a nil symbol")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.symbols) >= g.maxSymbols {
		if _, exists := g.symbols[sym.ID]; !exists {
			g.evictLRULocked()
		}
	}

	if _, exists := g.symbols[sym.ID]; !exists {
		g.fileIdx[fileURI] = append(g.fileIdx[fileURI], sym.ID)
		lower := strings.ToLower(sym.Name)
		g.nameIdx[lower] = append(g.nameIdx[lower], sym.ID)
	}
	g.symbols[sym.ID] = sym
	if table != nil {
		g.tables[fileURI] = table
	}
	if fqn := sym.FQN(g.resolverLocked()); fqn != "" {
		g.fqnIdx[fqn] = sym.ID
	}
	g.touchLocked(sym.ID)
	if sym.ParentID != nil {
		g.addEdgeLocked(*sym.ParentID, sym.ID, EdgeContains, nil)
	}
	g.cache.invalidatePrefix("name:")
	g.cache.invalidatePrefix("fqn:")
	g.cache.invalidatePrefix("refs:")
	g.cache.invalidatePrefix("deps:")
	metrics.GraphSymbolCount.Set(float64(len(g.symbols)))
	return nil
}

// AddSymbolsFromTable bulk-loads every symbol and captured reference from a
// freshly collected file table, first clearing any prior generation of
// that file's symbols (spec.md §8's fileIndex testable property).
func (g *Graph) AddSymbolsFromTable(table *symbol.Table) error {
	if table == nil {
		return fmt.Errorf("graph: cannot add from a nil table")
	}
	if err := g.RemoveFile(table.FileURI); err != nil {
		return err
	}
	for _, sym := range table.Symbols {
		if err := g.AddSymbol(sym, table.FileURI, table); err != nil {
			return err
		}
	}
	g.resolveReferences(table)
	return nil
}

// resolveReferences turns a table's raw TypeReferences into graph edges,
// resolving each reference's symbol name against the graph using the same
// context ladder lookupSymbolWithContext exposes. References that resolve
// to nothing are dropped — they name stdlib or as-yet-uncollected symbols
// the caller may retry once more files have loaded.
func (g *Graph) resolveReferences(table *symbol.Table) {
	var namespace *string
	if root := table.Root; root != nil {
		namespace = root.Namespace
	}
	rctx := ResolutionContext{FileURI: table.FileURI, Namespace: namespace}
	for _, ref := range table.References {
		result := g.LookupSymbolWithContext(ref.Name, rctx)
		if result.Symbol == nil {
			continue
		}
		var source string
		if owner := g.findEnclosing(table, ref); owner != nil {
			source = owner.ID
		} else {
			continue
		}
		g.AddEdge(source, result.Symbol.ID, edgeTypeFromReference(ref.Context), methodCtxString(ref.ParentContextMethodName))
	}
}

func methodCtxString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// findEnclosing locates the nearest non-block symbol in fromTable whose
// location contains ref's location, used as the edge's source vertex. This
// is a best-effort approximation in the absence of a maintained
// per-reference owner pointer from the collector.
func (g *Graph) findEnclosing(fromTable *symbol.Table, ref symbol.TypeReference) *symbol.Symbol {
	var best *symbol.Symbol
	for _, sym := range fromTable.Symbols {
		if sym.Kind == symbol.KindBlock {
			continue
		}
		if !contains(sym.Location.SymbolRange, ref.Location.IdentifierRange) {
			continue
		}
		if best == nil || contains(best.Location.SymbolRange, sym.Location.SymbolRange) {
			best = sym
		}
	}
	return best
}

func contains(outer, inner symbol.Range) bool {
	if before(inner.Start, outer.Start) {
		return false
	}
	if before(outer.End, inner.End) {
		return false
	}
	return true
}

func before(a, b symbol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// AddEdge creates or updates a reference edge; duplicates by
// (source, target, type) are idempotent (spec.md §4.4).
func (g *Graph) AddEdge(source, target string, edgeType EdgeType, context *string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addEdgeLocked(source, target, edgeType, context)
	g.cache.invalidatePrefix("refs:")
	g.cache.invalidatePrefix("deps:")
}

func (g *Graph) addEdgeLocked(source, target string, edgeType EdgeType, context *string) {
	if byType, ok := g.outIdx[source]; ok {
		if byTarget, ok := byType[edgeType]; ok {
			if idx, ok := byTarget[target]; ok {
				g.edges[idx].Context = context
				return
			}
		}
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Type: edgeType, Context: context})

	if g.outIdx[source] == nil {
		g.outIdx[source] = map[EdgeType]map[string]int{}
	}
	if g.outIdx[source][edgeType] == nil {
		g.outIdx[source][edgeType] = map[string]int{}
	}
	g.outIdx[source][edgeType][target] = idx

	if g.inIdx[target] == nil {
		g.inIdx[target] = map[EdgeType]map[string]int{}
	}
	if g.inIdx[target][edgeType] == nil {
		g.inIdx[target][edgeType] = map[string]int{}
	}
	g.inIdx[target][edgeType][source] = idx
}

// GetSymbol returns the symbol registered under id, if any.
func (g *Graph) GetSymbol(id string) (*symbol.Symbol, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.symbols[id]
	return s, ok
}

// FileURIs returns every file currently indexed in the graph, sorted, for
// callers (e.g. internal/stdlibcache) that need to snapshot the whole graph
// file by file.
func (g *Graph) FileURIs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	uris := make([]string, 0, len(g.fileIdx))
	for uri := range g.fileIdx {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// SymbolsInFile returns fileURI's symbols in insertion order.
func (g *Graph) SymbolsInFile(fileURI string) []*symbol.Symbol {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.fileIdx[fileURI]
	out := make([]*symbol.Symbol, 0, len(ids))
	for _, id := range ids {
		if s, ok := g.symbols[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// LookupSymbolByName returns every symbol named name (case-insensitive), in
// insertion order.
func (g *Graph) LookupSymbolByName(name string) []*symbol.Symbol {
	key := "name:" + strings.ToLower(name)
	if cached, ok := g.cache.get(key); ok {
		return cached.([]*symbol.Symbol)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := g.nameIdx[strings.ToLower(name)]
	out := make([]*symbol.Symbol, 0, len(ids))
	for _, id := range ids {
		if s, ok := g.symbols[id]; ok {
			out = append(out, s)
		}
	}
	g.cache.put(key, out, approxSize(len(out)))
	return out
}

// FQNIndex returns a snapshot copy of the fqn -> symbol id index, for
// callers (e.g. internal/stdlibcache) building a type registry from the
// graph's current contents.
func (g *Graph) FQNIndex() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]string, len(g.fqnIdx))
	for k, v := range g.fqnIdx {
		out[k] = v
	}
	return out
}

// LookupSymbolByFQN returns the single symbol registered under fqn, if any.
// The comparison is case-insensitive.
func (g *Graph) LookupSymbolByFQN(fqn string) (*symbol.Symbol, bool) {
	key := "fqn:" + fqn
	if cached, ok := g.cache.get(key); ok {
		s, ok := cached.(*symbol.Symbol)
		return s, ok
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.fqnIdx[fqn]
	if !ok {
		for k, v := range g.fqnIdx {
			if strings.EqualFold(k, fqn) {
				id, ok = v, true
				break
			}
		}
		if !ok {
			return nil, false
		}
	}
	s, ok := g.symbols[id]
	if ok {
		g.cache.put(key, s, approxSize(1))
	}
	return s, ok
}

// LookupSymbolWithContext resolves an ambiguous name using the ladder in
// spec.md §4.4: same-file, imported-namespace, same-namespace, then the
// first candidate in deterministic (insertion) order.
func (g *Graph) LookupSymbolWithContext(name string, ctx ResolutionContext) LookupResult {
	candidates := g.LookupSymbolByName(name)
	switch len(candidates) {
	case 0:
		return LookupResult{Confidence: 0, ResolutionContext: "none"}
	case 1:
		return LookupResult{Symbol: candidates[0], Confidence: 1.0, ResolutionContext: "unique"}
	}

	if ctx.FileURI != "" {
		for _, c := range candidates {
			if c.FileURI == ctx.FileURI {
				return LookupResult{Symbol: c, Confidence: 0.5, IsAmbiguous: true, Candidates: candidates, ResolutionContext: "same-file"}
			}
		}
	}
	for _, ns := range ctx.ImportedNamespaces {
		for _, c := range candidates {
			if c.Namespace != nil && *c.Namespace == ns {
				return LookupResult{Symbol: c, Confidence: 0.5, IsAmbiguous: true, Candidates: candidates, ResolutionContext: "imported-namespace"}
			}
		}
	}
	if ctx.Namespace != nil {
		for _, c := range candidates {
			if c.Namespace != nil && *c.Namespace == *ctx.Namespace {
				return LookupResult{Symbol: c, Confidence: 0.5, IsAmbiguous: true, Candidates: candidates, ResolutionContext: "same-namespace"}
			}
		}
	}
	return LookupResult{Symbol: candidates[0], Confidence: 0.5, IsAmbiguous: true, Candidates: candidates, ResolutionContext: "first-candidate"}
}

// FindReferencesTo returns the incoming edges touching symbolID.
func (g *Graph) FindReferencesTo(symbolID string) []ReferenceProjection {
	key := "refs:to:" + symbolID
	if cached, ok := g.cache.get(key); ok {
		return cached.([]ReferenceProjection)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []ReferenceProjection
	for _, byTarget := range g.inIdx[symbolID] {
		for source, idx := range byTarget {
			if s, ok := g.symbols[source]; ok {
				e := g.edges[idx]
				out = append(out, ReferenceProjection{Symbol: s, ReferenceType: e.Type, Context: e.Context})
			}
		}
	}
	g.cache.put(key, out, approxSize(len(out)))
	return out
}

// FindReferencesFrom returns the outgoing edges touching symbolID.
func (g *Graph) FindReferencesFrom(symbolID string) []ReferenceProjection {
	key := "refs:from:" + symbolID
	if cached, ok := g.cache.get(key); ok {
		return cached.([]ReferenceProjection)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []ReferenceProjection
	for _, byTarget := range g.outIdx[symbolID] {
		for target, idx := range byTarget {
			if s, ok := g.symbols[target]; ok {
				e := g.edges[idx]
				out = append(out, ReferenceProjection{Symbol: s, ReferenceType: e.Type, Context: e.Context})
			}
		}
	}
	g.cache.put(key, out, approxSize(len(out)))
	return out
}

// AnalyzeDependencies returns symbolID's direct dependencies/dependents and
// an impact score weighting transitive dependents down (spec.md §4.4).
func (g *Graph) AnalyzeDependencies(symbolID string) DependencyAnalysis {
	key := "deps:" + symbolID
	if cached, ok := g.cache.get(key); ok {
		return cached.(DependencyAnalysis)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := g.directDependenciesLocked(symbolID)
	directDependents := g.directDependentsLocked(symbolID)

	visited := map[string]bool{symbolID: true}
	for _, d := range directDependents {
		visited[d.ID] = true
	}
	queue := append([]*symbol.Symbol{}, directDependents...)
	transitiveCount := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range g.directDependentsLocked(cur.ID) {
			if visited[d.ID] {
				continue
			}
			visited[d.ID] = true
			transitiveCount++
			queue = append(queue, d)
		}
	}

	score := float64(len(directDependents)) + transitiveDependentWeight*float64(transitiveCount)
	result := DependencyAnalysis{Dependencies: deps, Dependents: directDependents, ImpactScore: score}
	g.cache.put(key, result, approxSize(len(deps)+len(directDependents)))
	return result
}

func (g *Graph) directDependenciesLocked(symbolID string) []*symbol.Symbol {
	var out []*symbol.Symbol
	for edgeType, byTarget := range g.outIdx[symbolID] {
		if !edgeType.IsDependency() {
			continue
		}
		for target := range byTarget {
			if s, ok := g.symbols[target]; ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func (g *Graph) directDependentsLocked(symbolID string) []*symbol.Symbol {
	var out []*symbol.Symbol
	for edgeType, byTarget := range g.inIdx[symbolID] {
		if !edgeType.IsDependency() {
			continue
		}
		for source := range byTarget {
			if s, ok := g.symbols[source]; ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// RemoveFile removes every symbol declared in fileURI and any edge
// touching them, then updates all indexes (spec.md §4.4, §5's atomicity
// guarantee for a subsequent AddSymbolsFromTable on the same file).
func (g *Graph) RemoveFile(fileURI string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := g.fileIdx[fileURI]
	if len(ids) == 0 {
		delete(g.tables, fileURI)
		return nil
	}
	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}
	g.removeSymbolsLocked(removed)
	delete(g.fileIdx, fileURI)
	delete(g.tables, fileURI)

	g.cache.invalidateAll()
	metrics.GraphSymbolCount.Set(float64(len(g.symbols)))
	return nil
}

// removeSymbolsLocked deletes every id in removed from symbols, nameIdx,
// fqnIdx, fileIdx, and every edge (plus outIdx/inIdx) touching one, leaving
// every index consistent with the resulting symbol set. A fileIdx key whose
// last id is removed is dropped. Callers that remove an entire file still
// own clearing tables for that file key themselves.
func (g *Graph) removeSymbolsLocked(removed map[string]bool) {
	keptEdges := g.edges[:0:0]
	for _, e := range g.edges {
		if removed[e.Source] || removed[e.Target] {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	g.edges = keptEdges
	g.outIdx = map[string]map[EdgeType]map[string]int{}
	g.inIdx = map[string]map[EdgeType]map[string]int{}
	for idx, e := range g.edges {
		if g.outIdx[e.Source] == nil {
			g.outIdx[e.Source] = map[EdgeType]map[string]int{}
		}
		if g.outIdx[e.Source][e.Type] == nil {
			g.outIdx[e.Source][e.Type] = map[string]int{}
		}
		g.outIdx[e.Source][e.Type][e.Target] = idx
		if g.inIdx[e.Target] == nil {
			g.inIdx[e.Target] = map[EdgeType]map[string]int{}
		}
		if g.inIdx[e.Target][e.Type] == nil {
			g.inIdx[e.Target][e.Type] = map[string]int{}
		}
		g.inIdx[e.Target][e.Type][e.Source] = idx
	}

	for id := range removed {
		sym, ok := g.symbols[id]
		if !ok {
			continue
		}
		lower := strings.ToLower(sym.Name)
		g.nameIdx[lower] = removeString(g.nameIdx[lower], id)
		if fqn := sym.FQN(g.resolverLocked()); fqn != "" {
			if g.fqnIdx[fqn] == id {
				delete(g.fqnIdx, fqn)
			}
		}
		g.fileIdx[sym.FileURI] = removeString(g.fileIdx[sym.FileURI], id)
		if len(g.fileIdx[sym.FileURI]) == 0 {
			delete(g.fileIdx, sym.FileURI)
		}
		delete(g.symbols, id)
		g.untouchLocked(id)
	}
}

func removeString(list []string, target string) []string {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

func (g *Graph) resolverLocked() symbol.ParentResolver {
	return func(id string) (*symbol.Symbol, bool) {
		s, ok := g.symbols[id]
		return s, ok
	}
}

func (g *Graph) touchLocked(id string) {
	if idx, ok := g.accessPos[id]; ok {
		g.accessOrder = append(g.accessOrder[:idx], g.accessOrder[idx+1:]...)
	}
	g.accessOrder = append([]string{id}, g.accessOrder...)
	for i, v := range g.accessOrder {
		g.accessPos[v] = i
	}
}

func (g *Graph) untouchLocked(id string) {
	if idx, ok := g.accessPos[id]; ok {
		g.accessOrder = append(g.accessOrder[:idx], g.accessOrder[idx+1:]...)
		delete(g.accessPos, id)
		for i := idx; i < len(g.accessOrder); i++ {
			g.accessPos[g.accessOrder[i]] = i
		}
	}
}

func (g *Graph) evictLRULocked() {
	if len(g.accessOrder) == 0 {
		return
	}
	lru := g.accessOrder[len(g.accessOrder)-1]
	if _, ok := g.symbols[lru]; !ok {
		g.untouchLocked(lru)
		return
	}
	g.removeSymbolsLocked(map[string]bool{lru: true})
	g.cache.invalidateAll()
}

// sortedSymbolIDs returns ids in deterministic order, used anywhere a
// stable iteration over the symbol table matters (exports, cycle
// detection).
func (g *Graph) sortedSymbolIDs() []string {
	ids := make([]string, 0, len(g.symbols))
	for id := range g.symbols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func approxSize(entries int) int {
	const estimatedBytesPerEntry = 256
	return entries * estimatedBytesPerEntry
}
