package graph

// DetectCircularDependencies returns every non-trivial strongly connected
// component over Dependency-typed edges (spec.md §4.4). Tarjan's algorithm
// finds strongly connected components, not the weaker "elementary cycles"
// enumeration spec.md's prose names; a justified simplification recorded
// in DESIGN.md — an SCC of size > 1, or a single self-referencing vertex,
// is exactly the set of vertices participating in at least one cycle,
// which is what a dependency-cycle diagnostic needs to report.
func (g *Graph) DetectCircularDependencies() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &tarjan{
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
		next:    0,
	}
	ids := g.sortedSymbolIDs()
	for _, id := range ids {
		if _, visited := t.index[id]; !visited {
			t.strongConnect(id, g)
		}
	}

	var cycles [][]string
	for _, scc := range t.components {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		id := scc[0]
		if g.hasSelfDependency(id) {
			cycles = append(cycles, scc)
		}
	}
	return cycles
}

func (g *Graph) hasSelfDependency(id string) bool {
	for edgeType, byTarget := range g.outIdx[id] {
		if !edgeType.IsDependency() {
			continue
		}
		if _, ok := byTarget[id]; ok {
			return true
		}
	}
	return false
}

// tarjan implements Tarjan's strongly-connected-components algorithm
// iteratively-by-recursion over the graph's dependency edges. No
// ecosystem library in the example pack offers a graph-SCC primitive;
// this is the one algorithm in the module built on the standard library
// alone, per DESIGN.md's justification for it.
type tarjan struct {
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	next       int
	components [][]string
}

func (t *tarjan) strongConnect(v string, g *Graph) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for edgeType, byTarget := range g.outIdx[v] {
		if !edgeType.IsDependency() {
			continue
		}
		for w := range byTarget {
			if _, visited := t.index[w]; !visited {
				t.strongConnect(w, g)
				if t.lowlink[w] < t.lowlink[v] {
					t.lowlink[v] = t.lowlink[w]
				}
			} else if t.onStack[w] {
				if t.index[w] < t.lowlink[v] {
					t.lowlink[v] = t.index[w]
				}
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, scc)
	}
}
