package graph

type cycleDetector[N comparable] struct {
	graph   *Graph[N]
	index   int
	stack   []N
	onStack map[N]bool
	indices map[N]int
	lowlink map[N]int
	sccs    [][]N
}

// DetectCycles returns every strongly connected component that forms a cycle,
// including self-loops (Tarjan).
func (g *Graph[N]) DetectCycles() [][]N {
	detector := &cycleDetector[N]{
		graph:   g,
		onStack: make(map[N]bool),
		indices: make(map[N]int),
		lowlink: make(map[N]int),
	}

	for _, id := range g.nodes {
		if _, visited := detector.indices[id]; !visited {
			detector.strongConnect(id)
		}
	}

	var cycles [][]N
	for _, scc := range detector.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		id := scc[0]
		for _, dep := range g.edges[id] {
			if dep == id {
				cycles = append(cycles, scc)
				break
			}
		}
	}

	return cycles
}

func (d *cycleDetector[N]) strongConnect(id N) {
	d.indices[id] = d.index
	d.lowlink[id] = d.index
	d.index++
	d.stack = append(d.stack, id)
	d.onStack[id] = true

	for _, dep := range d.graph.edges[id] {
		if _, visited := d.indices[dep]; !visited {
			d.strongConnect(dep)
			d.lowlink[id] = min(d.lowlink[id], d.lowlink[dep])
		} else if d.onStack[dep] {
			d.lowlink[id] = min(d.lowlink[id], d.indices[dep])
		}
	}

	if d.lowlink[id] == d.indices[id] {
		var scc []N
		for {
			n := len(d.stack) - 1
			w := d.stack[n]
			d.stack = d.stack[:n]
			d.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		d.sccs = append(d.sccs, scc)
	}
}

func (g *Graph[N]) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)
	color := make(map[N]int, len(g.nodes))

	var dfs func(id N) bool
	dfs = func(id N) bool {
		color[id] = gray
		for _, dep := range g.edges[id] {
			switch color[dep] {
			case gray:
				return true
			case white:
				if dfs(dep) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.nodes {
		if color[id] == white && dfs(id) {
			return true
		}
	}
	return false
}

// FindCyclePath returns a path that starts and ends on the same node, reachable
// from start, or nil when start reaches no cycle.
func (g *Graph[N]) FindCyclePath(start N) []N {
	visited := make(map[N]bool)
	inPath := make(map[N]bool)
	var path []N

	var dfs func(id N) []N
	dfs = func(id N) []N {
		if inPath[id] {
			var cyclePath []N
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cyclePath = append(cyclePath, p)
				}
			}
			return append(cyclePath, id)
		}

		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}
