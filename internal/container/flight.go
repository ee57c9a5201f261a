package container

import (
	"sync"

	"github.com/danpasecinic/hilt/internal/key"
)

// flightKey identifies one shared build: an entry being built into the cache
// of target.
type flightKey struct {
	target *Container
	entry  *ProviderEntry
}

// waitGraph tracks which shared builds wait on which, across every goroutine
// of one container tree. An edge from a to b means some chain building a is
// blocked on b, either by building it itself or by waiting for its result.
type waitGraph struct {
	mu    sync.Mutex
	edges map[flightKey]map[flightKey]int
}

func newWaitGraph() *waitGraph {
	return &waitGraph{edges: make(map[flightKey]map[flightKey]int)}
}

// wait adds the edge from -> to unless it would close a cycle, in which case
// it returns the keys along the cycle instead. Every cycle is closed by its
// last edge, so the goroutine adding that edge is the one that sees it.
func (g *waitGraph) wait(from, to flightKey) ([]key.Key, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if path := g.path(to, from, make(map[flightKey]bool)); path != nil {
		keys := []key.Key{from.entry.Key}
		for _, fk := range path {
			keys = append(keys, fk.entry.Key)
		}
		return keys, true
	}

	out, ok := g.edges[from]
	if !ok {
		out = make(map[flightKey]int)
		g.edges[from] = out
	}
	out[to]++
	return nil, false
}

func (g *waitGraph) done(from, to flightKey) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := g.edges[from]
	out[to]--
	if out[to] <= 0 {
		delete(out, to)
	}
	if len(out) == 0 {
		delete(g.edges, from)
	}
}

// path returns the builds from src to dst, both included, or nil.
func (g *waitGraph) path(src, dst flightKey, seen map[flightKey]bool) []flightKey {
	if src == dst {
		return []flightKey{src}
	}
	if seen[src] {
		return nil
	}
	seen[src] = true

	for next := range g.edges[src] {
		if rest := g.path(next, dst, seen); rest != nil {
			return append([]flightKey{src}, rest...)
		}
	}
	return nil
}
