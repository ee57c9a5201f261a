package graph

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// ErrCycleDetected is returned when a graph cannot be ordered.
var ErrCycleDetected = zerr.New("cycle detected in graph")

// TopologicalSort orders nodes dependency-first using Kahn's algorithm: a node's
// in-degree is the number of dependencies it still waits for. Ready nodes are
// taken in insertion order.
func (g *Graph[N]) TopologicalSort() ([]N, error) {
	nodeCount := len(g.nodes)
	dependents := make(map[N][]N, nodeCount)
	inDegree := make(map[N]int, nodeCount)

	for _, id := range g.nodes {
		inDegree[id] = 0
	}

	for _, id := range g.nodes {
		for _, dep := range g.edges[id] {
			dependents[dep] = append(dependents[dep], id)
			inDegree[id]++
		}
	}

	queue := make([]N, 0, nodeCount)
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]N, 0, nodeCount)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != nodeCount {
		return nil, g.cycleError(inDegree)
	}

	return sorted, nil
}

func (g *Graph[N]) cycleError(inDegree map[N]int) error {
	var remaining []N
	for _, id := range g.nodes {
		if inDegree[id] > 0 {
			remaining = append(remaining, id)
		}
	}

	err := zerr.Wrap(ErrCycleDetected, "topological sort failed")
	err = zerr.With(err, "remaining", len(remaining))

	cycles := g.DetectCycles()
	if len(cycles) > 0 {
		path := g.FindCyclePath(cycles[0][0])
		err = zerr.With(err, "cycle", formatPath(path))
	}
	return err
}

func formatPath[N comparable](path []N) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " -> ")
}

func (g *Graph[N]) ReverseTopologicalSort() ([]N, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	n := len(sorted)
	reversed := make([]N, n)
	for i, v := range sorted {
		reversed[n-1-i] = v
	}

	return reversed, nil
}
