// Package graph holds dependency graphs recorded from live resolutions and the
// planning algorithms that run over them.
package graph

import "slices"

// Graph is a directed graph whose edges point from a consumer to the node it
// depends on. Nodes and edges keep their insertion order.
type Graph[N comparable] struct {
	nodes []N
	index map[N]int
	edges map[N][]N
}

func New[N comparable]() *Graph[N] {
	return &Graph[N]{
		index: make(map[N]int),
		edges: make(map[N][]N),
	}
}

// FromEdges builds a graph from a node list and an adjacency map. Nodes that
// only appear in edges are appended after the listed ones.
func FromEdges[N comparable](nodes []N, edges map[N][]N) *Graph[N] {
	g := New[N]()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, n := range nodes {
		for _, dep := range edges[n] {
			g.AddEdge(n, dep)
		}
	}
	for from, deps := range edges {
		for _, dep := range deps {
			g.AddEdge(from, dep)
		}
	}
	return g
}

func (g *Graph[N]) AddNode(id N) {
	if _, exists := g.index[id]; exists {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
}

func (g *Graph[N]) AddEdge(from, to N) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

func (g *Graph[N]) HasNode(id N) bool {
	_, exists := g.index[id]
	return exists
}

func (g *Graph[N]) Nodes() []N {
	return slices.Clone(g.nodes)
}

func (g *Graph[N]) Dependencies(id N) []N {
	return slices.Clone(g.edges[id])
}

// Edges returns a copy of the adjacency map.
func (g *Graph[N]) Edges() map[N][]N {
	out := make(map[N][]N, len(g.edges))
	for from, deps := range g.edges {
		out[from] = slices.Clone(deps)
	}
	return out
}

func (g *Graph[N]) Size() int {
	return len(g.nodes)
}

// Snapshot is an immutable copy of a recorded graph.
type Snapshot[N comparable] struct {
	Nodes []N
	Edges map[N][]N
}

func (g *Graph[N]) Snapshot() Snapshot[N] {
	return Snapshot[N]{Nodes: g.Nodes(), Edges: g.Edges()}
}

func (s Snapshot[N]) Empty() bool {
	return len(s.Nodes) == 0
}

func (s Snapshot[N]) Contains(id N) bool {
	return slices.Contains(s.Nodes, id)
}

func (s Snapshot[N]) HasEdge(from, to N) bool {
	return slices.Contains(s.Edges[from], to)
}

func (s Snapshot[N]) Graph() *Graph[N] {
	return FromEdges(s.Nodes, s.Edges)
}
