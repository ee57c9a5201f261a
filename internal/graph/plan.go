package graph

// Plan is a dependency-first ordering of a recorded graph together with its edges.
type Plan[N comparable] struct {
	Order []N
	Edges map[N][]N
}

// BuildPlan orders the snapshot or fails with ErrCycleDetected. The order always
// contains every node of the snapshot.
func BuildPlan[N comparable](s Snapshot[N]) (*Plan[N], error) {
	g := s.Graph()
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	return &Plan[N]{Order: order, Edges: g.Edges()}, nil
}

// Position returns the index of id in the order, or -1.
func (p *Plan[N]) Position(id N) int {
	for i, n := range p.Order {
		if n == id {
			return i
		}
	}
	return -1
}

// Snapshot converts the plan back into a snapshot whose node order is the plan order.
func (p *Plan[N]) Snapshot() Snapshot[N] {
	return Snapshot[N]{Nodes: p.Order, Edges: p.Edges}
}
