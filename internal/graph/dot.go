package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Labeler renders a node for humans.
type Labeler[N comparable] func(N) string

// WriteDOT renders the plan in Graphviz DOT. Nodes are declared in plan order;
// arcs point from consumer to dependency. Node ids hash the label, and distinct
// nodes that render the same label get a numeric suffix.
func (p *Plan[N]) WriteDOT(w io.Writer, label Labeler[N]) error {
	ids := newNodeIDs[N](len(p.Order))
	var sb strings.Builder

	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	for _, n := range p.Order {
		text := label(n)
		fmt.Fprintf(&sb, "  %s [label=\"%s\"];\n", ids.of(n, text), EscapeLabel(text))
	}

	sb.WriteString("\n")

	for _, n := range p.Order {
		for _, dep := range p.Edges[n] {
			fmt.Fprintf(&sb, "  %s -> %s;\n", ids.of(n, label(n)), ids.of(dep, label(dep)))
		}
	}

	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (p *Plan[N]) DOT(label Labeler[N]) string {
	var sb strings.Builder
	_ = p.WriteDOT(&sb, label)
	return sb.String()
}

type nodeIDs[N comparable] struct {
	byNode map[N]string
	taken  map[string]bool
}

func newNodeIDs[N comparable](size int) *nodeIDs[N] {
	return &nodeIDs[N]{
		byNode: make(map[N]string, size),
		taken:  make(map[string]bool, size),
	}
}

// of returns the id of n, assigning one on first use.
func (ids *nodeIDs[N]) of(n N, label string) string {
	if id, ok := ids.byNode[n]; ok {
		return id
	}
	id := nodeID(label)
	for i := 1; ids.taken[id]; i++ {
		id = fmt.Sprintf("%s_%d", nodeID(label), i)
	}
	ids.byNode[n] = id
	ids.taken[id] = true
	return id
}

func nodeID(label string) string {
	return fmt.Sprintf("n%016x", xxhash.Sum64String(label))
}

// EscapeLabel makes s safe inside a double-quoted DOT string.
func EscapeLabel(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(s)
}
