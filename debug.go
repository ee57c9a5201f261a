package hilt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danpasecinic/hilt/internal/graph"
)

// Snapshot is a recorded dependency graph. Edges point from a consumer to the
// keys it resolved while being built.
type Snapshot = graph.Snapshot[Key]

// Plan orders a snapshot so that every key comes after its dependencies.
type Plan = graph.Plan[Key]

func keyLabel(k Key) string {
	return k.String()
}

// StartRecording clears any previous recording and starts capturing the
// resolutions performed through c. Resolutions performed through a child are
// recorded by the child.
func (c *Container) StartRecording() {
	c.internal.StartRecording()
}

// StopRecording stops capturing and returns what was recorded. It reports false
// if recording was never started.
func (c *Container) StopRecording() (Snapshot, bool) {
	return c.internal.StopRecording()
}

// Recording returns the current recording without stopping it.
func (c *Container) Recording() (Snapshot, bool) {
	return c.internal.Recording()
}

// BuildPlan orders the current recording.
func (c *Container) BuildPlan() (*Plan, error) {
	s, ok := c.internal.Recording()
	if !ok {
		return nil, errNoRecording()
	}
	return buildPlan(s)
}

// BuildPlan orders an explicit graph. Edge targets missing from nodes are added
// after the listed nodes.
func BuildPlan(nodes []Key, edges map[Key][]Key) (*Plan, error) {
	return buildPlan(graph.FromEdges(nodes, edges).Snapshot())
}

func buildPlan(s Snapshot) (*Plan, error) {
	p, err := graph.BuildPlan(s)
	if err != nil {
		return nil, errCycleInPlan(err)
	}
	return p, nil
}

// ExportDOT renders the current recording as Graphviz DOT. It reports false
// when nothing was recorded.
func (c *Container) ExportDOT() (string, bool) {
	s, ok := c.internal.Recording()
	if !ok || s.Empty() {
		return "", false
	}
	return planOf(s).DOT(keyLabel), true
}

// WriteDOT writes the current recording as Graphviz DOT.
func (c *Container) WriteDOT(w io.Writer) error {
	s, ok := c.internal.Recording()
	if !ok {
		return errNoRecording()
	}
	return planOf(s).WriteDOT(w, keyLabel)
}

// ExportYAML renders the current recording as a YAML document readable by
// hiltplan. It reports false when nothing was recorded.
func (c *Container) ExportYAML() ([]byte, bool) {
	s, ok := c.internal.Recording()
	if !ok || s.Empty() {
		return nil, false
	}
	out, err := graph.EncodeYAML(s, keyLabel)
	if err != nil {
		return nil, false
	}
	return out, true
}

// planOf orders the snapshot for rendering. A cyclic recording has no plan, so
// it is rendered in recording order instead.
func planOf(s Snapshot) *Plan {
	if p, err := graph.BuildPlan(s); err == nil {
		return p
	}
	return &Plan{Order: s.Nodes, Edges: s.Edges}
}

// PrintPlan writes the plan order to stdout, one key per line.
func PrintPlan(p *Plan) {
	FprintPlan(os.Stdout, p)
}

func FprintPlan(w io.Writer, p *Plan) {
	if len(p.Order) == 0 {
		_, _ = fmt.Fprintln(w, "(empty plan)")
		return
	}

	for i, k := range p.Order {
		deps := p.Edges[k]
		if len(deps) == 0 {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, k)
			continue
		}
		names := make([]string, len(deps))
		for j, d := range deps {
			names[j] = d.String()
		}
		_, _ = fmt.Fprintf(w, "%d. %s ← %s\n", i+1, k, strings.Join(names, ", "))
	}
}

func SprintPlan(p *Plan) string {
	var sb strings.Builder
	FprintPlan(&sb, p)
	return sb.String()
}
