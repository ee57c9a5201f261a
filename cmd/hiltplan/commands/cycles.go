package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/danpasecinic/hilt/internal/graph"
)

// ErrCyclesFound is returned by the cycles command when the snapshot is not acyclic.
var ErrCyclesFound = zerr.New("snapshot contains cycles")

func (c *CLI) newCyclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles FILE",
		Short: "List every cycle in the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := graph.ReadYAML(args[0])
			if err != nil {
				return err
			}

			g := s.Graph()
			out := cmd.OutOrStdout()
			if !g.HasCycle() {
				_, _ = fmt.Fprintln(out, "no cycles")
				return nil
			}

			cycles := g.DetectCycles()

			for _, scc := range cycles {
				_, _ = fmt.Fprintln(out, strings.Join(g.FindCyclePath(firstListed(g.Nodes(), scc)), " -> "))
			}
			return zerr.With(zerr.Wrap(ErrCyclesFound, "cycle check failed"), "count", len(cycles))
		},
	}
}

// firstListed returns the member of scc that comes first in nodes, so output
// follows the snapshot's own order.
func firstListed(nodes, scc []string) string {
	for _, n := range nodes {
		if slices.Contains(scc, n) {
			return n
		}
	}
	return scc[0]
}
