package commands

import (
	"github.com/spf13/cobra"

	"github.com/danpasecinic/hilt/internal/graph"
)

func (c *CLI) newDotCmd() *cobra.Command {
	var ordered bool

	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Render the snapshot as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan *graph.Plan[string]
			if ordered {
				p, err := loadPlan(args[0])
				if err != nil {
					return err
				}
				plan = p
			} else {
				s, err := graph.ReadYAML(args[0])
				if err != nil {
					return err
				}
				plan = &graph.Plan[string]{Order: s.Nodes, Edges: s.Edges}
			}
			return plan.WriteDOT(cmd.OutOrStdout(), identity)
		},
	}

	cmd.Flags().BoolVar(&ordered, "ordered", false, "Emit nodes in dependency order; fails on cycles")
	return cmd
}
