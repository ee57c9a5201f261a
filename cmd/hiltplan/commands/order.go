package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newOrderCmd() *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "order FILE",
		Short: "Print the snapshot in dependency order",
		Long: "Print every key of the snapshot after the keys it depends on. " +
			"With --reverse the order is suitable for teardown.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}

			order := plan.Order
			if reverse {
				if order, err = plan.Snapshot().Graph().ReverseTopologicalSort(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i, n := range order {
				deps := plan.Edges[n]
				if len(deps) == 0 {
					_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, n)
					continue
				}
				_, _ = fmt.Fprintf(out, "%d. %s ← %s\n", i+1, n, strings.Join(deps, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Print dependents before their dependencies")
	return cmd
}
