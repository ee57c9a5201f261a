// Package commands implements the hiltplan CLI commands.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/danpasecinic/hilt/internal/graph"
)

// CLI represents the command line interface for hiltplan.
type CLI struct {
	rootCmd *cobra.Command
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "hiltplan",
		Short:         "Order and render hilt dependency graph snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newOrderCmd())
	rootCmd.AddCommand(c.newDotCmd())
	rootCmd.AddCommand(c.newCyclesCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func identity(s string) string {
	return s
}

func loadPlan(path string) (*graph.Plan[string], error) {
	s, err := graph.ReadYAML(path)
	if err != nil {
		return nil, err
	}
	return graph.BuildPlan(s)
}
