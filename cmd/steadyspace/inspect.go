package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/steadyspace/internal/runner"
)

func inspectCmd(g *globals) *cobra.Command {
	var maxLoops int

	cmd := &cobra.Command{
		Use:   "inspect MODEL",
		Short: "Describe a model's species, regulations and feedback loops",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxLoops < 0 {
				return fmt.Errorf("invalid --max-loops %d", maxLoops)
			}
			rep, err := runner.Inspect(args[0], maxLoops)
			if err != nil {
				return err
			}

			return rep.Write(g.stdout)
		},
	}
	cmd.Flags().IntVar(&maxLoops, "max-loops", 1000, "Stop listing feedback loops after this many (0 = all)")

	return cmd
}
