package main

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/spf13/cobra"
)

func newGridCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "grid <element-a> <element-b>",
		Short:   "Print the candidate formulas of a binary system",
		Example: `  phasehull grid Li O`,
		Args:    cobra.ExactArgs(2),
		RunE: withContainer(root, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			a, err := values.NewElement(args[0])
			if err != nil {
				return err
			}
			b, err := values.NewElement(args[1])
			if err != nil {
				return err
			}
			if a.Equals(b) {
				return fmt.Errorf("elements must differ, got %s twice", a)
			}

			out := cmd.OutOrStdout()
			for _, formula := range ctx.Container.Grid().Generate(a, b) {
				if _, err := fmt.Fprintln(out, formula); err != nil {
					return fmt.Errorf("failed to write formula: %w", err)
				}
			}
			return nil
		}),
	}
}
