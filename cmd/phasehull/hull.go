package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHullCmd(root *rootOptions) *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:   "hull <entries.yaml>",
		Short: "Build a phase diagram from known formation energies",
		Long: `Compute the convex hull of a binary system from an entry file instead of
estimated energies:

  elements: [Li, O]
  entries:
    - formula: Li2O
      energy_per_atom: -2.07

Pure-element references are added when missing.`,
		Example: `  phasehull hull li-o.yaml
  phasehull hull li-o.yaml --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: withContainer(root, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}

			req, err := ctx.Container.InputLoader().LoadEntries(args[0])
			if err != nil {
				return err
			}

			runCtx, cancel := opts.ApplyToContext(ctx.Context)
			defer cancel()

			resp, err := ctx.Container.BuildDiagramUseCase().Execute(runCtx, *req)
			if err != nil {
				return err
			}

			formatter, closeOutput, err := opts.formatter(ctx.Container.FormatterFactory(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := formatter.Format(resp); err != nil {
				_ = closeOutput()
				return fmt.Errorf("failed to format output: %w", err)
			}
			return closeOutput()
		}),
	}

	opts.RegisterFlags(cmd)
	return cmd
}
