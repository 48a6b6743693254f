package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type batchOptions struct {
	CommonOptions
	Filter        string
	MaxConcurrent int
	FailOnError   bool
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "batch <pairs.yaml>",
		Short: "Predict the stable compounds of many binary systems",
		Long: `Run one query per element pair of a batch file:

  filter: "energy_per_atom < -0.5"
  pairs:
    - {element_a: Li, element_b: O}
    - {element_a: Fe, element_b: Al}

A failing pair is reported on its own line and does not stop the batch.`,
		Example: `  phasehull batch pairs.yaml
  phasehull batch pairs.yaml --max-concurrent 4 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: withContainer(root, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			if opts.MaxConcurrent < 0 {
				return fmt.Errorf("--max-concurrent must not be negative")
			}

			req, err := ctx.Container.InputLoader().LoadBatch(args[0])
			if err != nil {
				return err
			}
			if opts.Filter != "" {
				req.Filter = opts.Filter
			}
			req.MaxConcurrent = ctx.Container.RuntimeConfig().MaxConcurrentQueries
			if opts.MaxConcurrent > 0 {
				req.MaxConcurrent = opts.MaxConcurrent
			}

			runCtx, cancel := opts.ApplyToContext(ctx.Context)
			defer cancel()

			resp, runErr := ctx.Container.BatchReactionsUseCase().Execute(runCtx, *req)
			if resp == nil {
				return runErr
			}

			formatter, closeOutput, err := opts.formatter(ctx.Container.FormatterFactory(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := formatter.FormatBatch(resp); err != nil {
				_ = closeOutput()
				return fmt.Errorf("failed to format output: %w", err)
			}
			if err := closeOutput(); err != nil {
				return err
			}

			if runErr != nil {
				return runErr
			}
			if opts.FailOnError && resp.Failures() > 0 {
				return fmt.Errorf("%d of %d pairs failed", resp.Failures(), len(resp.Items))
			}
			return nil
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.Filter, "filter", "",
		"Product filter expression, overrides the file's filter")
	cmd.Flags().IntVar(&opts.MaxConcurrent, "max-concurrent", 0,
		"Parallel queries (default: batch.max_concurrent or number of CPUs)")
	cmd.Flags().BoolVar(&opts.FailOnError, "fail-on-error", false,
		"Exit non-zero when any pair fails")

	return cmd
}
