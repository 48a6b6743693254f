package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/reglet-dev/phasehull/internal/application/dto"
	"github.com/reglet-dev/phasehull/internal/domain/values"
	"github.com/spf13/cobra"
)

type predictOptions struct {
	CommonOptions
	Filter      string
	ShowDiagram bool
	Interactive bool
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	opts := &predictOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "predict <element-a> <element-b>",
		Short: "Predict the stable compounds of a binary system",
		Long: `Generate candidate compositions for two elements, estimate their formation
energies and report the compounds on the lower convex hull.

Filtering:
  --filter "energy_per_atom < -1.0"   Keep products matching an expression
                                      over formula, energy_per_atom, fraction`,
		Example: `  phasehull predict Li O
  phasehull predict Fe Al --show-diagram
  phasehull predict Li O --format json --output li-o.json
  phasehull predict --interactive`,
		Args: cobra.MaximumNArgs(2),
		RunE: withContainer(root, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}

			elementA, elementB, err := opts.elements(args)
			if err != nil {
				return err
			}

			runCtx, cancel := opts.ApplyToContext(ctx.Context)
			defer cancel()

			resp, err := ctx.Container.ReactionProductsUseCase().Execute(runCtx, dto.ReactionRequest{
				ElementA:       elementA,
				ElementB:       elementB,
				Filter:         opts.Filter,
				IncludeEntries: opts.ShowDiagram,
			})
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
	cmd.Flags().StringVar(&opts.Filter, "filter", "",
		"Product filter expression (e.g. \"fraction > 0.5\")")
	cmd.Flags().BoolVar(&opts.ShowDiagram, "show-diagram", false,
		"Include every diagram entry with its stability and energy above hull")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false,
		"Prompt for missing elements")

	return cmd
}

// elements returns the two reactant symbols from args, prompting for the
// missing ones in interactive mode.
func (opts *predictOptions) elements(args []string) (string, string, error) {
	symbols := make([]string, 2)
	copy(symbols, args)

	if len(args) == 2 {
		return symbols[0], symbols[1], nil
	}
	if !opts.Interactive {
		return "", "", fmt.Errorf("predict requires two elements, got %d (use --interactive to be prompted)", len(args))
	}

	titles := []string{"First element", "Second element"}
	for i := len(args); i < 2; i++ {
		err := huh.NewInput().
			Title(titles[i]).
			Placeholder("e.g. Li").
			Validate(validateSymbol).
			Value(&symbols[i]).
			Run()
		if err != nil {
			return "", "", err
		}
	}
	return symbols[0], symbols[1], nil
}

func validateSymbol(s string) error {
	if !values.IsKnownSymbol(s) {
		return fmt.Errorf("unknown element symbol %q", s)
	}
	return nil
}
