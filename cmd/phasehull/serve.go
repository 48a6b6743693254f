package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve reaction queries over HTTP:

  POST   /predict_reaction   {"element_a": "Li", "element_b": "O"}
  POST   /batch              {"pairs": [...], "filter": "..."}
  GET    /reactions?system=Li-O&limit=20
  GET    /reactions/{id}     stored result
  DELETE /reactions/{id}
  GET    /grid?element_a=Li&element_b=O
  GET    /healthz

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  phasehull serve --addr :8000
  PHASEHULL_ESTIMATOR_KIND=table phasehull serve --table energies.yaml`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			// Servers log JSON unless asked otherwise.
			if f := cmd.Flag("log-format"); f != nil && !f.Changed {
				root.logFormat = "json"
				return setupLogging(root)
			}
			return nil
		},
		RunE: withContainer(root, func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.Container.HTTPServer().Run(sigCtx)
		}),
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr or :8000)")
	cmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins")
	cmd.Flags().Int("max-concurrent", 0, "parallel queries per batch request")
	_ = root.overrides.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = root.overrides.BindPFlag("server.allowed_origins", cmd.Flags().Lookup("allowed-origins"))
	_ = root.overrides.BindPFlag("batch.max_concurrent", cmd.Flags().Lookup("max-concurrent"))

	return cmd
}
