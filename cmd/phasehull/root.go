package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/reglet-dev/phasehull/internal/infrastructure/config"
	"github.com/reglet-dev/phasehull/internal/infrastructure/estimator"
	"github.com/reglet-dev/phasehull/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	overrides *viper.Viper
	logOutput io.Writer
	cfgFile   string
	logFormat string
	verbose   bool
}

// configPath returns the --config value or the default system config path.
func (o *rootOptions) configPath() string {
	if o.cfgFile != "" {
		return o.cfgFile
	}
	return system.DefaultPath()
}

// newRootCmd builds the application entry point with all subcommands.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		overrides: config.NewViper(),
		logOutput: os.Stderr,
	}

	cmd := &cobra.Command{
		Use:   "phasehull",
		Short: "Predict stable compounds in binary chemical systems",
		Long: `Phasehull proposes candidate compounds for a pair of elements, estimates
their formation energies and builds the lower convex hull of formation energy
against composition. Compounds on the hull are the thermodynamically stable
products of the system.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging(opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.phasehull/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text, json")
	flags.String("estimator", "", "energy estimator: "+strings.Join(estimator.Kinds(), ", "))
	flags.String("table", "", "prediction table file for the table estimator")
	flags.Int64("seed", 0, "seed for the random estimator")

	// Bind errors only occur for nil flags.
	_ = opts.overrides.BindPFlag("estimator.kind", flags.Lookup("estimator"))
	_ = opts.overrides.BindPFlag("estimator.table_path", flags.Lookup("table"))
	_ = opts.overrides.BindPFlag("estimator.seed", flags.Lookup("seed"))

	cmd.AddCommand(
		newPredictCmd(opts),
		newGridCmd(opts),
		newHullCmd(opts),
		newBatchCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func setupLogging(opts *rootOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch opts.logFormat {
	case "text", "":
		// Using TextHandler for CLI friendliness
		handler = slog.NewTextHandler(opts.logOutput, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(opts.logOutput, handlerOpts)
	default:
		return fmt.Errorf("invalid log format: %s (valid: text, json)", opts.logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
