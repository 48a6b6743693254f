package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/ports"
	"github.com/spf13/cobra"
)

var validFormats = []string{"table", "json", "yaml"}

// CommonOptions contains output and execution flags shared by query commands.
type CommonOptions struct {
	// Output
	Format string
	Output string

	// Execution
	Timeout time.Duration

	NoColor bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 2 * time.Minute,
		Format:  "table",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the whole command (0 to disable)")
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colors in table output")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if !slices.Contains(validFormats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: table, json, yaml)", opts.Format)
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	return nil
}

// formatter opens the output destination and creates the formatter for it.
// The returned close function must be called once output is written.
func (opts *CommonOptions) formatter(
	factory ports.OutputFormatterFactory,
	stdout io.Writer,
) (ports.OutputFormatter, func() error, error) {
	writer := stdout
	closeFn := func() error { return nil }
	toFile := opts.Output != ""

	if toFile {
		f, err := os.Create(opts.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		writer = f
		closeFn = f.Close
	}

	formatter, err := factory.Create(opts.Format, writer, ports.FormatterOptions{
		Indent: true,
		Color:  !opts.NoColor && !toFile,
	})
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return formatter, closeFn, nil
}
