package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/phasehull/internal/infrastructure/container"
	"github.com/spf13/cobra"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization:
// config file, environment and flag overrides, then dependency injection.
func withContainer(opts *rootOptions, handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(container.Options{
			SystemConfigPath: opts.configPath(),
			Overrides:        opts.overrides,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		return handler(&CommandContext{
			Container: c,
			Logger:    logger,
			Context:   ctx,
		}, cmd, args)
	}
}
