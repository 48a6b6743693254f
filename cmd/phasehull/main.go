// Package main provides the phasehull CLI for predicting stable compounds in
// binary chemical systems.
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
