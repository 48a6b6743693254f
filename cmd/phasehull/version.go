package main

import (
	"fmt"

	"github.com/reglet-dev/phasehull/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of phasehull",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			text := info.Full()
			if short {
				text = info.String()
			} else if !info.IsRelease() {
				text += " (development build)"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "phasehull version %s\n", text)
			return err
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
