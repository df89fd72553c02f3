package main

import (
	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListPorts(cmd.OutOrStdout())
		},
	}
}
