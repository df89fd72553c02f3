package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the DM commands and their parameters",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %-14s %s\n", "COMMAND", "PARAMS", "DESCRIPTION")
			app.ListCommands(cmd.OutOrStdout())
		},
	}
}
