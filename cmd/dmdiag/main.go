package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dmdiag",
		Short: "DM diagnostic protocol client for CDMA/EV-DO modems",
		Long: `dmdiag talks to the DM diagnostic port of CDMA/EV-DO modems.

It builds framed DM requests, sends them over a serial port or a TCP serial
bridge, and decodes the responses. Captures of DM traffic (raw DM link type
147 or Linux usbmon) can be decoded offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newPollCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newPcapCmd())
	rootCmd.AddCommand(newPortsCmd())
	rootCmd.AddCommand(newConfigCmd())

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usage:\n  %s <command> [arguments] [options]\n\n", cmd.Name())
		fmt.Fprintf(out, "Available Commands:\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.Hidden {
				fmt.Fprintf(out, "  %-15s %s\n", subCmd.Name(), subCmd.Short)
			}
		}
		fmt.Fprintf(out, "\nUse \"%s help <command>\" for more information about a command.\n", cmd.Name())
	})
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
