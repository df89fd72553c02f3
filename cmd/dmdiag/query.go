package main

import (
	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

type queryFlags struct {
	config    string
	port      string
	baud      int
	timeoutMs int
	retries   int
	output    string
	logLevel  string
	logFile   string
	capture   string
	params    []string
}

func newQueryCmd() *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query <command>",
		Short: "Send one DM command to a modem and decode the reply",
		Long: `Send one DM command to the modem's diagnostic port and print the decoded
response. Run 'dmdiag commands' for the command list and their parameters.

Settings come from the config file (--config) and are overridden by flags.
Commands taking a profile or chipset parameter default to device.profile and
device.chipset from the config.`,
		Example: `  # Read the ESN
  dmdiag query esn --port /dev/ttyUSB0

  # Read the MDN of profile 1 as JSON
  dmdiag query nv-get-mdn --param profile=1 --output json

  # Enable log items 0x1019 and 0x1098 through a TCP serial bridge
  dmdiag query ext-log-mask --port tcp://10.0.0.5:2000 --param items=4121,4248 --param max=4095

  # Record the exchange to a pcap
  dmdiag query pilot-sets --capture pilots.pcap`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingInputError(cmd, "<command>")
			}
			return app.RunQuery(cmd.Context(), app.QueryOptions{
				ConfigPath: flags.config,
				Port:       flags.port,
				Baud:       flags.baud,
				TimeoutMs:  flags.timeoutMs,
				Retries:    flags.retries,
				Format:     flags.output,
				LogLevel:   flags.logLevel,
				LogFile:    flags.logFile,
				Capture:    flags.capture,
				Command:    args[0],
				Params:     flags.params,
				Version:    version,
				Out:        cmd.OutOrStdout(),
			})
		},
	}

	addSessionFlags(cmd, flags)

	return cmd
}

// addSessionFlags registers the flags shared by commands that talk to a modem.
func addSessionFlags(cmd *cobra.Command, flags *queryFlags) {
	cmd.Flags().StringVar(&flags.config, "config", "", "Config file (YAML)")
	cmd.Flags().StringVar(&flags.port, "port", "", "Serial device or tcp://host:port (default from config, /dev/ttyUSB0)")
	cmd.Flags().IntVar(&flags.baud, "baud", 0, "Baud rate (default from config, 115200)")
	cmd.Flags().IntVar(&flags.timeoutMs, "timeout-ms", 0, "Response timeout in milliseconds (default from config, 2000)")
	cmd.Flags().IntVar(&flags.retries, "retries", 1, "Resends after a response timeout")
	cmd.Flags().StringVar(&flags.output, "output", "", "Output format: text|json")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: silent|error|info|verbose|debug")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Also write logs to this file")
	cmd.Flags().StringVar(&flags.capture, "capture", "", "Record every frame to this pcap file")
	cmd.Flags().StringArrayVar(&flags.params, "param", nil, "Command parameter as key=value (repeatable)")
}
