package main

import (
	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

type pcapFlags struct {
	input      string
	output     string
	outFile    string
	dump       bool
	noProgress bool
}

func newPcapCmd() *cobra.Command {
	flags := &pcapFlags{}

	cmd := &cobra.Command{
		Use:   "pcap",
		Short: "Decode DM traffic from a capture file or directory",
		Long: `Decode every DM frame in a pcap/pcapng capture. Raw DM captures
(link type 147, as written by 'dmdiag query --capture') and Linux usbmon
captures of the modem's bulk endpoints are supported.`,
		Example: `  dmdiag pcap --input pilots.pcap
  dmdiag pcap --input captures/ --output json
  dmdiag pcap --input modem.pcapng --out report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd, args) {
				return nil
			}
			if flags.input == "" && len(args) > 0 {
				flags.input = args[0]
			}
			if flags.input == "" {
				return missingInputError(cmd, "--input")
			}
			opts := app.PCAPOptions{
				Input:   flags.input,
				Format:  flags.output,
				OutFile: flags.outFile,
				Dump:    flags.dump,
				Version: version,
				Out:     cmd.OutOrStdout(),
			}
			if !flags.noProgress {
				opts.Progress = cmd.ErrOrStderr()
			}
			return app.RunPCAP(opts)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Capture file or directory (required)")
	cmd.Flags().StringVar(&flags.output, "output", "text", "Output format: text|json")
	cmd.Flags().StringVar(&flags.outFile, "out", "", "Also write a JSON report to this file")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "Hex dump every frame")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Do not draw a progress line when decoding a directory")

	return cmd
}
