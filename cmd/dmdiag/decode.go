package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

type decodeFlags struct {
	hex      string
	command  string
	unframed bool
	dump     bool
	output   string
}

func newDecodeCmd() *cobra.Command {
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a DM response given as hex",
		Long: `Decode one DM response. By default the input is a framed message
(escaped, CRC and 0x7E terminator); use --unframed for a raw payload.
The command is found from the opcode unless --command is given, which is
needed for device error replies.`,
		Example: `  dmdiag decode --hex "01 01 02 03 04 ..."
  dmdiag decode --unframed --command esn 1301`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd, args) {
				return nil
			}
			if flags.hex == "" && len(args) > 0 {
				flags.hex = strings.Join(args, " ")
			}
			if flags.hex == "" {
				return missingInputError(cmd, "--hex")
			}
			return app.RunDecode(app.DecodeOptions{
				Hex:      flags.hex,
				Command:  flags.command,
				Unframed: flags.unframed,
				Dump:     flags.dump,
				Format:   flags.output,
				Version:  version,
				Out:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&flags.hex, "hex", "", "Response bytes as hex (required)")
	cmd.Flags().StringVar(&flags.command, "command", "", "Command the response belongs to")
	cmd.Flags().BoolVar(&flags.unframed, "unframed", false, "Input is a raw payload without HDLC framing")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "Print an annotated hex dump first")
	cmd.Flags().StringVar(&flags.output, "output", "text", "Output format: text|json")

	return cmd
}
