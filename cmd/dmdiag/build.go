package main

import (
	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

type buildFlags struct {
	params     []string
	bufferSize int
	dump       bool
}

func newBuildCmd() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build <command>",
		Short: "Print the framed request for a command",
		Example: `  # Framed version request
  dmdiag build version-info

  # Roaming preference write, annotated
  dmdiag build nv-set-roam-pref --param profile=0 --param pref=auto --dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingInputError(cmd, "<command>")
			}
			return app.RunBuild(app.BuildOptions{
				Command:    args[0],
				Params:     flags.params,
				BufferSize: flags.bufferSize,
				Dump:       flags.dump,
				Out:        cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringArrayVar(&flags.params, "param", nil, "Command parameter as key=value (repeatable)")
	cmd.Flags().IntVar(&flags.bufferSize, "buffer", 0, "Destination buffer size (0 sizes it to fit)")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "Print an annotated hex dump")

	return cmd
}
