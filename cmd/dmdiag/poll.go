package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tonylturner/dmdiag/internal/app"
)

type pollFlags struct {
	queryFlags
	intervalMs  int
	count       int
	metricsFile string
	noProgress  bool
}

func newPollCmd() *cobra.Command {
	flags := &pollFlags{}

	cmd := &cobra.Command{
		Use:   "poll <command>",
		Short: "Send a DM command repeatedly and report round-trip statistics",
		Long: `Send the same DM command at a fixed interval and summarize success rate,
timeouts, device errors and round-trip time percentiles. Failed exchanges are
counted and polling continues. With --count 0 polling runs until interrupted;
the summary is printed either way.`,
		Example: `  # Ten status snapshots, one per second
  dmdiag poll status-snapshot --count 10

  # Poll the pilot sets until Ctrl-C and keep per-exchange metrics
  dmdiag poll pilot-sets --count 0 --interval-ms 250 --metrics-file pilots.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingInputError(cmd, "<command>")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			var progress io.Writer
			if !flags.noProgress {
				progress = cmd.ErrOrStderr()
			}
			return app.RunPoll(ctx, app.PollOptions{
				QueryOptions: app.QueryOptions{
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
				},
				Interval:    time.Duration(flags.intervalMs) * time.Millisecond,
				Count:       flags.count,
				MetricsFile: flags.metricsFile,
				Progress:    progress,
			})
		},
	}

	addSessionFlags(cmd, &flags.queryFlags)
	cmd.Flags().IntVar(&flags.intervalMs, "interval-ms", 1000, "Delay between exchanges in milliseconds")
	cmd.Flags().IntVar(&flags.count, "count", 10, "Number of exchanges, 0 to poll until interrupted")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write per-exchange metrics (.json for JSON, otherwise CSV)")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Do not draw the progress line on stderr")

	return cmd
}
