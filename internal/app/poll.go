package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/dm/result"
	"github.com/tonylturner/dmdiag/internal/metrics"
	"github.com/tonylturner/dmdiag/internal/progress"
	"github.com/tonylturner/dmdiag/internal/report"
	"github.com/tonylturner/dmdiag/internal/transport"
)

type PollOptions struct {
	QueryOptions
	Interval    time.Duration
	Count       int       // 0 polls until ctx is canceled
	MetricsFile string    // per-exchange metrics, .json or CSV
	Progress    io.Writer // progress line, nil for none
}

// RunPoll sends the same command repeatedly, records per-exchange metrics,
// and prints a summary. Failed exchanges are counted, not fatal; the run ends
// after Count exchanges or when ctx is canceled.
func RunPoll(ctx context.Context, opts PollOptions) error {
	w := outWriter(opts.Out)
	if opts.Count < 0 {
		return fmt.Errorf("count must be >= 0")
	}
	if opts.Interval < 0 {
		return fmt.Errorf("interval must be >= 0")
	}

	q, err := openQuery(ctx, opts.QueryOptions)
	if err != nil {
		return err
	}
	defer q.close()

	var mw *metrics.Writer
	if opts.MetricsFile != "" {
		mw, err = metrics.NewFileWriter(opts.MetricsFile)
		if err != nil {
			return err
		}
		defer mw.Close()
	}

	sink := metrics.NewSink()
	bar := progress.NewBar(opts.Progress, opts.Count, "poll "+q.cmd.Name, "exchanges")
	var last *result.Result
	var lastErr string

	for i := 0; opts.Count == 0 || i < opts.Count; i++ {
		if i > 0 && !waitInterval(ctx, opts.Interval) {
			break
		}
		res, ex, err := q.sess.Do(ctx, q.cmd, q.params)
		if err != nil && ctx.Err() != nil {
			break
		}

		m := metrics.Metric{Timestamp: time.Now(), Command: q.cmd.Name, Success: err == nil}
		if ex != nil {
			m.RTTMs = float64(ex.RTT.Microseconds()) / 1000
			m.Attempts = ex.Attempts
		}
		status := fmt.Sprintf("%.1fms", m.RTTMs)
		if err != nil {
			m.ErrorKind = errorKind(err)
			m.Error = err.Error()
			lastErr = m.Error
			status = m.ErrorKind
			q.logger.Verbose("Poll %d: %s failed: %v", i+1, q.cmd.Name, err)
		} else {
			last = res
		}
		sink.Record(m)
		if mw != nil {
			if err := mw.WriteMetric(m); err != nil {
				return err
			}
		}
		bar.Step(status)
	}
	bar.Finish()

	rep := &report.PollReport{
		GeneratedAt: report.FormatTimestamp(time.Now()),
		Version:     opts.Version,
		Port:        q.cfg.Serial.Port,
		Command:     q.cmd.Name,
		IntervalMs:  opts.Interval.Milliseconds(),
		Summary:     sink.GetSummary(),
		Last:        last,
		LastError:   lastErr,
	}
	if q.cfg.Output.Format == "json" {
		return report.WriteJSON(w, rep)
	}
	report.WritePollText(w, rep)
	return nil
}

// waitInterval sleeps d and reports false if ctx ended first.
func waitInterval(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func errorKind(err error) string {
	if errors.Is(err, transport.ErrTimeout) {
		return metrics.ErrorKindTimeout
	}
	if kind := dm.KindOf(err); kind != 0 {
		return kind.String()
	}
	return metrics.ErrorKindTransport
}
