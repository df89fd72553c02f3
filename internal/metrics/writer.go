package metrics

// Metrics output (CSV/JSON) and summary formatting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Writer streams metrics to a CSV file, a JSON array file, or both
type Writer struct {
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	jsonCount int
}

var csvHeader = []string{
	"timestamp",
	"command",
	"success",
	"rtt_ms",
	"attempts",
	"error_kind",
	"error",
}

// NewWriter creates a new metrics writer. Either path may be empty.
func NewWriter(csvPath, jsonPath string) (*Writer, error) {
	w := &Writer{}

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("create CSV file: %w", err)
		}
		w.csvFile = file
		w.csvWriter = csv.NewWriter(file)
		if err := w.csvWriter.Write(csvHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("write CSV header: %w", err)
		}
		w.csvWriter.Flush()
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("create JSON file: %w", err)
		}
		w.jsonFile = file
		if _, err := file.WriteString("[\n"); err != nil {
			file.Close()
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("write JSON start: %w", err)
		}
	}

	return w, nil
}

// NewFileWriter picks the format from the extension: .json writes a JSON
// array, anything else CSV.
func NewFileWriter(path string) (*Writer, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewWriter("", path)
	}
	return NewWriter(path, "")
}

// WriteMetric writes a single metric
func (w *Writer) WriteMetric(m Metric) error {
	if w.csvWriter != nil {
		record := []string{
			m.Timestamp.UTC().Format(time.RFC3339Nano),
			m.Command,
			strconv.FormatBool(m.Success),
			formatRTT(m.RTTMs),
			strconv.Itoa(m.Attempts),
			m.ErrorKind,
			m.Error,
		}
		if err := w.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
		w.csvWriter.Flush()
		if err := w.csvWriter.Error(); err != nil {
			return fmt.Errorf("flush CSV: %w", err)
		}
	}

	if w.jsonFile != nil {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if w.jsonCount > 0 {
			if _, err := w.jsonFile.WriteString(",\n"); err != nil {
				return fmt.Errorf("write JSON comma: %w", err)
			}
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "  ", "  "); err != nil {
			return fmt.Errorf("indent JSON: %w", err)
		}
		if _, err := w.jsonFile.WriteString("  "); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if _, err := w.jsonFile.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		w.jsonCount++
	}

	return nil
}

// Close closes the writer and flushes all data
func (w *Writer) Close() error {
	var errs []error

	if w.csvWriter != nil {
		w.csvWriter.Flush()
	}
	if w.csvFile != nil {
		if err := w.csvFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if w.jsonFile != nil {
		if _, err := w.jsonFile.WriteString("\n]\n"); err != nil {
			errs = append(errs, err)
		}
		if err := w.jsonFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close writer: %v", errs)
	}
	return nil
}

// formatRTT formats RTT value for CSV (empty string if 0)
func formatRTT(rtt float64) string {
	if rtt == 0 {
		return ""
	}
	return fmt.Sprintf("%.3f", rtt)
}

var bucketOrder = []string{"lt_5ms", "5_10ms", "10_50ms", "50_100ms", "100_500ms", "500_1000ms", "gt_1000ms"}

// FormatSummary formats a summary for human-readable output
func FormatSummary(summary *Summary) string {
	var b strings.Builder
	if summary.TotalOperations == 0 {
		b.WriteString("Total Exchanges: 0\n")
		return b.String()
	}

	total := float64(summary.TotalOperations)
	fmt.Fprintf(&b, "Total Exchanges: %d\n", summary.TotalOperations)
	fmt.Fprintf(&b, "Successful: %d (%.1f%%)\n", summary.SuccessfulOps, float64(summary.SuccessfulOps)/total*100)
	fmt.Fprintf(&b, "Failed: %d (%.1f%%)\n", summary.FailedOps, float64(summary.FailedOps)/total*100)
	if summary.TimeoutCount > 0 {
		fmt.Fprintf(&b, "Timeouts: %d\n", summary.TimeoutCount)
	}
	if summary.DeviceErrors > 0 {
		fmt.Fprintf(&b, "Device Errors: %d\n", summary.DeviceErrors)
	}
	if summary.Retries > 0 {
		fmt.Fprintf(&b, "Retries: %d\n", summary.Retries)
	}
	if len(summary.ErrorsByKind) > 0 {
		kinds := make([]string, 0, len(summary.ErrorsByKind))
		for k := range summary.ErrorsByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		b.WriteString("Errors:")
		for _, k := range kinds {
			fmt.Fprintf(&b, " %s=%d", k, summary.ErrorsByKind[k])
		}
		b.WriteString("\n")
	}

	if summary.SuccessfulOps > 0 {
		b.WriteString("\nRTT Statistics:\n")
		fmt.Fprintf(&b, "  Min: %.3f ms\n", summary.MinRTT)
		fmt.Fprintf(&b, "  Max: %.3f ms\n", summary.MaxRTT)
		fmt.Fprintf(&b, "  Avg: %.3f ms\n", summary.AvgRTT)
		if summary.P50RTT > 0 || summary.P99RTT > 0 {
			fmt.Fprintf(&b, "  P50: %.3f ms\n", summary.P50RTT)
			fmt.Fprintf(&b, "  P90: %.3f ms\n", summary.P90RTT)
			fmt.Fprintf(&b, "  P95: %.3f ms\n", summary.P95RTT)
			fmt.Fprintf(&b, "  P99: %.3f ms\n", summary.P99RTT)
		}
		if len(summary.RTTBuckets) > 0 {
			b.WriteString("  Buckets:")
			for _, k := range bucketOrder {
				if n := summary.RTTBuckets[k]; n > 0 {
					fmt.Fprintf(&b, " %s=%d", k, n)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(summary.RTTByCommand) > 1 {
		names := make([]string, 0, len(summary.RTTByCommand))
		for name := range summary.RTTByCommand {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("\nPer-Command Statistics:\n")
		for _, name := range names {
			stats := summary.RTTByCommand[name]
			fmt.Fprintf(&b, "  %s: %d exchanges (%d success, %d failed)", name, stats.Count, stats.Success, stats.Failed)
			if stats.Success > 0 {
				fmt.Fprintf(&b, " - RTT: min=%.3fms, max=%.3fms, avg=%.3fms", stats.MinRTT, stats.MaxRTT, stats.AvgRTT)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
