package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleSink() *Sink {
	sink := NewSink()
	sink.Record(Metric{Command: "esn", Success: true, RTTMs: 4, Attempts: 1})
	sink.Record(Metric{Command: "esn", Success: true, RTTMs: 12, Attempts: 2})
	sink.Record(Metric{Command: "esn", Success: false, Attempts: 2, ErrorKind: ErrorKindTimeout, Error: "dm: response timeout"})
	sink.Record(Metric{Command: "sw-version", Success: false, Attempts: 1, ErrorKind: "Bad_Command", Error: "dm: Bad_Command"})
	return sink
}

func TestSinkSummary(t *testing.T) {
	summary := sampleSink().GetSummary()

	if summary.TotalOperations != 4 {
		t.Fatalf("expected total 4, got %d", summary.TotalOperations)
	}
	if summary.SuccessfulOps != 2 || summary.FailedOps != 2 {
		t.Fatalf("unexpected success/fail counts: %d/%d", summary.SuccessfulOps, summary.FailedOps)
	}
	if summary.TimeoutCount != 1 || summary.DeviceErrors != 1 {
		t.Errorf("timeouts=%d device errors=%d, want 1/1", summary.TimeoutCount, summary.DeviceErrors)
	}
	if summary.Retries != 2 {
		t.Errorf("retries = %d, want 2", summary.Retries)
	}
	if summary.MinRTT != 4 || summary.MaxRTT != 12 || summary.AvgRTT != 8 {
		t.Errorf("rtt min/max/avg = %.1f/%.1f/%.1f", summary.MinRTT, summary.MaxRTT, summary.AvgRTT)
	}
	if summary.P50RTT != 4 || summary.P99RTT != 12 {
		t.Errorf("p50=%.1f p99=%.1f", summary.P50RTT, summary.P99RTT)
	}
	if summary.RTTBuckets["lt_5ms"] != 1 || summary.RTTBuckets["10_50ms"] != 1 {
		t.Errorf("buckets = %v", summary.RTTBuckets)
	}
	esn := summary.RTTByCommand["esn"]
	if esn == nil || esn.Count != 3 || esn.Success != 2 || esn.Failed != 1 {
		t.Errorf("esn stats = %+v", esn)
	}
}

func TestSummaryIsCopy(t *testing.T) {
	sink := sampleSink()
	summary := sink.GetSummary()
	summary.RTTByCommand["esn"].Count = 99
	summary.ErrorsByKind["timeout"] = 99

	again := sink.GetSummary()
	if again.RTTByCommand["esn"].Count != 3 || again.ErrorsByKind["timeout"] != 1 {
		t.Error("summary shares state with the sink")
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want float64
	}{
		{0.50, 5},
		{0.90, 9},
		{0.99, 10},
		{0, 1},
	}
	for _, tt := range tests {
		if got := percentile(values, tt.p); got != tt.want {
			t.Errorf("percentile(%.2f) = %.1f, want %.1f", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("percentile of empty slice should be 0")
	}
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(sampleSink().GetSummary())
	for _, want := range []string{
		"Total Exchanges: 4",
		"Successful: 2 (50.0%)",
		"Timeouts: 1",
		"Retries: 2",
		"Errors: Bad_Command=1 timeout=1",
		"P50: 4.000 ms",
		"Buckets: lt_5ms=1 10_50ms=1",
		"esn: 3 exchanges (2 success, 1 failed)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	if got := FormatSummary(NewSink().GetSummary()); got != "Total Exchanges: 0\n" {
		t.Errorf("empty summary = %q", got)
	}
}

func TestWriterCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poll.csv")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w.WriteMetric(Metric{Timestamp: ts, Command: "esn", Success: true, RTTMs: 3.5, Attempts: 1})
	w.WriteMetric(Metric{Timestamp: ts, Command: "esn", Attempts: 2, ErrorKind: ErrorKindTimeout, Error: "dm: response timeout"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][1] != "command" || rows[1][3] != "3.500" || rows[2][5] != "timeout" {
		t.Errorf("rows = %v", rows)
	}
	if rows[1][0] != "2024-05-01T12:00:00Z" {
		t.Errorf("timestamp = %q", rows[1][0])
	}
}

func TestWriterJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poll.json")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	w.WriteMetric(Metric{Command: "esn", Success: true, RTTMs: 3.5, Attempts: 1})
	w.WriteMetric(Metric{Command: "cdma-status", Success: true, RTTMs: 7, Attempts: 1})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []Metric
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON array: %v\n%s", err, data)
	}
	if len(got) != 2 || got[1].Command != "cdma-status" || got[0].RTTMs != 3.5 {
		t.Errorf("metrics = %+v", got)
	}
}

func TestWriterEmptyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	w, err := NewWriter("", path)
	if err != nil {
		t.Fatal(err)
	}
	w.Close()

	data, _ := os.ReadFile(path)
	var got []Metric
	if err := json.Unmarshal(data, &got); err != nil || len(got) != 0 {
		t.Errorf("empty array = %q, %v", data, err)
	}
}
