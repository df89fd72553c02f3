package metrics

// Metrics collection for DM exchanges

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Error kinds recorded for failed exchanges
const (
	ErrorKindTimeout   = "timeout"
	ErrorKindTransport = "transport"
)

// Metric is the outcome of one command/response exchange
type Metric struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Success   bool      `json:"success"`
	RTTMs     float64   `json:"rtt_ms,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"` // dm error kind, timeout or transport
	Error     string    `json:"error,omitempty"`
}

// Sink collects and aggregates metrics
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
}

// Summary contains aggregated statistics
type Summary struct {
	TotalOperations int                      `json:"total_operations"`
	SuccessfulOps   int                      `json:"successful_ops"`
	FailedOps       int                      `json:"failed_ops"`
	TimeoutCount    int                      `json:"timeouts"`
	DeviceErrors    int                      `json:"device_errors"`
	Retries         int                      `json:"retries"`
	MinRTT          float64                  `json:"min_rtt_ms"`
	MaxRTT          float64                  `json:"max_rtt_ms"`
	AvgRTT          float64                  `json:"avg_rtt_ms"`
	P50RTT          float64                  `json:"p50_rtt_ms"`
	P90RTT          float64                  `json:"p90_rtt_ms"`
	P95RTT          float64                  `json:"p95_rtt_ms"`
	P99RTT          float64                  `json:"p99_rtt_ms"`
	RTTBuckets      map[string]int           `json:"rtt_buckets,omitempty"`
	ErrorsByKind    map[string]int           `json:"errors_by_kind,omitempty"`
	RTTByCommand    map[string]*CommandStats `json:"by_command,omitempty"`
}

// CommandStats contains statistics for one command
type CommandStats struct {
	Count   int     `json:"count"`
	Success int     `json:"success"`
	Failed  int     `json:"failed"`
	MinRTT  float64 `json:"min_rtt_ms"`
	MaxRTT  float64 `json:"max_rtt_ms"`
	AvgRTT  float64 `json:"avg_rtt_ms"`
	SumRTT  float64 `json:"-"`
}

func newSummary() *Summary {
	return &Summary{
		RTTBuckets:   make(map[string]int),
		ErrorsByKind: make(map[string]int),
		RTTByCommand: make(map[string]*CommandStats),
	}
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{
		metrics: make([]Metric, 0),
		summary: newSummary(),
	}
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// GetMetrics returns a copy of all recorded metrics
func (s *Sink) GetMetrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := make([]Metric, len(s.metrics))
	copy(metrics, s.metrics)
	return metrics
}

// GetSummary returns a copy of the aggregated summary with percentiles filled in
func (s *Sink) GetSummary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := *s.summary
	summary.ErrorsByKind = make(map[string]int, len(s.summary.ErrorsByKind))
	for k, v := range s.summary.ErrorsByKind {
		summary.ErrorsByKind[k] = v
	}
	summary.RTTByCommand = make(map[string]*CommandStats, len(s.summary.RTTByCommand))
	for name, stats := range s.summary.RTTByCommand {
		cp := *stats
		summary.RTTByCommand[name] = &cp
	}

	percentiles, buckets := summarizeRTT(s.metrics)
	summary.P50RTT = percentiles[0]
	summary.P90RTT = percentiles[1]
	summary.P95RTT = percentiles[2]
	summary.P99RTT = percentiles[3]
	summary.RTTBuckets = buckets

	return &summary
}

func (s *Sink) updateSummary(m Metric) {
	s.summary.TotalOperations++
	if m.Attempts > 1 {
		s.summary.Retries += m.Attempts - 1
	}

	if m.Success {
		s.summary.SuccessfulOps++
	} else {
		s.summary.FailedOps++
		switch m.ErrorKind {
		case "":
		case ErrorKindTimeout:
			s.summary.TimeoutCount++
		case ErrorKindTransport:
		default:
			s.summary.DeviceErrors++
		}
		if m.ErrorKind != "" {
			s.summary.ErrorsByKind[m.ErrorKind]++
		}
	}

	if m.Success && m.RTTMs > 0 {
		if s.summary.MinRTT == 0 || m.RTTMs < s.summary.MinRTT {
			s.summary.MinRTT = m.RTTMs
		}
		if m.RTTMs > s.summary.MaxRTT {
			s.summary.MaxRTT = m.RTTMs
		}
		totalRTT := s.summary.AvgRTT * float64(s.summary.SuccessfulOps-1)
		totalRTT += m.RTTMs
		s.summary.AvgRTT = totalRTT / float64(s.summary.SuccessfulOps)
	}

	stats, exists := s.summary.RTTByCommand[m.Command]
	if !exists {
		stats = &CommandStats{}
		s.summary.RTTByCommand[m.Command] = stats
	}
	stats.Count++
	if !m.Success {
		stats.Failed++
		return
	}
	stats.Success++
	if m.RTTMs > 0 {
		if stats.MinRTT == 0 || m.RTTMs < stats.MinRTT {
			stats.MinRTT = m.RTTMs
		}
		if m.RTTMs > stats.MaxRTT {
			stats.MaxRTT = m.RTTMs
		}
		stats.SumRTT += m.RTTMs
		stats.AvgRTT = stats.SumRTT / float64(stats.Success)
	}
}

func summarizeRTT(metrics []Metric) ([4]float64, map[string]int) {
	rtts := make([]float64, 0, len(metrics))
	buckets := make(map[string]int)
	for _, m := range metrics {
		if m.Success && m.RTTMs > 0 {
			rtts = append(rtts, m.RTTMs)
			incrementBucket(buckets, m.RTTMs)
		}
	}
	return computePercentiles(rtts), buckets
}

// Bucket edges in milliseconds.
func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 5:
		buckets["lt_5ms"]++
	case value < 10:
		buckets["5_10ms"]++
	case value < 50:
		buckets["10_50ms"]++
	case value < 100:
		buckets["50_100ms"]++
	case value < 500:
		buckets["100_500ms"]++
	case value < 1000:
		buckets["500_1000ms"]++
	default:
		buckets["gt_1000ms"]++
	}
}

func computePercentiles(values []float64) [4]float64 {
	var result [4]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.95)
	result[3] = percentile(values, 0.99)
	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
