package report

import (
	"time"

	"github.com/tonylturner/dmdiag/internal/dm/result"
	"github.com/tonylturner/dmdiag/internal/metrics"
)

// CommandReport captures one command exchanged with a modem, or one frame
// decoded offline.
type CommandReport struct {
	GeneratedAt string         `json:"generated_at"`
	Version     string         `json:"dmdiag_version,omitempty"`
	Port        string         `json:"port,omitempty"`
	Command     string         `json:"command"`
	Request     string         `json:"request,omitempty"`  // raw request, hex
	Response    string         `json:"response,omitempty"` // raw response, hex
	RTTMs       float64        `json:"rtt_ms,omitempty"`
	Fields      *result.Result `json:"fields,omitempty"`
	Pilots      []PilotRow     `json:"pilots,omitempty"`
	LogItems    []uint16       `json:"log_items,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// PilotRow is one pilot set record expanded for display.
type PilotRow struct {
	Set      string  `json:"set"`
	PNOffset uint16  `json:"pn_offset"`
	ECIO     uint16  `json:"ecio"`
	DB       float64 `json:"db"`
}

// CaptureReport captures every DM frame found in a packet capture.
type CaptureReport struct {
	GeneratedAt string         `json:"generated_at"`
	Version     string         `json:"dmdiag_version,omitempty"`
	Source      string         `json:"source"`
	LinkType    string         `json:"link_type"`
	Stats       CaptureStats   `json:"stats"`
	Frames      []CaptureFrame `json:"frames"`
}

// CaptureStats summarizes a decoded capture.
type CaptureStats struct {
	Packets   int `json:"packets"`
	Frames    int `json:"frames"`
	Requests  int `json:"requests"`
	Responses int `json:"responses"`
	Unknown   int `json:"unknown"`
	Errors    int `json:"errors"`
}

// CaptureFrame is one decoded DM frame from a capture.
type CaptureFrame struct {
	Index     int            `json:"index"`
	Timestamp string         `json:"timestamp"`
	Direction string         `json:"direction"` // "request" or "response"
	Command   string         `json:"command,omitempty"`
	Raw       string         `json:"raw"`
	Fields    *result.Result `json:"fields,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// FormatTimestamp returns t as an RFC3339 UTC string.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// PollReport summarizes a command sent repeatedly to a modem.
type PollReport struct {
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"dmdiag_version,omitempty"`
	Port        string           `json:"port,omitempty"`
	Command     string           `json:"command"`
	IntervalMs  int64            `json:"interval_ms"`
	Summary     *metrics.Summary `json:"summary"`
	Last        *result.Result   `json:"last,omitempty"` // fields of the last successful response
	LastError   string           `json:"last_error,omitempty"`
}
