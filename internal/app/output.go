package app

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tonylturner/dmdiag/internal/report"
)

func outWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func checkFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "text":
		return "text", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

func writeCommandReport(w io.Writer, format string, rep *report.CommandReport) error {
	rep.Expand()
	if format == "json" {
		return report.WriteJSON(w, rep)
	}
	report.WriteCommandText(w, rep)
	return nil
}

// parseHexInput accepts hex with optional 0x prefix and any mix of spaces,
// colons and dashes between bytes.
func parseHexInput(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "", "-", "", "\n", "", "\t", "").Replace(s)
	if s == "" {
		return nil, fmt.Errorf("no hex input")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return b, nil
}
