package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	barWidth       = 30
	renderInterval = 100 * time.Millisecond
)

// Bar draws a single-line progress bar for a known amount of work.
// A nil writer disables it.
type Bar struct {
	out        io.Writer
	total      int
	current    int
	label      string
	unit       string
	status     string
	startTime  time.Time
	lastRender time.Time
}

// NewBar creates a bar counting up to total units (e.g. "exchanges").
func NewBar(out io.Writer, total int, label, unit string) *Bar {
	return &Bar{
		out:       out,
		total:     total,
		label:     label,
		unit:      unit,
		startTime: time.Now(),
	}
}

// Step advances the bar by one unit and sets a short status shown after the counts.
func (b *Bar) Step(status string) {
	b.current++
	b.status = status
	b.render(false)
}

// Current returns the number of completed units.
func (b *Bar) Current() int {
	return b.current
}

func (b *Bar) render(force bool) {
	if b.out == nil {
		return
	}
	now := time.Now()
	if !force && now.Sub(b.lastRender) < renderInterval && b.current < b.total {
		return
	}
	b.lastRender = now
	fmt.Fprint(b.out, "\r"+b.line(now))
}

func (b *Bar) line(now time.Time) string {
	elapsed := now.Sub(b.startTime)

	var s strings.Builder
	if b.label != "" {
		s.WriteString(b.label)
		s.WriteByte(' ')
	}
	if b.total <= 0 {
		// Open-ended: no bar, just a running count.
		fmt.Fprintf(&s, "%d %s | %s", b.current, b.unit, formatDuration(elapsed))
	} else {
		percent := float64(b.current) / float64(b.total)
		if percent > 1 {
			percent = 1
		}
		filled := int(percent * barWidth)
		s.WriteByte('[')
		s.WriteString(strings.Repeat("=", filled))
		if filled < barWidth {
			s.WriteByte('>')
			s.WriteString(strings.Repeat("-", barWidth-filled-1))
		}
		fmt.Fprintf(&s, "] %d/%d %s (%.0f%%) | %s", b.current, b.total, b.unit, percent*100, formatDuration(elapsed))
		if eta := b.eta(elapsed); eta > 0 {
			fmt.Fprintf(&s, " | ETA %s", formatDuration(eta))
		}
	}
	if b.status != "" {
		s.WriteString(" | ")
		s.WriteString(b.status)
	}
	return s.String()
}

func (b *Bar) eta(elapsed time.Duration) time.Duration {
	if b.current == 0 || b.current >= b.total || elapsed <= 0 {
		return 0
	}
	perUnit := elapsed / time.Duration(b.current)
	return perUnit * time.Duration(b.total-b.current)
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	if b.out == nil {
		return
	}
	b.render(true)
	fmt.Fprint(b.out, "\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
