package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonylturner/dmdiag/internal/dm/result"
	"github.com/tonylturner/dmdiag/internal/metrics"
)

// Colors follow the dark terminal palette used elsewhere in the CLI.
var (
	colorAccent = lipgloss.Color("#7aa2f7")
	colorDim    = lipgloss.Color("#565f89")
	colorError  = lipgloss.Color("#f7768e")
	colorOK     = lipgloss.Color("#9ece6a")
)

type textStyles struct {
	title lipgloss.Style
	key   lipgloss.Style
	dim   lipgloss.Style
	err   lipgloss.Style
	ok    lipgloss.Style
}

// newTextStyles binds styles to w so color is only emitted on terminals.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title: r.NewStyle().Bold(true).Foreground(colorAccent),
		key:   r.NewStyle().Foreground(colorDim),
		dim:   r.NewStyle().Foreground(colorDim),
		err:   r.NewStyle().Foreground(colorError),
		ok:    r.NewStyle().Foreground(colorOK),
	}
}

// WriteCommandText renders a command report as an aligned key/value listing.
func WriteCommandText(w io.Writer, rep *CommandReport) {
	st := newTextStyles(w)

	title := rep.Command
	if rep.Port != "" {
		title += " @ " + rep.Port
	}
	fmt.Fprintln(w, st.title.Render(title))
	if rep.RTTMs > 0 {
		fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("round trip %.3fms", rep.RTTMs)))
	}
	if rep.Error != "" {
		fmt.Fprintln(w, st.err.Render("error: "+rep.Error))
		return
	}

	writeFields(w, st, rep.Fields, "  ")

	if len(rep.Pilots) > 0 {
		fmt.Fprintln(w, st.title.Render("pilots"))
		fmt.Fprintf(w, "  %-10s %6s %6s %8s\n", "set", "pn", "ecio", "dB")
		for _, p := range rep.Pilots {
			fmt.Fprintf(w, "  %-10s %6d %6d %8.1f\n", p.Set, p.PNOffset, p.ECIO, p.DB)
		}
	}
	if len(rep.LogItems) > 0 {
		items := make([]string, len(rep.LogItems))
		for i, it := range rep.LogItems {
			items[i] = fmt.Sprintf("%d", it)
		}
		fmt.Fprintf(w, "%s %s\n", st.key.Render("  enabled items:"), strings.Join(items, ","))
	}
	if rep.Fields != nil && rep.Fields.Len() == 0 && len(rep.Pilots) == 0 {
		fmt.Fprintln(w, st.ok.Render("  ok"))
	}
}

// WriteCaptureText renders a capture report, one line per frame followed by
// the frame's decoded fields.
func WriteCaptureText(w io.Writer, rep *CaptureReport) {
	st := newTextStyles(w)

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%s (%s)", rep.Source, rep.LinkType)))
	fmt.Fprintf(w, "packets %d, frames %d, requests %d, responses %d, unknown %d, errors %d\n\n",
		rep.Stats.Packets, rep.Stats.Frames, rep.Stats.Requests, rep.Stats.Responses,
		rep.Stats.Unknown, rep.Stats.Errors)

	for _, f := range rep.Frames {
		name := f.Command
		if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(w, "#%-5d %s %-8s %s\n", f.Index, st.dim.Render(f.Timestamp), f.Direction, name)
		if f.Error != "" {
			fmt.Fprintln(w, st.err.Render("    error: "+f.Error))
			continue
		}
		writeFields(w, st, f.Fields, "    ")
	}
}

// WritePollText renders the poll statistics followed by the last response.
func WritePollText(w io.Writer, rep *PollReport) {
	st := newTextStyles(w)

	title := "poll " + rep.Command
	if rep.Port != "" {
		title += " @ " + rep.Port
	}
	fmt.Fprintln(w, st.title.Render(title))
	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("interval %dms", rep.IntervalMs)))
	if rep.Summary != nil {
		fmt.Fprint(w, metrics.FormatSummary(rep.Summary))
	}
	if rep.Last != nil && rep.Last.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.title.Render("last response"))
		writeFields(w, st, rep.Last, "  ")
	}
	if rep.LastError != "" {
		fmt.Fprintln(w, st.err.Render("last error: "+rep.LastError))
	}
}

func writeFields(w io.Writer, st textStyles, res *result.Result, indent string) {
	if res == nil {
		return
	}
	width := 0
	for _, k := range res.Keys() {
		if len(k) > width {
			width = len(k)
		}
	}
	keyStyle := st.key.Width(width + 1)
	for _, k := range res.Keys() {
		v, _ := res.Get(k)
		fmt.Fprintf(w, "%s%s %s\n", indent, keyStyle.Render(k+":"), DescribeValue(k, v))
	}
}
