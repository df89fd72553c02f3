package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/tonylturner/dmdiag/internal/pcap"
	"github.com/tonylturner/dmdiag/internal/progress"
	"github.com/tonylturner/dmdiag/internal/report"
)

type PCAPOptions struct {
	Input   string // file or directory
	Format  string
	OutFile string // JSON report path, one file for a single capture
	Dump    bool
	Version string
	Out     io.Writer

	Progress io.Writer // progress line when decoding several captures, nil for none
}

// RunPCAP decodes the DM frames of one capture or a directory of captures.
func RunPCAP(opts PCAPOptions) error {
	w := outWriter(opts.Out)
	format, err := checkFormat(opts.Format)
	if err != nil {
		return err
	}
	files, err := pcap.CollectPcapFiles(opts.Input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no capture files under %s", opts.Input)
	}
	if opts.OutFile != "" && len(files) > 1 {
		return fmt.Errorf("--out needs a single capture, %s has %d", opts.Input, len(files))
	}

	var bar *progress.Bar
	if len(files) > 1 {
		bar = progress.NewBar(opts.Progress, len(files), "decode", "captures")
		defer bar.Finish()
	}

	for i, path := range files {
		capture, err := pcap.ReadFile(path)
		if err != nil {
			return err
		}
		rep := pcap.Decode(capture)
		rep.Version = opts.Version

		if opts.OutFile != "" {
			if err := report.WriteJSONFile(opts.OutFile, rep); err != nil {
				return err
			}
		}
		if i > 0 && format == "text" {
			fmt.Fprintln(w)
		}
		if format == "json" {
			if err := report.WriteJSON(w, rep); err != nil {
				return err
			}
		} else {
			report.WriteCaptureText(w, rep)
			if opts.Dump {
				for _, f := range capture.Frames {
					fmt.Fprintf(w, "\npacket %d:\n%s", f.Packet, pcap.FormatFrameHex(f.Data, true))
				}
			}
		}
		if bar != nil {
			bar.Step(filepath.Base(path))
		}
	}
	return nil
}
