package app

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
	"github.com/tonylturner/dmdiag/internal/errors"
	"github.com/tonylturner/dmdiag/internal/pcap"
	"github.com/tonylturner/dmdiag/internal/report"
)

type DecodeOptions struct {
	Hex      string
	Command  string // empty matches by opcode
	Unframed bool   // input is already de-framed
	Dump     bool
	Format   string
	Version  string
	Out      io.Writer
}

// RunDecode parses one response given as hex.
func RunDecode(opts DecodeOptions) error {
	w := outWriter(opts.Out)
	format, err := checkFormat(opts.Format)
	if err != nil {
		return err
	}
	data, err := parseHexInput(opts.Hex)
	if err != nil {
		return err
	}

	payload := data
	if !opts.Unframed {
		if opts.Dump {
			fmt.Fprint(w, pcap.FormatFrameHex(data, true))
		}
		payload, err = hdlc.Decapsulate(data)
		if err != nil {
			return fmt.Errorf("unframe: %w", err)
		}
	} else if opts.Dump {
		fmt.Fprint(w, pcap.HexDump(payload, 16))
	}

	var cmd dm.Command
	if opts.Command != "" {
		var ok bool
		if cmd, ok = dm.LookupCommand(opts.Command); !ok {
			return fmt.Errorf("unknown command %q (see 'dmdiag commands')", opts.Command)
		}
	} else {
		var ok bool
		if cmd, ok = dm.MatchFrame(payload); !ok {
			if dm.IsDeviceError(payload) {
				return fmt.Errorf("device error reply %s; pass --command to attribute it", dm.Opcode(payload[0]))
			}
			return fmt.Errorf("no command matches opcode %d; pass --command", payload[0])
		}
	}

	rep := &report.CommandReport{
		GeneratedAt: report.FormatTimestamp(time.Now()),
		Version:     opts.Version,
		Command:     cmd.Name,
		Response:    hex.EncodeToString(payload),
	}
	res, parseErr := cmd.Parse(payload)
	if parseErr != nil {
		rep.Error = parseErr.Error()
	} else {
		rep.Fields = res
	}
	if err := writeCommandReport(w, format, rep); err != nil {
		return err
	}
	if parseErr != nil {
		return errors.WrapDeviceError(parseErr, cmd.Name)
	}
	return nil
}
