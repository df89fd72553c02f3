package app

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/pcap"
)

type BuildOptions struct {
	Command    string
	Params     []string
	BufferSize int  // destination size; zero sizes it to fit
	Dump       bool // annotated hex dump instead of a hex string
	Out        io.Writer
}

// RunBuild prints the framed request for a command without talking to a
// modem.
func RunBuild(opts BuildOptions) error {
	w := outWriter(opts.Out)
	cmd, ok := dm.LookupCommand(opts.Command)
	if !ok {
		return fmt.Errorf("unknown command %q (see 'dmdiag commands')", opts.Command)
	}
	params, err := dm.ParseParams(opts.Params)
	if err != nil {
		return err
	}

	size := opts.BufferSize
	if size <= 0 {
		raw, err := cmd.Build(params)
		if err != nil {
			return err
		}
		size = dm.FramedLen(raw)
	}
	dst := make([]byte, size)
	n, err := cmd.BuildInto(dst, params)
	if err != nil {
		return err
	}

	if opts.Dump {
		fmt.Fprint(w, pcap.FormatFrameHex(dst[:n], true))
		return nil
	}
	fmt.Fprintln(w, hex.EncodeToString(dst[:n]))
	return nil
}
