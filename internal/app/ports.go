package app

import (
	"fmt"
	"io"

	"github.com/tonylturner/dmdiag/internal/transport"
)

// ListPorts prints the serial ports present on this machine.
func ListPorts(w io.Writer) error {
	w = outWriter(w)
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}
