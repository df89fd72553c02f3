package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialDialer opens a modem's DM interface over a serial port.
type SerialDialer struct {
	PortName    string
	Mode        *serial.Mode  // nil means 115200 8N1
	ReadTimeout time.Duration // zero uses DefaultOptions().PollInterval
}

// DefaultSerialMode returns 8N1 at the given baud rate.
func DefaultSerialMode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
}

// Dial opens the serial port and applies the read timeout.
func (d SerialDialer) Dial(ctx context.Context) (Port, error) {
	if ctx == nil {
		return nil, errors.New("dm: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("dm: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = DefaultSerialMode(115200)
	}
	timeout := d.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultOptions().PollInterval
	}

	type opened struct {
		port serial.Port
		err  error
	}
	done := make(chan opened, 1)
	go func() {
		p, err := serial.Open(d.PortName, mode)
		done <- opened{p, err}
	}()

	select {
	case <-ctx.Done():
		// Close the port if the open eventually succeeds.
		go func() {
			if o := <-done; o.err == nil {
				o.port.Close()
			}
		}()
		return nil, ctx.Err()
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("open %s: %w", d.PortName, o.err)
		}
		if err := o.port.SetReadTimeout(timeout); err != nil {
			o.port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", d.PortName, err)
		}
		return o.port, nil
	}
}

func (d SerialDialer) String() string {
	baud := 115200
	if d.Mode != nil {
		baud = d.Mode.BaudRate
	}
	return fmt.Sprintf("serial:%s@%d", d.PortName, baud)
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
