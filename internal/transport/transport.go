// Package transport carries framed DM requests to a modem's diagnostic port
// and reads back one framed response per request.
package transport

import (
	"context"
	"io"
	"time"
)

// Port is an open, bidirectional byte stream to a modem's DM interface.
//
// Serial ports, TCP bridges (ser2net and similar) and in-memory fakes used in
// tests all satisfy it. Read must return within a bounded time, either with
// data or with (0, nil), so the session can observe deadlines.
type Port interface {
	io.ReadWriteCloser
}

// Dialer opens a Port.
type Dialer interface {
	// Dial opens the port. It may block and should respect cancellation of
	// ctx.
	Dial(ctx context.Context) (Port, error)

	// String returns a human-readable description of the endpoint.
	String() string
}

// Options configures session behavior.
type Options struct {
	Timeout       time.Duration // Deadline for one request/response exchange
	RetryAttempts int           // Resends after a response timeout
	RetryDelay    time.Duration // Delay between resends
	PollInterval  time.Duration // Read timeout used while waiting for bytes
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Timeout:       2 * time.Second,
		RetryAttempts: 1,
		RetryDelay:    100 * time.Millisecond,
		PollInterval:  50 * time.Millisecond,
	}
}
