package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// TCPDialer reaches a DM interface exported over TCP by a serial bridge.
type TCPDialer struct {
	Address     string
	ReadTimeout time.Duration // zero uses DefaultOptions().PollInterval
}

// Dial connects to the bridge.
func (d TCPDialer) Dial(ctx context.Context) (Port, error) {
	if d.Address == "" {
		return nil, errors.New("dm: tcp address is required")
	}
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.Address, err)
	}
	timeout := d.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultOptions().PollInterval
	}
	return &tcpPort{conn: conn, timeout: timeout}, nil
}

func (d TCPDialer) String() string {
	return "tcp:" + d.Address
}

// tcpPort gives a TCP connection serial-port read semantics: a read that
// times out returns (0, nil).
type tcpPort struct {
	conn    net.Conn
	timeout time.Duration
}

func (p *tcpPort) Read(b []byte) (int, error) {
	if err := p.conn.SetReadDeadline(time.Now().Add(p.timeout)); err != nil {
		return 0, err
	}
	n, err := p.conn.Read(b)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		return n, nil
	}
	return n, err
}

func (p *tcpPort) Write(b []byte) (int, error) {
	return p.conn.Write(b)
}

func (p *tcpPort) Close() error {
	return p.conn.Close()
}
