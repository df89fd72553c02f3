package transport

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ParsePort turns a port specification into a Dialer.
// Supported formats:
//   - "/dev/ttyUSB0", "COM3"  -> SerialDialer
//   - "serial:///dev/ttyUSB0" -> SerialDialer
//   - "tcp://host:port"       -> TCPDialer
func ParsePort(spec string, baud int, readTimeout time.Duration) (Dialer, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty port")
	}
	if !strings.Contains(spec, "://") {
		return serialDialer(spec, baud, readTimeout), nil
	}

	u, err := url.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse port URL: %w", err)
	}
	switch u.Scheme {
	case "serial":
		if u.Path == "" {
			return nil, fmt.Errorf("serial URL has no device path: %s", spec)
		}
		return serialDialer(u.Path, baud, readTimeout), nil
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("tcp URL has no host: %s", spec)
		}
		if u.Port() == "" {
			return nil, fmt.Errorf("tcp URL has no port: %s", spec)
		}
		return TCPDialer{Address: u.Host, ReadTimeout: readTimeout}, nil
	default:
		return nil, fmt.Errorf("unsupported port scheme: %s", u.Scheme)
	}
}

func serialDialer(name string, baud int, readTimeout time.Duration) SerialDialer {
	if baud <= 0 {
		baud = 115200
	}
	return SerialDialer{
		PortName:    name,
		Mode:        DefaultSerialMode(baud),
		ReadTimeout: readTimeout,
	}
}
