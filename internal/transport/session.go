package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
	"github.com/tonylturner/dmdiag/internal/dm/result"
	"github.com/tonylturner/dmdiag/internal/logging"
)

// ErrTimeout is returned when no response frame arrives within the exchange
// deadline, retries included.
var ErrTimeout = errors.New("dm: response timeout")

// Codes the modem pushes without a request once logging or event reporting
// is enabled. They are skipped while waiting for a response to anything else.
const (
	logPacketCode   byte = 0x10
	eventReportCode      = byte(dm.OpEventReport)
)

// Recorder receives every frame the session writes or reads, still framed.
type Recorder interface {
	Record(ts time.Time, outbound bool, frame []byte) error
}

// Exchange describes one completed request/response round trip.
type Exchange struct {
	Command  string
	Request  []byte // raw request, unframed
	Response []byte // raw response, unframed
	RTT      time.Duration
	Attempts int
}

// Session serializes request/response exchanges over one Port.
type Session struct {
	mu       sync.Mutex
	port     Port
	name     string
	opts     Options
	logger   *logging.Logger
	recorder Recorder
	pending  []byte
	readBuf  []byte
}

// Open dials d and returns a session over the resulting port.
func Open(ctx context.Context, d Dialer, opts Options, logger *logging.Logger) (*Session, error) {
	port, err := d.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return NewSession(port, d.String(), opts, logger), nil
}

// NewSession wraps an already open port. A nil logger discards output.
func NewSession(port Port, name string, opts Options, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewWriterLogger(logging.LogLevelSilent, io.Discard)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Session{
		port:    port,
		name:    name,
		opts:    opts,
		logger:  logger,
		readBuf: make([]byte, 512),
	}
}

// SetRecorder installs r to receive every frame. Pass nil to stop recording.
func (s *Session) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// String returns the endpoint description.
func (s *Session) String() string {
	return s.name
}

// Close closes the underlying port.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

// Do builds cmd's request from params, exchanges it and parses the response.
// The Exchange is returned whenever the modem answered, even if parsing failed.
func (s *Session) Do(ctx context.Context, cmd dm.Command, params dm.Params) (*result.Result, *Exchange, error) {
	raw, err := cmd.Build(params)
	if err != nil {
		return nil, nil, err
	}
	ex, err := s.Exchange(ctx, cmd.Name, raw)
	if err != nil {
		return nil, nil, err
	}
	res, err := cmd.Parse(ex.Response)
	if err != nil {
		return nil, ex, err
	}
	return res, ex, nil
}

// Exchange frames raw, writes it and waits for the matching response frame.
// Unsolicited log and event frames, and frames that fail the CRC, are dropped.
// On timeout the request is resent up to Options.RetryAttempts times.
func (s *Session) Exchange(ctx context.Context, command string, raw []byte) (*Exchange, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: empty request", command)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	framed := dm.Frame(raw)
	var lastErr error
	for attempt := 0; attempt <= s.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			s.logger.Verbose("Retrying %s (%d/%d)", command, attempt, s.opts.RetryAttempts)
			if err := sleepCtx(ctx, s.opts.RetryDelay); err != nil {
				return nil, err
			}
		}

		start := time.Now()
		if err := s.write(framed); err != nil {
			s.logger.LogExchange(command, len(framed), 0, time.Since(start), err)
			return nil, err
		}
		rsp, err := s.readResponse(ctx, start.Add(s.opts.Timeout), raw[0])
		rtt := time.Since(start)
		if err != nil {
			s.logger.LogExchange(command, len(framed), 0, rtt, err)
			lastErr = err
			if errors.Is(err, ErrTimeout) {
				continue
			}
			return nil, err
		}

		s.logger.LogExchange(command, len(framed), len(rsp), rtt, nil)
		return &Exchange{
			Command:  command,
			Request:  raw,
			Response: rsp,
			RTT:      rtt,
			Attempts: attempt + 1,
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", command, lastErr)
}

func (s *Session) write(framed []byte) error {
	s.logger.LogHex("tx", framed)
	s.record(true, framed)
	for off := 0; off < len(framed); {
		n, err := s.port.Write(framed[off:])
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
		off += n
	}
	return nil
}

func (s *Session) readResponse(ctx context.Context, deadline time.Time, reqCode byte) ([]byte, error) {
	var dropped error
	for {
		frame, err := s.nextFrame()
		if err != nil {
			return nil, err
		}
		if frame != nil {
			s.logger.LogHex("rx", frame)
			s.record(false, frame)
			payload, err := hdlc.Decapsulate(frame)
			if err != nil {
				s.logger.Debug("Dropping frame: %v", err)
				dropped = err
				continue
			}
			if unsolicited(payload[0], reqCode) {
				s.logger.Debug("Skipping unsolicited frame 0x%02X", payload[0])
				continue
			}
			return payload, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			if dropped != nil {
				return nil, fmt.Errorf("%w (last frame dropped: %v)", ErrTimeout, dropped)
			}
			return nil, ErrTimeout
		}
		n, err := s.port.Read(s.readBuf)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		s.pending = append(s.pending, s.readBuf[:n]...)
	}
}

// nextFrame removes one complete frame from the pending bytes, or returns nil
// when none is buffered yet.
func (s *Session) nextFrame() ([]byte, error) {
	advance, token, err := hdlc.Splitter(s.pending, false)
	if err != nil {
		s.pending = s.pending[:0]
		return nil, fmt.Errorf("read: %w", err)
	}
	if token == nil {
		s.pending = s.pending[advance:]
		return nil, nil
	}
	frame := make([]byte, len(token))
	copy(frame, token)
	s.pending = s.pending[advance:]
	return frame, nil
}

func (s *Session) record(outbound bool, frame []byte) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(time.Now(), outbound, frame); err != nil {
		s.logger.Error("capture: %v", err)
	}
}

func unsolicited(code, reqCode byte) bool {
	switch code {
	case logPacketCode, eventReportCode:
		return code != reqCode
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
