package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tonylturner/dmdiag/internal/config"
	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/errors"
	"github.com/tonylturner/dmdiag/internal/logging"
	"github.com/tonylturner/dmdiag/internal/pcap"
	"github.com/tonylturner/dmdiag/internal/report"
	"github.com/tonylturner/dmdiag/internal/transport"
)

type QueryOptions struct {
	ConfigPath string
	Port       string // overrides serial.port
	Baud       int    // overrides serial.baud
	TimeoutMs  int    // overrides serial.timeout_ms
	Retries    int
	Format     string // overrides output.format
	LogLevel   string // overrides logging.level
	LogFile    string // overrides logging.file
	Capture    string // pcap file recording every frame
	Command    string
	Params     []string
	Version    string
	Out        io.Writer

	Dialer transport.Dialer // replaces the dialer built from Port
	Logger *logging.Logger  // replaces the configured logger
}

// RunQuery sends one command to the modem and prints the decoded response.
func RunQuery(ctx context.Context, opts QueryOptions) error {
	w := outWriter(opts.Out)
	q, err := openQuery(ctx, opts)
	if err != nil {
		return err
	}
	defer q.close()

	res, ex, err := q.sess.Do(ctx, q.cmd, q.params)
	rep := &report.CommandReport{
		GeneratedAt: report.FormatTimestamp(time.Now()),
		Version:     opts.Version,
		Port:        q.cfg.Serial.Port,
		Command:     q.cmd.Name,
		Fields:      res,
	}
	if ex != nil {
		rep.Request = hex.EncodeToString(ex.Request)
		rep.Response = hex.EncodeToString(ex.Response)
		rep.RTTMs = float64(ex.RTT.Microseconds()) / 1000
	}
	if err == nil {
		return writeCommandReport(w, q.cfg.Output.Format, rep)
	}

	rep.Error = err.Error()
	if ex != nil {
		if werr := writeCommandReport(w, q.cfg.Output.Format, rep); werr != nil {
			return werr
		}
		return errors.WrapDeviceError(err, q.cmd.Name)
	}
	return errors.WrapSerialError(err, q.cfg.Serial.Port)
}

// query is an open session ready to run one resolved command.
type query struct {
	cfg     *config.Config
	cmd     dm.Command
	params  dm.Params
	logger  *logging.Logger
	sess    *transport.Session
	closers []func()
}

func (q *query) close() {
	for i := len(q.closers) - 1; i >= 0; i-- {
		q.closers[i]()
	}
}

// openQuery loads the config, resolves the command and its parameters, and
// opens the session with optional capture. The caller must call close.
func openQuery(ctx context.Context, opts QueryOptions) (*query, error) {
	cfg, err := config.Load(opts.ConfigPath, false)
	if err != nil {
		return nil, err
	}
	applyQueryOverrides(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	cmd, ok := dm.LookupCommand(opts.Command)
	if !ok {
		return nil, fmt.Errorf("unknown command %q (see 'dmdiag commands')", opts.Command)
	}
	params, err := dm.ParseParams(opts.Params)
	if err != nil {
		return nil, err
	}
	applyDeviceDefaults(cmd, params, cfg)
	// Parameter errors are deterministic; reject them before opening the port.
	if _, err := cmd.Build(params); err != nil {
		return nil, errors.WrapDeviceError(err, cmd.Name)
	}

	q := &query{cfg: cfg, cmd: cmd, params: params, logger: opts.Logger}
	if q.logger == nil {
		q.logger, err = logging.NewLogger(cfg.LogLevel(), cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		logger := q.logger
		q.closers = append(q.closers, func() { logger.Close() })
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer, err = transport.ParsePort(cfg.Serial.Port, cfg.Serial.Baud, 0)
		if err != nil {
			q.close()
			return nil, err
		}
	}
	q.logger.LogStartup(cfg.Serial.Port, cfg.Serial.Baud, cfg.Timeout(), opts.ConfigPath)

	topts := transport.DefaultOptions()
	topts.Timeout = cfg.Timeout()
	if opts.Retries >= 0 {
		topts.RetryAttempts = opts.Retries
	}
	q.sess, err = transport.Open(ctx, dialer, topts, q.logger)
	if err != nil {
		q.close()
		return nil, errors.WrapSerialError(err, cfg.Serial.Port)
	}
	q.closers = append(q.closers, func() { q.sess.Close() })

	if opts.Capture != "" {
		capture, err := pcap.Create(opts.Capture)
		if err != nil {
			q.close()
			return nil, err
		}
		q.closers = append(q.closers, func() {
			q.logger.Info("Captured %d frames to %s", capture.Count(), opts.Capture)
			capture.Close()
		})
		q.sess.SetRecorder(capture)
	}
	return q, nil
}

func applyQueryOverrides(cfg *config.Config, opts QueryOptions) {
	if opts.Port != "" {
		cfg.Serial.Port = opts.Port
	}
	if opts.Baud > 0 {
		cfg.Serial.Baud = opts.Baud
	}
	if opts.TimeoutMs > 0 {
		cfg.Serial.TimeoutMs = opts.TimeoutMs
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
}

// applyDeviceDefaults fills the profile and chipset parameters from the
// config when the command takes them and they were not given.
func applyDeviceDefaults(cmd dm.Command, params dm.Params, cfg *config.Config) {
	for _, name := range cmd.Params {
		if _, set := params[name]; set {
			continue
		}
		switch name {
		case "profile":
			params[name] = strconv.Itoa(int(cfg.Device.Profile))
		case "chipset":
			params[name] = cfg.Device.Chipset
		}
	}
}
