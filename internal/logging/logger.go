package logging

// Leveled logging for dmdiag

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelVerbose
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelSilent:
		return "silent"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelVerbose:
		return "verbose"
	case LogLevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a configured level name to a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "quiet":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "", "info":
		return LogLevelInfo, nil
	case "verbose":
		return LogLevelVerbose, nil
	case "debug":
		return LogLevelDebug, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q (use silent, error, info, verbose, debug)", name)
	}
}

// Logger provides leveled logging to the console and an optional file
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	file    *os.File
	fileLog *log.Logger
	stdout  *log.Logger
	stderr  *log.Logger
}

// NewLogger creates a new logger
func NewLogger(level LogLevel, logFile string) (*Logger, error) {
	l := &Logger{
		level:  level,
		stdout: log.New(os.Stderr, "", 0),
		stderr: log.New(os.Stderr, "", 0),
	}

	if logFile != "" {
		file, err := os.Create(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		l.file = file
		l.fileLog = log.New(file, "", log.LstdFlags)
	}

	return l, nil
}

// NewWriterLogger logs to w only. Used by tests and when stdout carries data.
func NewWriterLogger(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		stdout: log.New(w, "", 0),
		stderr: log.New(w, "", 0),
	}
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		l.write(fmt.Sprintf("ERROR: "+format, v...), true)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.write(fmt.Sprintf("INFO: "+format, v...), false)
	}
}

// Verbose logs a verbose message
func (l *Logger) Verbose(format string, v ...interface{}) {
	if l.level >= LogLevelVerbose {
		l.write(fmt.Sprintf("VERBOSE: "+format, v...), false)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.write(fmt.Sprintf("DEBUG: "+format, v...), false)
	}
}

func (l *Logger) write(msg string, isError bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		l.fileLog.Println(msg)
	}

	// Console output stays quiet below verbose except for errors; results go
	// to stdout, so logs never do.
	if isError {
		l.stderr.Println(msg)
	} else if l.level >= LogLevelVerbose {
		l.stdout.Println(msg)
	}
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// LogExchange logs one request/response round trip with the modem
func (l *Logger) LogExchange(command string, reqLen, rspLen int, rtt time.Duration, err error) {
	if err != nil {
		l.Info("FAILED %s (request %d bytes, %.3fms) - error: %v",
			command, reqLen, float64(rtt.Microseconds())/1000, err)
		return
	}
	l.Verbose("OK %s (request %d bytes, response %d bytes, %.3fms)",
		command, reqLen, rspLen, float64(rtt.Microseconds())/1000)
}

// LogStartup logs the session parameters
func (l *Logger) LogStartup(port string, baud int, timeout time.Duration, configPath string) {
	l.Info("Opening DM port %s", port)
	l.Verbose("  Baud: %d", baud)
	l.Verbose("  Timeout: %s", timeout)
	if configPath != "" {
		l.Verbose("  Config: %s", configPath)
	}
}

// LogHex logs data as space-separated hex bytes at debug level
func (l *Logger) LogHex(label string, data []byte) {
	if l.GetLevel() < LogLevelDebug {
		return
	}
	l.Debug("%s (%d bytes): %s", label, len(data), FormatHex(data))
}

// FormatHex renders data as lowercase hex bytes separated by spaces
func FormatHex(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 3)
	for i, v := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}
