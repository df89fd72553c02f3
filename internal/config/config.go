package config

// Configuration loading and validation for dmdiag

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/errors"
	"github.com/tonylturner/dmdiag/internal/logging"
)

// Defaults applied to missing fields.
const (
	DefaultPort      = "/dev/ttyUSB0"
	DefaultBaud      = 115200
	DefaultTimeoutMs = 2000
	DefaultLogLevel  = "info"
	DefaultOutput    = "text"
	DefaultChipset   = "6500"
)

// SerialConfig describes the modem's diagnostic port
type SerialConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"` // per-exchange read deadline
}

// LoggingConfig controls the leveled logger
type LoggingConfig struct {
	Level string `yaml:"level"`          // silent, error, info, verbose, debug
	File  string `yaml:"file,omitempty"` // optional log file
}

// OutputConfig controls how results are rendered
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "json"
}

// DeviceConfig holds per-modem parameters for commands that need them
type DeviceConfig struct {
	Profile uint8  `yaml:"profile"`           // NV profile index for MDN and preference items
	Chipset string `yaml:"chipset,omitempty"` // "6500" or "6800" for the vendor snapshot
}

// Config is the dmdiag configuration file
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Device  DeviceConfig  `yaml:"device"`
}

// Timeout returns the per-exchange read deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Serial.TimeoutMs) * time.Millisecond
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// CreateDefaultConfig creates a default configuration
func CreateDefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:      DefaultPort,
			Baud:      DefaultBaud,
			TimeoutMs: DefaultTimeoutMs,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Output: OutputConfig{
			Format: DefaultOutput,
		},
		Device: DeviceConfig{
			Chipset: DefaultChipset,
		},
	}
}

// WriteDefaultConfig writes a default configuration to a file
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(CreateDefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load loads a configuration from a YAML file. An empty path yields the
// defaults. If the file doesn't exist and autoCreate is true, a default file
// is written first.
func Load(path string, autoCreate bool) (*Config, error) {
	if path == "" {
		return CreateDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.WrapConfigError(fmt.Errorf("read config file: %w", err), path)
		}
		if !autoCreate {
			return nil, errors.WrapConfigError(fmt.Errorf("config file not found: %s", path), path)
		}
		if err := WriteDefaultConfig(path); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("read created config file: %w", err), path)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with their defaults
func ApplyDefaults(cfg *Config) {
	if cfg.Serial.Port == "" {
		cfg.Serial.Port = DefaultPort
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.TimeoutMs == 0 {
		cfg.Serial.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutput
	}
	if cfg.Device.Chipset == "" {
		cfg.Device.Chipset = DefaultChipset
	}
}

// Validate validates a configuration
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Serial.Port) == "" {
		return fmt.Errorf("serial.port is required")
	}
	if cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.TimeoutMs < 0 {
		return fmt.Errorf("serial.timeout_ms must not be negative, got %d", cfg.Serial.TimeoutMs)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", cfg.Output.Format)
	}
	if _, err := ParseChipset(cfg.Device.Chipset); err != nil {
		return fmt.Errorf("device.chipset: %w", err)
	}
	return nil
}

// ParseChipset maps a configured chipset name to dm.Chipset
func ParseChipset(name string) (dm.Chipset, error) {
	switch strings.TrimSpace(name) {
	case "", "6500":
		return dm.Chipset6500, nil
	case "6800":
		return dm.Chipset6800, nil
	default:
		return 0, fmt.Errorf("unknown chipset %q (use 6500 or 6800)", name)
	}
}
