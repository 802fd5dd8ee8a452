// Package config loads relay server configuration.
//
// Values are applied in order: defaults, YAML file, .env file, environment.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/internal/relay/registry"
	"github.com/wtask/relay/pkg/logger"
)

var (
	// ErrConfigNotFound - configuration file does not exist.
	ErrConfigNotFound = errors.New("config: file not found")

	// ErrInvalidConfig - configuration has invalid values.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// MaxBufferSize - upper limit of a single message.
const MaxBufferSize = 64 * 1024

type (
	// Config - relay server configuration
	Config struct {
		// Address - TCP listen address
		Address string `yaml:"address" env:"RELAY_ADDRESS"`
		// BufferSize - read buffer, the maximum size of a single message
		BufferSize int `yaml:"buffer_size" env:"RELAY_BUFFER_SIZE"`
		// QueueSize - capacity of the ingestion queue
		QueueSize int `yaml:"queue_size" env:"RELAY_QUEUE_SIZE"`
		// Framing - raw | utf8
		Framing string `yaml:"framing" env:"RELAY_FRAMING"`
		// Identifier - random | endpoint
		Identifier string `yaml:"identifier" env:"RELAY_IDENTIFIER"`
		// ReadTimeout - idle period before client is disconnected, 0 disables it
		ReadTimeout time.Duration `yaml:"read_timeout" env:"RELAY_READ_TIMEOUT"`
		// WriteTimeout - deadline of a single delivery, 0 disables it
		WriteTimeout time.Duration `yaml:"write_timeout" env:"RELAY_WRITE_TIMEOUT"`
		// ShutdownTimeout - graceful stop limit
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"RELAY_SHUTDOWN_TIMEOUT"`

		WebSocket WebSocketConfig `yaml:"websocket"`
		Logging   LoggingConfig   `yaml:"logging"`
	}

	// WebSocketConfig - optional WebSocket endpoint, disabled when Address is empty
	WebSocketConfig struct {
		Address string `yaml:"address" env:"RELAY_WS_ADDRESS"`
		Path    string `yaml:"path" env:"RELAY_WS_PATH"`
	}

	// LoggingConfig - log output
	LoggingConfig struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	}
)

// Default - returns default configuration.
func Default() *Config {
	return &Config{
		Address:         "0.0.0.0:5000",
		BufferSize:      2048,
		QueueSize:       256,
		Framing:         "raw",
		Identifier:      "random",
		ReadTimeout:     0,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		WebSocket: WebSocketConfig{
			Address: "",
			Path:    "/ws",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logger.FormatText,
		},
	}
}

// Load - builds configuration from YAML file (skipped if path is empty),
// dotenv files (missing ones are skipped) and environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: can't load %s: %w", f, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("config: can't read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// Validate - checks all values.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}

	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return invalid("address %q: %v", c.Address, err)
	}
	if c.BufferSize < 1 || c.BufferSize > MaxBufferSize {
		return invalid("buffer_size (%d) must be in range 1..%d", c.BufferSize, MaxBufferSize)
	}
	if c.QueueSize < 0 {
		return invalid("queue_size (%d) must be greater or equal 0", c.QueueSize)
	}
	if _, err := c.MessageFraming(); err != nil {
		return invalid("%v", err)
	}
	if _, err := c.ClientIdentifier(); err != nil {
		return invalid("%v", err)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return invalid("timeouts can not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return invalid("shutdown_timeout (%v) must be greater 0", c.ShutdownTimeout)
	}
	if c.WebSocket.Address != "" {
		if _, _, err := net.SplitHostPort(c.WebSocket.Address); err != nil {
			return invalid("websocket address %q: %v", c.WebSocket.Address, err)
		}
		if !strings.HasPrefix(c.WebSocket.Path, "/") {
			return invalid("websocket path %q must start with /", c.WebSocket.Path)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return invalid("%v", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return invalid("log format %q", c.Logging.Format)
	}
	return nil
}

// MessageFraming - returns configured framing.
func (c *Config) MessageFraming() (message.Framing, error) {
	return message.ParseFraming(c.Framing)
}

// ClientIdentifier - returns configured identifier.
func (c *Config) ClientIdentifier() (registry.Identifier, error) {
	switch strings.ToLower(c.Identifier) {
	case "", "random":
		return registry.RandomIdentifier, nil
	case "endpoint":
		return registry.EndpointIdentifier, nil
	}
	return nil, fmt.Errorf("unknown identifier %q", c.Identifier)
}

// String - short representation for logging.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Address: %s, WebSocket: %q, BufferSize: %d, QueueSize: %d, Framing: %s, LogLevel: %s}",
		c.Address, c.WebSocket.Address, c.BufferSize, c.QueueSize, c.Framing, c.Logging.Level)
}
