package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/shadow/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "shadow.json"

	// DefaultRootID is the id given to the root node.
	DefaultRootID = 1

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "127.0.0.1:7070"

	// DefaultHistory is the number of commits the inspector retains.
	DefaultHistory = 64

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "shadow"
)

// Config represents the complete shadow.json configuration.
type Config struct {
	// Root configures the tree's root node.
	Root RootConfig `json:"root"`

	// Log configures the slog logger.
	Log LogConfig `json:"log"`

	// Inspector configures the HTTP inspector.
	Inspector InspectorConfig `json:"inspector"`

	// Metrics configures Prometheus collectors.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RootConfig configures the root node.
type RootConfig struct {
	// ID is the root node id. Must be non-zero.
	ID uint32 `json:"id,omitempty"`

	// Width is the viewport width.
	Width float64 `json:"width,omitempty"`

	// Height is the viewport height.
	Height float64 `json:"height,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// InspectorConfig configures the HTTP inspector.
type InspectorConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// History is the number of commits kept for /commits.
	History int `json:"history,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// TracerName is the OpenTelemetry tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads shadow.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E201").
				WithDetail("No shadow.json found in " + filepath.Dir(path)).
				WithSuggestion("Create shadow.json or run without --config to use defaults")
		}
		return nil, errors.New("E202").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E202").
			WithDetail("Failed to parse shadow.json: " + err.Error()).
			WithSuggestion("Check that shadow.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads shadow.json from dir, returning defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E201") {
		return New(), nil
	}
	return cfg, err
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Root.ID == 0 {
		c.Root.ID = DefaultRootID
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.History == 0 {
		c.Inspector.History = DefaultHistory
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Root.Width < 0 || c.Root.Height < 0 {
		return errors.New("E202").WithDetail("root width and height must not be negative")
	}
	if c.Inspector.History < 0 {
		return errors.New("E202").WithDetail("inspector.history must not be negative")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E202").
			WithDetail("unknown log level " + c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E202").
			WithDetail("unknown log format " + c.Log.Format).
			WithSuggestion(`Use "text" or "json"`)
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Logger builds a slog.Logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
