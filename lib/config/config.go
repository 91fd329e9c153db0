// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixzheng98/cedar-java/lib/cedar"
)

// EnvVar names the environment variable read by [Load].
const EnvVar = "CEDARBRIDGE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration of the cedarbridge service.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Service configures the conversion socket.
	Service ServiceConfig `yaml:"service"`

	// Metrics configures the Prometheus listener.
	Metrics MetricsConfig `yaml:"metrics"`

	// Store configures the policy store.
	Store StoreConfig `yaml:"store"`

	// Log configures the service logger.
	Log LogConfig `yaml:"log"`

	// Formatter is the formatter configuration used when a request
	// does not carry one.
	Formatter FormatterConfig `yaml:"formatter"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths     *PathsConfig     `yaml:"paths,omitempty"`
	Service   *ServiceConfig   `yaml:"service,omitempty"`
	Metrics   *MetricsConfig   `yaml:"metrics,omitempty"`
	Store     *StoreConfig     `yaml:"store,omitempty"`
	Log       *LogConfig       `yaml:"log,omitempty"`
	Formatter *FormatterConfig `yaml:"formatter,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for cedarbridge runtime files.
	Root string `yaml:"root"`

	// Run holds the service socket.
	Run string `yaml:"run"`
}

// ServiceConfig configures the conversion socket.
type ServiceConfig struct {
	// SocketPath is the Unix socket the service listens on.
	// Default: ${CEDARBRIDGE_ROOT}/run/cedarbridge.sock
	SocketPath string `yaml:"socket_path"`

	// ReadTimeout bounds reading one request. Go duration syntax.
	// Default: 30s
	ReadTimeout string `yaml:"read_timeout"`

	// WriteTimeout bounds writing one response. Go duration syntax.
	// Default: 10s
	WriteTimeout string `yaml:"write_timeout"`

	// MaxRequestSize is the largest accepted request in bytes.
	// Default: 1048576
	MaxRequestSize int64 `yaml:"max_request_size"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	// Listen is the TCP address for /metrics. Empty disables the
	// listener.
	Listen string `yaml:"listen"`
}

// StoreConfig configures the policy store.
type StoreConfig struct {
	// Path is the SQLite database for stored policies. Empty disables
	// the store-policy-set and lookup-policy actions.
	// Example: ${CEDARBRIDGE_ROOT}/policies.db
	Path string `yaml:"path"`
}

// LogConfig configures the service logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info (development), warn (production)
	Level string `yaml:"level"`
}

// FormatterConfig mirrors [cedar.FormatterConfig] with YAML names.
// Pointers distinguish an override of zero from an absent field.
type FormatterConfig struct {
	LineWidth   *int `yaml:"line_width,omitempty"`
	IndentWidth *int `yaml:"indent_width,omitempty"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist to give every field a sensible value, not as a fallback:
// the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "cedarbridge")

	lineWidth := cedar.DefaultFormatterConfig.LineWidth
	indentWidth := cedar.DefaultFormatterConfig.IndentWidth

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root: defaultRoot,
			Run:  filepath.Join(defaultRoot, "run"),
		},
		Service: ServiceConfig{
			SocketPath:     "${CEDARBRIDGE_ROOT}/run/cedarbridge.sock",
			ReadTimeout:    "30s",
			WriteTimeout:   "10s",
			MaxRequestSize: 1024 * 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
		Formatter: FormatterConfig{
			LineWidth:   &lineWidth,
			IndentWidth: &indentWidth,
		},
	}
}

// Load loads configuration from the CEDARBRIDGE_CONFIG environment
// variable. There is no fallback: if the variable is unset, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your cedarbridge.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values; they are only consulted by ${VAR}
// expansion in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production is quieter by default.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Run != "" {
			c.Paths.Run = overrides.Paths.Run
		}
	}

	if overrides.Service != nil {
		if overrides.Service.SocketPath != "" {
			c.Service.SocketPath = overrides.Service.SocketPath
		}
		if overrides.Service.ReadTimeout != "" {
			c.Service.ReadTimeout = overrides.Service.ReadTimeout
		}
		if overrides.Service.WriteTimeout != "" {
			c.Service.WriteTimeout = overrides.Service.WriteTimeout
		}
		if overrides.Service.MaxRequestSize != 0 {
			c.Service.MaxRequestSize = overrides.Service.MaxRequestSize
		}
	}

	if overrides.Metrics != nil && overrides.Metrics.Listen != "" {
		c.Metrics.Listen = overrides.Metrics.Listen
	}

	if overrides.Store != nil && overrides.Store.Path != "" {
		c.Store.Path = overrides.Store.Path
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}

	if overrides.Formatter != nil {
		if overrides.Formatter.LineWidth != nil {
			c.Formatter.LineWidth = overrides.Formatter.LineWidth
		}
		if overrides.Formatter.IndentWidth != nil {
			c.Formatter.IndentWidth = overrides.Formatter.IndentWidth
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"CEDARBRIDGE_ROOT": c.Paths.Root,
		"HOME":             os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["CEDARBRIDGE_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Run = expandVars(c.Paths.Run, vars)
	c.Service.SocketPath = expandVars(c.Service.SocketPath, vars)
	c.Store.Path = expandVars(c.Store.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. vars is
// consulted before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}

	if c.Service.SocketPath == "" {
		errs = append(errs, fmt.Errorf("service.socket_path is required"))
	}

	if _, err := parseDuration(c.Service.ReadTimeout); err != nil {
		errs = append(errs, fmt.Errorf("service.read_timeout: %w", err))
	}
	if _, err := parseDuration(c.Service.WriteTimeout); err != nil {
		errs = append(errs, fmt.Errorf("service.write_timeout: %w", err))
	}
	if c.Service.MaxRequestSize < 0 {
		errs = append(errs, fmt.Errorf("service.max_request_size must not be negative"))
	}

	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			errs = append(errs, fmt.Errorf("metrics.listen: %w", err))
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if err := c.FormatterDefaults().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("formatter: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ReadTimeout returns the parsed service read timeout, or zero if it is
// unset or malformed. Validate reports malformed values.
func (c *Config) ReadTimeout() time.Duration {
	duration, _ := parseDuration(c.Service.ReadTimeout)
	return duration
}

// WriteTimeout returns the parsed service write timeout, or zero if it
// is unset or malformed.
func (c *Config) WriteTimeout() time.Duration {
	duration, _ := parseDuration(c.Service.WriteTimeout)
	return duration
}

// LogLevel returns the configured slog level, or Info if the value is
// malformed.
func (c *Config) LogLevel() slog.Level {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// FormatterDefaults returns the formatter configuration with unset
// fields taken from [cedar.DefaultFormatterConfig].
func (c *Config) FormatterDefaults() cedar.FormatterConfig {
	result := cedar.DefaultFormatterConfig
	if c.Formatter.LineWidth != nil {
		result.LineWidth = *c.Formatter.LineWidth
	}
	if c.Formatter.IndentWidth != nil {
		result.IndentWidth = *c.Formatter.IndentWidth
	}
	return result
}

// EnsurePaths creates the configured runtime directories and the
// parent directories of the socket and the store database.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.Root,
		c.Paths.Run,
	}
	if c.Service.SocketPath != "" {
		paths = append(paths, filepath.Dir(c.Service.SocketPath))
	}
	if c.Store.Path != "" {
		paths = append(paths, filepath.Dir(c.Store.Path))
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}

// ParseLevel maps a level name to its slog level. An empty name is
// Info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q (want debug, info, warn, or error)", name)
	}
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("duration %s is negative", value)
	}
	return duration, nil
}
