package bootstrap

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config controls how a Host starts a container.
type Config struct {
	// AutoStart runs the startable pass in Run. When false Run only logs.
	AutoStart bool `yaml:"auto_start"`
	// LogLevel is a zap level name used when no logger is supplied.
	LogLevel string `yaml:"log_level"`
	// Startable lists service type names, e.g. "mock.Database", that are
	// marked startable by BindOption in addition to explicit markers.
	Startable []string `yaml:"startable"`
	// MetricsNamespace prefixes the Prometheus metric names.
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// DefaultConfig returns the configuration used for keys missing from a file.
func DefaultConfig() Config {
	return Config{
		AutoStart:        true,
		LogLevel:         "info",
		MetricsNamespace: "digo",
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log level and startable names.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if slices.Contains(c.Startable, "") {
		return fmt.Errorf("startable: empty type name")
	}
	return nil
}
