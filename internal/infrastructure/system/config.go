// Package system provides infrastructure for system-level configuration.
// This covers the system config file (~/.phasehull/config.yaml) selecting the
// estimator, candidate grid, API server and batch settings.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// Estimator kinds.
const (
	EstimatorRandom = "random"
	EstimatorTable  = "table"
	EstimatorRemote = "remote"
)

// Config represents the global configuration file (~/.phasehull/config.yaml).
type Config struct {
	Estimator EstimatorConfig `yaml:"estimator"`
	Server    ServerConfig    `yaml:"server"`
	Grid      GridConfig      `yaml:"grid"`
	Batch     BatchConfig     `yaml:"batch"`
}

// EstimatorConfig selects and tunes the energy estimator.
type EstimatorConfig struct {
	// Kind is "random", "table" or "remote"
	Kind string `yaml:"kind"`

	// TablePath is the prediction table used by the table estimator
	TablePath string `yaml:"table_path"`

	// VersionConstraint is checked against the prediction table version (e.g. ">= 1.2, < 2")
	VersionConstraint string `yaml:"version_constraint"`

	// Remote model server
	RemoteURL     string        `yaml:"remote_url"`
	RetryBackoff  string        `yaml:"retry_backoff"` // none, linear or exponential
	RemoteTimeout time.Duration `yaml:"remote_timeout"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay"`
	MaxRetries    int           `yaml:"max_retries"`

	// Random estimator range [MinEnergy, MaxEnergy) and seed
	Seed      int64   `yaml:"seed"`
	MinEnergy float64 `yaml:"min_energy"`
	MaxEnergy float64 `yaml:"max_energy"`

	// MaxAtomicNumber rejects compositions with heavier elements (0 = no limit)
	MaxAtomicNumber int `yaml:"max_atomic_number"`
}

// GridConfig configures candidate generation.
type GridConfig struct {
	CommonRatios [][2]int `yaml:"common_ratios"`
	RampTotal    int      `yaml:"ramp_total"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// BatchConfig configures batch queries.
type BatchConfig struct {
	// MaxConcurrent limits parallel queries (0 = number of CPUs)
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultPath returns ~/.phasehull/config.yaml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".phasehull", "config.yaml")
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Estimator: EstimatorConfig{
			Kind:          EstimatorRandom,
			MinEnergy:     -3.0,
			MaxEnergy:     0.5,
			RemoteTimeout: 30 * time.Second,
			RetryBackoff:  "exponential",
			RetryDelay:    200 * time.Millisecond,
			MaxRetryDelay: 5 * time.Second,
			MaxRetries:    2,
		},
		Grid: GridConfig{
			RampTotal:    10,
			CommonRatios: [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 3}, {3, 2}, {2, 5}, {1, 3}},
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Batch: BatchConfig{
			MaxConcurrent: 0, // 0 means number of CPUs
		},
	}
}

// Load loads the system configuration from the specified path, on top of
// DefaultConfig(). If the file does not exist, returns DefaultConfig().
func (l *ConfigLoader) Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	return config, nil
}
