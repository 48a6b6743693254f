// Package config turns the system config file, environment and flags into
// the runtime configuration, and loads user input files.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/reglet-dev/phasehull/internal/domain/services"
	"github.com/reglet-dev/phasehull/internal/infrastructure/system"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides,
// e.g. PHASEHULL_ESTIMATOR_KIND.
const EnvPrefix = "PHASEHULL"

// RuntimeConfig aggregates all runtime configuration.
// This is a value object that flows through the system.
type RuntimeConfig struct {
	Grid      *services.CandidateGrid
	Estimator system.EstimatorConfig
	Server    system.ServerConfig

	// Concurrency
	MaxConcurrentQueries int
}

// FromSystemConfig creates RuntimeConfig from system config.
func FromSystemConfig(sys *system.Config) *RuntimeConfig {
	grid := services.NewCandidateGrid()
	if sys.Grid.RampTotal != 0 {
		grid = grid.WithRampTotal(sys.Grid.RampTotal)
	}
	if len(sys.Grid.CommonRatios) > 0 {
		ratios := make([]services.Ratio, 0, len(sys.Grid.CommonRatios))
		for _, r := range sys.Grid.CommonRatios {
			ratios = append(ratios, services.Ratio{A: r[0], B: r[1]})
		}
		grid = grid.WithCommonRatios(ratios)
	}

	return &RuntimeConfig{
		Grid:                 grid,
		Estimator:            sys.Estimator,
		Server:               sys.Server,
		MaxConcurrentQueries: sys.Batch.MaxConcurrent,
	}
}

// ApplyDefaults applies defaults for zero values.
func (r *RuntimeConfig) ApplyDefaults() {
	defaults := system.DefaultConfig()
	if r.Grid == nil {
		r.Grid = services.NewCandidateGrid()
	}
	if r.Estimator.Kind == "" {
		r.Estimator.Kind = defaults.Estimator.Kind
	}
	if r.Estimator.MinEnergy == 0 && r.Estimator.MaxEnergy == 0 {
		r.Estimator.MinEnergy = defaults.Estimator.MinEnergy
		r.Estimator.MaxEnergy = defaults.Estimator.MaxEnergy
	}
	if r.Estimator.RemoteTimeout == 0 {
		r.Estimator.RemoteTimeout = defaults.Estimator.RemoteTimeout
	}
	if r.Server.Addr == "" {
		r.Server.Addr = defaults.Server.Addr
	}
	if r.Server.MaxBodyBytes == 0 {
		r.Server.MaxBodyBytes = defaults.Server.MaxBodyBytes
	}
	if r.Server.RequestTimeout == 0 {
		r.Server.RequestTimeout = defaults.Server.RequestTimeout
	}
	if len(r.Server.AllowedOrigins) == 0 {
		r.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if r.MaxConcurrentQueries == 0 {
		r.MaxConcurrentQueries = runtime.NumCPU()
	}
}

// Validate checks the configuration for values no component can run with.
func (r *RuntimeConfig) Validate() error {
	if err := r.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	switch r.Estimator.Kind {
	case system.EstimatorRandom:
		if r.Estimator.MinEnergy >= r.Estimator.MaxEnergy {
			return fmt.Errorf("estimator: min_energy %g must be below max_energy %g",
				r.Estimator.MinEnergy, r.Estimator.MaxEnergy)
		}
	case system.EstimatorTable:
		if r.Estimator.TablePath == "" {
			return fmt.Errorf("estimator: table_path is required for the table estimator")
		}
	case system.EstimatorRemote:
		if r.Estimator.RemoteURL == "" {
			return fmt.Errorf("estimator: remote_url is required for the remote estimator")
		}
	default:
		return fmt.Errorf("estimator: unknown kind %q", r.Estimator.Kind)
	}
	if r.MaxConcurrentQueries < 0 {
		return fmt.Errorf("batch: max_concurrent must not be negative")
	}
	return nil
}

// NewViper returns a viper instance reading PHASEHULL_* environment variables,
// with dots in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (bound flag or environment) over
// the file configuration.
func ApplyOverrides(sys *system.Config, v *viper.Viper) {
	if v.IsSet("estimator.kind") {
		sys.Estimator.Kind = v.GetString("estimator.kind")
	}
	if v.IsSet("estimator.seed") {
		sys.Estimator.Seed = v.GetInt64("estimator.seed")
	}
	if v.IsSet("estimator.table_path") {
		sys.Estimator.TablePath = v.GetString("estimator.table_path")
	}
	if v.IsSet("estimator.version_constraint") {
		sys.Estimator.VersionConstraint = v.GetString("estimator.version_constraint")
	}
	if v.IsSet("estimator.remote_url") {
		sys.Estimator.RemoteURL = v.GetString("estimator.remote_url")
	}
	if v.IsSet("estimator.remote_timeout") {
		sys.Estimator.RemoteTimeout = v.GetDuration("estimator.remote_timeout")
	}
	if v.IsSet("estimator.max_retries") {
		sys.Estimator.MaxRetries = v.GetInt("estimator.max_retries")
	}
	if v.IsSet("estimator.max_atomic_number") {
		sys.Estimator.MaxAtomicNumber = v.GetInt("estimator.max_atomic_number")
	}
	if v.IsSet("grid.ramp_total") {
		sys.Grid.RampTotal = v.GetInt("grid.ramp_total")
	}
	if v.IsSet("server.addr") {
		sys.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		sys.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("batch.max_concurrent") {
		sys.Batch.MaxConcurrent = v.GetInt("batch.max_concurrent")
	}
}
