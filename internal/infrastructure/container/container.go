// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"

	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/application/ports"
	"github.com/reglet-dev/phasehull/internal/application/services"
	domainservices "github.com/reglet-dev/phasehull/internal/domain/services"
	"github.com/reglet-dev/phasehull/internal/infrastructure/config"
	"github.com/reglet-dev/phasehull/internal/infrastructure/estimator"
	"github.com/reglet-dev/phasehull/internal/infrastructure/httpapi"
	"github.com/reglet-dev/phasehull/internal/infrastructure/output"
	"github.com/reglet-dev/phasehull/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/phasehull/internal/infrastructure/system"
	"github.com/reglet-dev/phasehull/internal/infrastructure/validation"
	"github.com/reglet-dev/phasehull/internal/version"
	"github.com/spf13/viper"
)

// DefaultResultCapacity is the number of reaction results kept in memory.
const DefaultResultCapacity = 1000

// Container holds all application dependencies.
type Container struct {
	estimator        ports.EnergyEstimator
	results          *memory.ReactionResultRepository
	validator        *validation.SchemaValidator
	inputLoader      *config.InputLoader
	formatters       *output.FormatterFactory
	reactionProducts *services.ReactionProductsUseCase
	batchReactions   *services.BatchReactionsUseCase
	buildDiagram     *services.BuildDiagramUseCase
	runtimeCfg       *config.RuntimeConfig
	systemCfg        *system.Config
	logger           *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string

	// Overrides holds environment and flag values bound over the file.
	// Nil means no overrides.
	Overrides *viper.Viper

	// ResultCapacity bounds the in-memory result store.
	// 0 means DefaultResultCapacity.
	ResultCapacity int
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ResultCapacity == 0 {
		opts.ResultCapacity = DefaultResultCapacity
	}

	systemCfg, err := system.NewConfigLoader().Load(opts.SystemConfigPath)
	if err != nil {
		return nil, apperrors.NewConfigurationError("system config", opts.SystemConfigPath, err)
	}
	if opts.Overrides != nil {
		config.ApplyOverrides(systemCfg, opts.Overrides)
	}

	runtimeCfg := config.FromSystemConfig(systemCfg)
	runtimeCfg.ApplyDefaults()
	if err := runtimeCfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("runtime config", "invalid configuration", err)
	}

	energyEstimator, err := estimator.New(runtimeCfg.Estimator, opts.Logger)
	if err != nil {
		return nil, apperrors.NewConfigurationError("estimator", runtimeCfg.Estimator.Kind, err)
	}

	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load input schemas: %w", err)
	}

	results := memory.NewReactionResultRepository(opts.ResultCapacity)

	reactionProducts := services.NewReactionProductsUseCase(
		energyEstimator,
		runtimeCfg.Grid,
		results,
		opts.Logger,
	)

	opts.Logger.Debug("container ready",
		"estimator", energyEstimator.Name(),
		"max_concurrent", runtimeCfg.MaxConcurrentQueries,
		"config", opts.SystemConfigPath)

	return &Container{
		estimator:        energyEstimator,
		results:          results,
		validator:        validator,
		inputLoader:      config.NewInputLoader(validator),
		formatters:       output.NewFormatterFactory(),
		reactionProducts: reactionProducts,
		batchReactions:   services.NewBatchReactionsUseCase(reactionProducts, opts.Logger),
		buildDiagram:     services.NewBuildDiagramUseCase(opts.Logger),
		runtimeCfg:       runtimeCfg,
		systemCfg:        systemCfg,
		logger:           opts.Logger,
	}, nil
}

// ReactionProductsUseCase returns the single-query use case.
func (c *Container) ReactionProductsUseCase() *services.ReactionProductsUseCase {
	return c.reactionProducts
}

// BatchReactionsUseCase returns the batch use case.
func (c *Container) BatchReactionsUseCase() *services.BatchReactionsUseCase {
	return c.batchReactions
}

// BuildDiagramUseCase returns the user-entry diagram use case.
func (c *Container) BuildDiagramUseCase() *services.BuildDiagramUseCase {
	return c.buildDiagram
}

// Estimator returns the configured energy estimator.
func (c *Container) Estimator() ports.EnergyEstimator {
	return c.estimator
}

// Grid returns the candidate grid.
func (c *Container) Grid() *domainservices.CandidateGrid {
	return c.runtimeCfg.Grid
}

// InputLoader returns the batch and entry file loader.
func (c *Container) InputLoader() *config.InputLoader {
	return c.inputLoader
}

// FormatterFactory returns the output formatter factory.
func (c *Container) FormatterFactory() ports.OutputFormatterFactory {
	return c.formatters
}

// RuntimeConfig returns the resolved runtime configuration.
func (c *Container) RuntimeConfig() *config.RuntimeConfig {
	return c.runtimeCfg
}

// SystemConfig returns the loaded system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the application logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// HTTPServer builds the API server over the container's use cases.
func (c *Container) HTTPServer() *httpapi.Server {
	return httpapi.NewServer(c.runtimeCfg.Server, httpapi.Dependencies{
		Reactions:     c.reactionProducts,
		Batch:         c.batchReactions,
		Grid:          c.runtimeCfg.Grid,
		Results:       c.results,
		Validator:     c.validator,
		Logger:        c.logger,
		Estimator:     c.estimator.Name(),
		Version:       version.Get().Version,
		MaxConcurrent: c.runtimeCfg.MaxConcurrentQueries,
	})
}
