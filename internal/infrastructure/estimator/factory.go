package estimator

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/phasehull/internal/application/ports"
	"github.com/reglet-dev/phasehull/internal/infrastructure/system"
)

// New creates the estimator selected by cfg.Kind.
func New(cfg system.EstimatorConfig, logger *slog.Logger) (ports.EnergyEstimator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Kind {
	case system.EstimatorRandom, "":
		random, err := NewRandom(cfg.Seed, cfg.MinEnergy, cfg.MaxEnergy, cfg.MaxAtomicNumber)
		if err != nil {
			return nil, err
		}
		return random, nil
	case system.EstimatorTable:
		table, err := LoadTable(cfg.TablePath, cfg.VersionConstraint, cfg.MaxAtomicNumber)
		if err != nil {
			return nil, err
		}
		logger.Debug("prediction table loaded", "path", cfg.TablePath, "formulas", table.Len())
		return table, nil
	case system.EstimatorRemote:
		remote, err := NewRemote(RemoteOptions{
			URL:           cfg.RemoteURL,
			Timeout:       cfg.RemoteTimeout,
			Backoff:       BackoffStrategy(cfg.RetryBackoff),
			RetryDelay:    cfg.RetryDelay,
			MaxRetryDelay: cfg.MaxRetryDelay,
			MaxRetries:    cfg.MaxRetries,
			MaxZ:          cfg.MaxAtomicNumber,
			Logger:        logger,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown estimator kind %q", cfg.Kind)
	}
}

// Kinds returns the supported estimator kinds.
func Kinds() []string {
	return []string{system.EstimatorRandom, system.EstimatorTable, system.EstimatorRemote}
}
