package service

import (
	"fmt"

	"github.com/okian/pionscan/internal/config"
	"github.com/okian/pionscan/internal/domain/aggregate"
	"github.com/okian/pionscan/internal/domain/model"
	"github.com/okian/pionscan/internal/domain/stats"
	"github.com/okian/pionscan/pkg/logger"
)

// OptionsFromConfig translates a validated Config into Service options.
func OptionsFromConfig(cfg *config.Config, log logger.Logger) ([]Option, error) {
	layout, err := aggregate.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	unit, err := aggregate.ParseBatchUnit(cfg.BatchUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	policy, err := aggregate.ParseHeaderPolicy(cfg.HeaderPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	denom, err := stats.ParseDenominator(cfg.Denominator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	unc, err := stats.ParseUncertainty(cfg.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	num, err := stats.ParseNumerator(cfg.Numerator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	zero, err := stats.ParseZeroPolicy(cfg.ZeroPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	agg := aggregate.New(
		aggregate.WithBatchSize(cfg.BatchSize),
		aggregate.WithBatchUnit(unit),
		aggregate.WithLayout(layout),
		aggregate.WithMaxParticles(cfg.MaxParticles),
		aggregate.WithMaxEvents(cfg.MaxEvents),
		aggregate.WithHeaderPolicy(policy),
		aggregate.WithKinematics(cfg.Kinematics || cfg.ANOVA),
		aggregate.WithSamples(cfg.ANOVA),
		aggregate.WithLogger(log.Named("aggregate")),
	)
	eval := stats.NewEvaluator(
		stats.WithDenominator(denom),
		stats.WithUncertainty(unc),
		stats.WithNumerator(num),
		stats.WithZeroPolicy(zero),
		stats.WithConvention(model.Convention(cfg.Convention)),
		stats.WithCountThreshold(cfg.CountThreshold),
		stats.WithSigmaThreshold(cfg.SigmaThreshold),
	)

	return []Option{
		WithWorkerCount(cfg.Workers),
		WithAggregator(agg),
		WithEvaluator(eval),
		WithANOVA(cfg.ANOVA),
		WithLogger(log),
	}, nil
}
