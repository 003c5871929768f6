package service

import (
	"time"

	"github.com/okian/pionscan/internal/domain/aggregate"
	"github.com/okian/pionscan/internal/domain/stats"
	"github.com/okian/pionscan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the upper bound of concurrently processed files.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithAggregator sets the per-file aggregator.
func WithAggregator(a *aggregate.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithEvaluator sets the statistics evaluator.
func WithEvaluator(e *stats.Evaluator) Option {
	return func(s *Service) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithANOVA enables the cross-file test on pT and p. The aggregator must
// collect samples for it to have input.
func WithANOVA(enabled bool) Option {
	return func(s *Service) { s.anova = enabled }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for report timing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID fixes the report id instead of generating one.
func WithRunID(id string) Option {
	return func(s *Service) { s.runID = id }
}
