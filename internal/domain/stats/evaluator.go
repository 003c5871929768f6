package stats

import (
	"fmt"

	"github.com/okian/pionscan/internal/domain/model"
)

// Default thresholds of the two conventions in use.
const (
	DefaultCountThreshold = 0.05
	DefaultSigmaThreshold = 3.0
)

// Denominator selects the unit averages are taken over.
type Denominator int

// Denominators.
const (
	PerParticle Denominator = iota
	PerEvent
	PerBatch
)

// Uncertainty selects which uncertainty feeds the combined uncertainty.
type Uncertainty int

// Uncertainty kinds.
const (
	// AverageKind uses sqrt(total)/n, the uncertainty of the per-unit average.
	AverageKind Uncertainty = iota
	// RawPoissonKind uses sqrt(total), the uncertainty of the raw count.
	RawPoissonKind
)

// Numerator selects the quantity divided by the combined uncertainty.
type Numerator int

// Numerator kinds.
const (
	// TotalDifference uses |total_pos - total_neg|.
	TotalDifference Numerator = iota
	// MeanDifference uses the signed avg_pos - avg_neg.
	MeanDifference
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithDenominator sets the unit for averages.
func WithDenominator(d Denominator) Option {
	return func(e *Evaluator) { e.denominator = d }
}

// WithUncertainty sets the uncertainty kind.
func WithUncertainty(u Uncertainty) Option {
	return func(e *Evaluator) { e.uncertainty = u }
}

// WithNumerator sets the significance numerator.
func WithNumerator(n Numerator) Option {
	return func(e *Evaluator) { e.numerator = n }
}

// WithZeroPolicy sets the significance result for a zero uncertainty.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(e *Evaluator) { e.zeroPolicy = p }
}

// WithConvention selects which threshold decides the verdict.
func WithConvention(c model.Convention) Option {
	return func(e *Evaluator) {
		if c == model.CountBased || c == model.SigmaBased {
			e.convention = c
		}
	}
}

// WithCountThreshold sets the count-based threshold.
func WithCountThreshold(t float64) Option {
	return func(e *Evaluator) {
		if t >= 0 {
			e.countThreshold = t
		}
	}
}

// WithSigmaThreshold sets the sigma-based threshold.
func WithSigmaThreshold(t float64) Option {
	return func(e *Evaluator) {
		if t >= 0 {
			e.sigmaThreshold = t
		}
	}
}

// Evaluator turns a RunSummary into a SignificanceResult.
type Evaluator struct {
	denominator    Denominator
	uncertainty    Uncertainty
	numerator      Numerator
	zeroPolicy     ZeroPolicy
	convention     model.Convention
	countThreshold float64
	sigmaThreshold float64
}

// NewEvaluator creates an evaluator. Defaults: per-particle averages,
// average uncertainty, absolute total difference as numerator, undefined on
// zero division, count-based verdict.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		denominator:    PerParticle,
		uncertainty:    AverageKind,
		numerator:      TotalDifference,
		zeroPolicy:     ZeroAsUndefined,
		convention:     model.CountBased,
		countThreshold: DefaultCountThreshold,
		sigmaThreshold: DefaultSigmaThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the threshold of the configured convention.
func (e *Evaluator) Threshold() float64 {
	if e.convention == model.SigmaBased {
		return e.sigmaThreshold
	}
	return e.countThreshold
}

// Evaluate computes averages, uncertainties and the significance verdict.
func (e *Evaluator) Evaluate(s model.RunSummary) model.SignificanceResult { //nolint:gocritic // hugeParam: summaries are passed by value across layers
	n := e.units(s)
	pos, neg := float64(s.TotalPositive), float64(s.TotalNegative)

	r := model.SignificanceResult{
		AveragePositive: Average(pos, n),
		AverageNegative: Average(neg, n),
		Difference:      Difference(pos, neg),
		Convention:      e.convention,
		Threshold:       e.Threshold(),
	}
	r.MeanDifference = r.AveragePositive - r.AverageNegative

	switch e.uncertainty {
	case RawPoissonKind:
		r.UncertaintyPositive = RawPoissonUncertainty(pos)
		r.UncertaintyNegative = RawPoissonUncertainty(neg)
	default:
		r.UncertaintyPositive = AverageUncertainty(pos, n)
		r.UncertaintyNegative = AverageUncertainty(neg, n)
	}

	r.CombinedUncertainty = CombinedUncertainty(r.UncertaintyPositive, r.UncertaintyNegative)
	num := r.Difference
	if e.numerator == MeanDifference {
		num = r.MeanDifference
	}
	r.Significance = Significance(num, r.CombinedUncertainty, e.zeroPolicy)
	r.Significant = ExceedsThreshold(r.Significance, r.Threshold)
	return r
}

func (e *Evaluator) units(s model.RunSummary) int { //nolint:gocritic // hugeParam
	switch e.denominator {
	case PerEvent:
		return s.Events
	case PerBatch:
		return len(s.Batches)
	default:
		return s.Processed
	}
}

// ParseDenominator accepts "particle", "event" or "batch".
func ParseDenominator(s string) (Denominator, error) {
	switch s {
	case "", "particle":
		return PerParticle, nil
	case "event":
		return PerEvent, nil
	case "batch":
		return PerBatch, nil
	}
	return PerParticle, fmt.Errorf("%w: denominator %q", ErrUnknownOption, s)
}

// ParseUncertainty accepts "average" or "raw".
func ParseUncertainty(s string) (Uncertainty, error) {
	switch s {
	case "", "average":
		return AverageKind, nil
	case "raw":
		return RawPoissonKind, nil
	}
	return AverageKind, fmt.Errorf("%w: uncertainty %q", ErrUnknownOption, s)
}

// ParseNumerator accepts "total" or "mean".
func ParseNumerator(s string) (Numerator, error) {
	switch s {
	case "", "total":
		return TotalDifference, nil
	case "mean":
		return MeanDifference, nil
	}
	return TotalDifference, fmt.Errorf("%w: numerator %q", ErrUnknownOption, s)
}

// MomentumAverages turns accumulated kinematics into per-file means. It
// returns nil when k is nil; means over zero particles are undefined.
func MomentumAverages(k *model.KinematicSummary) *model.MomentumAverages {
	if k == nil {
		return nil
	}
	return &model.MomentumAverages{
		MeanP:        Average(k.SumP, k.Particles),
		MeanPT:       Average(k.SumPT, k.Particles),
		MeanEta:      Average(k.SumEta, k.EtaCount),
		DomainErrors: k.DomainErrors,
	}
}
