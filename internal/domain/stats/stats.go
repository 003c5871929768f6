// Package stats computes counting statistics for pion tallies.
//
// Undefined results are reported as NaN rather than errors or panics; use
// IsUndefined to test for them.
package stats

import (
	"fmt"
	"math"
)

// Undefined returns the "not a number" sentinel.
func Undefined() float64 { return math.NaN() }

// IsUndefined reports whether v is the undefined sentinel.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

// Average returns total / n, undefined when n is zero.
func Average(total float64, n int) float64 {
	if n == 0 {
		return Undefined()
	}
	return total / float64(n)
}

// AverageUncertainty is the statistical uncertainty of the per-unit average
// of a Poisson count: sqrt(total) / n, undefined when n is zero.
func AverageUncertainty(total float64, n int) float64 {
	if n == 0 {
		return Undefined()
	}
	return math.Sqrt(total) / float64(n)
}

// RawPoissonUncertainty is the uncertainty of the raw count, sqrt(total).
func RawPoissonUncertainty(total float64) float64 {
	return math.Sqrt(total)
}

// CombinedUncertainty adds independent uncertainties in quadrature.
func CombinedUncertainty(u1, u2 float64) float64 {
	return math.Hypot(u1, u2)
}

// Difference returns |a - b|.
func Difference(a, b float64) float64 {
	return math.Abs(a - b)
}

// ZeroPolicy decides what Significance returns for a zero uncertainty.
type ZeroPolicy int

// Zero-division policies.
const (
	ZeroAsUndefined ZeroPolicy = iota // NaN
	ZeroAsZero                        // 0
	ZeroAsInfinity                    // +Inf
)

// Significance returns diff / combined. For combined == 0 the policy picks
// the result. A NaN combined uncertainty yields NaN regardless of policy.
func Significance(diff, combined float64, policy ZeroPolicy) float64 {
	if combined != 0 {
		return diff / combined
	}
	switch policy {
	case ZeroAsZero:
		return 0
	case ZeroAsInfinity:
		return math.Inf(1)
	default:
		return Undefined()
	}
}

// ExceedsThreshold reports value > threshold. Undefined values never exceed.
func ExceedsThreshold(value, threshold float64) bool {
	return value > threshold
}

// ParseZeroPolicy accepts "undefined", "zero" or "infinity".
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "undefined":
		return ZeroAsUndefined, nil
	case "zero":
		return ZeroAsZero, nil
	case "infinity", "inf":
		return ZeroAsInfinity, nil
	}
	return ZeroAsUndefined, fmt.Errorf("%w: zero policy %q", ErrUnknownOption, s)
}

func (p ZeroPolicy) String() string {
	switch p {
	case ZeroAsZero:
		return "zero"
	case ZeroAsInfinity:
		return "infinity"
	default:
		return "undefined"
	}
}
