// Package kinematics holds pure momentum helpers for particle records.
package kinematics

import (
	"fmt"
	"math"
)

// Momentum returns |p| = sqrt(px² + py² + pz²).
func Momentum(px, py, pz float64) float64 {
	return math.Sqrt(px*px + py*py + pz*pz)
}

// TransverseMomentum returns pT = sqrt(px² + py²).
func TransverseMomentum(px, py float64) float64 {
	return math.Hypot(px, py)
}

// Pseudorapidity returns -ln(tan(θ/2)) with θ = acos(pz/p).
//
// It fails with ErrDomain when p is zero, when |pz/p| > 1, or when the
// result is infinite (a particle along the beam axis).
func Pseudorapidity(pz, p float64) (float64, error) {
	if p == 0 || math.IsNaN(p) || math.IsNaN(pz) {
		return 0, fmt.Errorf("%w: pseudorapidity with p=%g", ErrDomain, p)
	}
	c := pz / p
	if c > 1 || c < -1 {
		return 0, fmt.Errorf("%w: pz/p=%g outside [-1, 1]", ErrDomain, c)
	}
	theta := math.Acos(c)
	eta := -math.Log(math.Tan(theta / 2))
	if math.IsInf(eta, 0) || math.IsNaN(eta) {
		return 0, fmt.Errorf("%w: pseudorapidity diverges for pz/p=%g", ErrDomain, c)
	}
	return eta, nil
}

// AzimuthalAngle returns φ = atan2(py, px) in (-π, π].
func AzimuthalAngle(px, py float64) float64 {
	return math.Atan2(py, px)
}
