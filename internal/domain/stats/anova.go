package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVA is the outcome of a one-way analysis of variance.
type ANOVA struct {
	F         float64
	PValue    float64
	DFBetween int
	DFWithin  int
}

// OneWayANOVA tests whether the group means differ. The p-value is the upper
// tail of the F distribution at the observed statistic.
func OneWayANOVA(groups [][]float64) (ANOVA, error) {
	k := len(groups)
	if k < 2 {
		return ANOVA{}, ErrTooFewGroups
	}

	means := make([]float64, k)
	var total int
	var grandSum float64
	for i, g := range groups {
		if len(g) == 0 {
			return ANOVA{}, fmt.Errorf("%w: group %d", ErrEmptyGroup, i)
		}
		means[i] = stat.Mean(g, nil)
		grandSum += means[i] * float64(len(g))
		total += len(g)
	}
	grand := grandSum / float64(total)

	var ssb, ssw float64
	for i, g := range groups {
		d := means[i] - grand
		ssb += float64(len(g)) * d * d
		for _, x := range g {
			w := x - means[i]
			ssw += w * w
		}
	}

	res := ANOVA{DFBetween: k - 1, DFWithin: total - k}
	if res.DFWithin <= 0 {
		return ANOVA{}, ErrNoDegrees
	}

	msb := ssb / float64(res.DFBetween)
	msw := ssw / float64(res.DFWithin)
	switch {
	case msw == 0 && msb == 0:
		res.F, res.PValue = Undefined(), Undefined()
	case msw == 0:
		res.F, res.PValue = math.Inf(1), 0
	default:
		res.F = msb / msw
		dist := distuv.F{D1: float64(res.DFBetween), D2: float64(res.DFWithin)}
		res.PValue = 1 - dist.CDF(res.F)
	}
	return res, nil
}
