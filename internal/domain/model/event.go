// Package model contains domain models passed between layers.
package model

import "time"

// ParticleRecord is one parsed particle line. It is built per line and
// consumed immediately.
type ParticleRecord struct {
	Px   float64
	Py   float64
	Pz   float64
	Code int // PDG code, read from the last token of the line
}

// EventHeader opens an event block.
type EventHeader struct {
	ID    int
	Count int // declared number of particle lines that follow
}

// BatchCounts holds the class tallies of one sealed batch window.
type BatchCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Empty reports whether neither class was seen in the window.
func (b BatchCounts) Empty() bool { return b.Positive == 0 && b.Negative == 0 }

// KinematicSummary accumulates per-particle kinematics for one run.
type KinematicSummary struct {
	Particles    int     // particles contributing to SumP and SumPT
	SumP         float64 // total momentum
	SumPT        float64 // transverse momentum
	SumEta       float64 // pseudorapidity, only over defined values
	EtaCount     int
	DomainErrors int // particles whose pseudorapidity is undefined
}

// Samples keeps per-particle values for cross-file tests such as ANOVA.
type Samples struct {
	PT []float64
	P  []float64
}

// RunSummary aggregates one file.
//
// The sum of Batches[i].Positive equals TotalPositive, and likewise for
// TotalNegative.
type RunSummary struct {
	TotalPositive int
	TotalNegative int
	Processed     int // particle lines parsed and classified
	Events        int // event headers consumed
	Skipped       int // malformed particle lines
	Batches       []BatchCounts
	Truncated     bool // a particle or event cap stopped the run
	Elapsed       time.Duration
	Kinematics    *KinematicSummary
	Samples       *Samples
}

// BatchTotals sums the sealed batches.
func (s *RunSummary) BatchTotals() BatchCounts {
	var t BatchCounts
	for _, b := range s.Batches {
		t.Positive += b.Positive
		t.Negative += b.Negative
	}
	return t
}
