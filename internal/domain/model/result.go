package model

import "time"

// Convention names the statistical convention a verdict was judged under.
type Convention string

// Supported conventions.
const (
	// CountBased compares against a small threshold on the significance of
	// raw count differences.
	CountBased Convention = "count"
	// SigmaBased compares against a threshold expressed in standard deviations.
	SigmaBased Convention = "sigma"
)

// SignificanceResult is derived from a RunSummary by the statistics engine.
// Undefined quantities are NaN.
type SignificanceResult struct {
	AveragePositive     float64
	AverageNegative     float64
	UncertaintyPositive float64
	UncertaintyNegative float64
	Difference          float64 // |TotalPositive - TotalNegative|
	MeanDifference      float64 // AveragePositive - AverageNegative
	CombinedUncertainty float64
	Significance        float64
	Threshold           float64
	Convention          Convention
	Significant         bool // Significance > Threshold
}

// MomentumAverages are per-file kinematic means. Undefined means are NaN.
type MomentumAverages struct {
	MeanP        float64
	MeanPT       float64
	MeanEta      float64
	DomainErrors int
}

// FileResult is the outcome of one successfully processed file.
type FileResult struct {
	Path       string
	Summary    RunSummary
	Result     SignificanceResult
	Kinematics *MomentumAverages
}

// FileFailure records a file that could not be processed.
type FileFailure struct {
	Path string
	Err  error
}

// ANOVAResult is a one-way ANOVA across files for one kinematic metric.
type ANOVAResult struct {
	Metric    string // "pt" or "p"
	Groups    int
	DFBetween int
	DFWithin  int
	F         float64
	PValue    float64
}

// Report is the outcome of a multi-file run.
type Report struct {
	RunID      string
	Results    []FileResult // input order
	Failures   []FileFailure
	Duplicates []string
	ANOVA      []ANOVAResult
	Elapsed    time.Duration
}
