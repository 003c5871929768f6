package stats

import "errors"

// Sentinel kinds for statistics errors.
var (
	ErrTooFewGroups  = errors.New("anova needs at least two groups")
	ErrEmptyGroup    = errors.New("anova group has no observations")
	ErrNoDegrees     = errors.New("anova has no within-group degrees of freedom")
	ErrUnknownOption = errors.New("unknown statistics option")
)
