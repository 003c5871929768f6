package aggregate

import (
	"fmt"
	"time"

	"github.com/okian/pionscan/pkg/logger"
)

// DefaultBatchSize is the default batch window.
const DefaultBatchSize = 1000

// Layout describes how particle lines are grouped in the stream.
type Layout int

// Layouts.
const (
	// Nested streams repeat a header followed by its declared particle lines.
	Nested Layout = iota
	// Flat streams have one leading header and every other line is a particle.
	Flat
)

// BatchUnit is what fills a batch window.
type BatchUnit int

// Batch units.
const (
	Particles BatchUnit = iota
	Events
)

// HeaderPolicy decides how declared particle counts are checked.
type HeaderPolicy int

// Header policies.
const (
	// Trust accepts the declared counts; a short final event or a malformed
	// header ends the stream quietly.
	Trust HeaderPolicy = iota
	// Strict fails with a *ParseError on a short event or malformed header.
	// Headers must be exactly two integers, and a header line inside an event
	// block is a count mismatch.
	Strict
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithBatchSize sets the batch window.
func WithBatchSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithBatchUnit selects whether particles or events fill a window.
func WithBatchUnit(u BatchUnit) Option {
	return func(a *Aggregator) { a.unit = u }
}

// WithLayout selects nested or flat streams.
func WithLayout(l Layout) Option {
	return func(a *Aggregator) { a.layout = l }
}

// WithMaxParticles caps the particle lines processed; 0 disables the cap.
func WithMaxParticles(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.maxParticles = n
		}
	}
}

// WithMaxEvents caps the event headers consumed; 0 disables the cap.
func WithMaxEvents(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.maxEvents = n
		}
	}
}

// WithHeaderPolicy sets how declared particle counts are checked.
func WithHeaderPolicy(p HeaderPolicy) Option {
	return func(a *Aggregator) { a.headerPolicy = p }
}

// WithKinematics enables per-file momentum and pseudorapidity averages.
func WithKinematics(enabled bool) Option {
	return func(a *Aggregator) { a.kinematics = enabled }
}

// WithSamples keeps per-particle pT and p values, needed for ANOVA.
func WithSamples(enabled bool) Option {
	return func(a *Aggregator) { a.samples = enabled }
}

// WithClock overrides the time source used for Elapsed.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// ParseLayout accepts "nested" or "flat".
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "nested":
		return Nested, nil
	case "flat":
		return Flat, nil
	}
	return Nested, fmt.Errorf("%w: layout %q", ErrUnknownOption, s)
}

// ParseBatchUnit accepts "particle" or "event".
func ParseBatchUnit(s string) (BatchUnit, error) {
	switch s {
	case "", "particle":
		return Particles, nil
	case "event":
		return Events, nil
	}
	return Particles, fmt.Errorf("%w: batch unit %q", ErrUnknownOption, s)
}

// ParseHeaderPolicy accepts "trust" or "strict".
func ParseHeaderPolicy(s string) (HeaderPolicy, error) {
	switch s {
	case "", "trust":
		return Trust, nil
	case "strict":
		return Strict, nil
	}
	return Trust, fmt.Errorf("%w: header policy %q", ErrUnknownOption, s)
}
