// Package config defines run configuration and its loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers a YAML file and env vars on top.
// - Enumerated values are validated here so callers can parse them without
//   re-checking.
package config

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Files lists input paths read when none are given on the command line.
	Files []string `koanf:"files"`

	// BatchSize is the window length in BatchUnit units.
	BatchSize int `koanf:"batch_size" validate:"gte=1"`

	// BatchUnit counts windows in particles or events.
	BatchUnit string `koanf:"batch_unit" validate:"oneof=particle event"`

	// Layout is nested (header + particles per event) or flat (one header).
	Layout string `koanf:"layout" validate:"oneof=nested flat"`

	// MaxParticles and MaxEvents cap each file; zero means no cap.
	MaxParticles int `koanf:"max_particles" validate:"gte=0"`
	MaxEvents    int `koanf:"max_events" validate:"gte=0"`

	// HeaderPolicy is trust or strict.
	HeaderPolicy string `koanf:"header_policy" validate:"oneof=trust strict"`

	// Denominator is the unit averages are taken over: particle, event or batch.
	Denominator string `koanf:"denominator" validate:"oneof=particle event batch"`

	// Uncertainty is average (sqrt(N)/n) or raw (sqrt(N)).
	Uncertainty string `koanf:"uncertainty" validate:"oneof=average raw"`

	// Numerator is total (|N+ - N-|) or mean (signed avg+ - avg-).
	Numerator string `koanf:"numerator" validate:"oneof=total mean"`

	// ZeroPolicy picks the significance for a zero uncertainty.
	ZeroPolicy string `koanf:"zero_policy" validate:"oneof=undefined zero infinity inf"`

	// Convention selects the threshold: count or sigma.
	Convention     string  `koanf:"convention" validate:"oneof=count sigma"`
	CountThreshold float64 `koanf:"count_threshold" validate:"gte=0"`
	SigmaThreshold float64 `koanf:"sigma_threshold" validate:"gte=0"`

	// Kinematics enables per-file momentum averages.
	Kinematics bool `koanf:"kinematics"`

	// ANOVA enables the cross-file test on pT and p; it implies Kinematics.
	ANOVA bool `koanf:"anova"`

	// Workers bounds concurrent files; the effective count is min(files, Workers).
	Workers int `koanf:"workers" validate:"gte=1"`

	// Report outputs; empty disables each.
	ReportJSON  string `koanf:"report_json"`
	ReportXLSX  string `koanf:"report_xlsx"`
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		BatchSize:      1000,
		BatchUnit:      "particle",
		Layout:         "nested",
		HeaderPolicy:   "trust",
		Denominator:    "particle",
		Uncertainty:    "average",
		Numerator:      "total",
		ZeroPolicy:     "undefined",
		Convention:     "count",
		CountThreshold: 0.05,
		SigmaThreshold: 3.0,
		Workers:        runtime.NumCPU(),
	}
}

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
