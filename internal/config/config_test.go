package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/pionscan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.BatchSize, convey.ShouldEqual, 1000)
			convey.So(cfg.BatchUnit, convey.ShouldEqual, "particle")
			convey.So(cfg.Layout, convey.ShouldEqual, "nested")
			convey.So(cfg.HeaderPolicy, convey.ShouldEqual, "trust")
			convey.So(cfg.ZeroPolicy, convey.ShouldEqual, "undefined")
			convey.So(cfg.Numerator, convey.ShouldEqual, "total")
			convey.So(cfg.Convention, convey.ShouldEqual, "count")
			convey.So(cfg.CountThreshold, convey.ShouldEqual, 0.05)
			convey.So(cfg.SigmaThreshold, convey.ShouldEqual, 3.0)
			convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad values", t, func() {
		cases := map[string]func(*config.Config){
			"zero batch size":   func(c *config.Config) { c.BatchSize = 0 },
			"unknown layout":    func(c *config.Config) { c.Layout = "tree" },
			"negative cap":      func(c *config.Config) { c.MaxParticles = -1 },
			"unknown policy":    func(c *config.Config) { c.ZeroPolicy = "nan" },
			"unknown unit":      func(c *config.Config) { c.BatchUnit = "file" },
			"negative sigma":    func(c *config.Config) { c.SigmaThreshold = -3 },
			"no workers":        func(c *config.Config) { c.Workers = 0 },
			"unknown numerator": func(c *config.Config) { c.Numerator = "median" },
			"unknown log level": func(c *config.Config) { c.LogLevel = "loud" },
		}
		for name, mutate := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
